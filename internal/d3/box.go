package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d axis aligned bounding box.
type Box r3.Box

// NewBox creates a 3d box with a given center and size.
func NewBox(center, size r3.Vec) Box {
	half := r3.Scale(0.5, size)
	return Box{Min: r3.Sub(center, half), Max: r3.Add(center, half)}
}

// Empty returns a box that contains nothing and is the identity of Extend.
func Empty() Box {
	return Box{Min: Elem(math.Inf(1)), Max: Elem(math.Inf(-1))}
}

// IsEmpty reports whether the box has a negative extent along any axis.
func (a Box) IsEmpty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

// Equals test the equality of 3d boxes.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Extend returns a box enclosing two 3d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// Diagonal returns the length of the box diagonal.
func (a Box) Diagonal() float64 {
	return r3.Norm(a.Size())
}

// Volume returns the volume of the box.
func (a Box) Volume() float64 {
	sz := a.Size()
	return sz.X * sz.Y * sz.Z
}

// ScaleAboutCenter returns a new 3d box scaled about the center of a box.
func (a Box) ScaleAboutCenter(k float64) Box {
	return NewBox(a.Center(), r3.Scale(k, a.Size()))
}

// Symmetric lowers the box minimum so it reaches at least as far
// from the origin as the maximum does, per axis.
//  min = min(min, -max)
func (a Box) Symmetric() Box {
	return Box{Min: MinElem(a.Min, r3.Scale(-1, a.Max)), Max: a.Max}
}

// Contains checks if the 3d box contains the given vector (considering bounds as inside).
func (a Box) Contains(v r3.Vec) bool {
	return a.Min.X <= v.X && a.Min.Y <= v.Y && a.Min.Z <= v.Z &&
		v.X <= a.Max.X && v.Y <= a.Max.Y && v.Z <= a.Max.Z
}

// Corner returns the i'th corner of the box. Bit 0 of i selects
// the maximum X, bit 1 the maximum Y and bit 2 the maximum Z.
func (a Box) Corner(i int) r3.Vec {
	c := a.Min
	if i&1 != 0 {
		c.X = a.Max.X
	}
	if i&2 != 0 {
		c.Y = a.Max.Y
	}
	if i&4 != 0 {
		c.Z = a.Max.Z
	}
	return c
}

// Octant returns the i'th of the 8 equal sub-boxes of a, numbered like Corner.
func (a Box) Octant(i int) Box {
	mid := a.Center()
	o := Box{Min: a.Min, Max: mid}
	if i&1 != 0 {
		o.Min.X, o.Max.X = mid.X, a.Max.X
	}
	if i&2 != 0 {
		o.Min.Y, o.Max.Y = mid.Y, a.Max.Y
	}
	if i&4 != 0 {
		o.Min.Z, o.Max.Z = mid.Z, a.Max.Z
	}
	return o
}

// Vertices returns the 8 box corners ordered like Corner.
func (a Box) Vertices() Set {
	v := make(Set, 8)
	for i := range v {
		v[i] = a.Corner(i)
	}
	return v
}

// Include returns the smallest box containing a and the point v.
func (a Box) Include(v r3.Vec) Box {
	return Box{Min: MinElem(a.Min, v), Max: MaxElem(a.Max, v)}
}
