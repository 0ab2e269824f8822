package hull

import (
	"math"

	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field is the union of its primitives. The value at a point is the
// minimum of the primitive values so primitive surfaces meet in creases.
type Field []Primitive

// Evaluate returns the minimum primitive value at p.
// The empty field evaluates to math.MaxFloat64 everywhere.
func (f Field) Evaluate(p r3.Vec) float64 {
	d := math.MaxFloat64
	for _, prim := range f {
		d = math.Min(d, prim.Evaluate(p))
	}
	return d
}

// Normal returns the normal of the primitive whose surface is nearest to p,
// judged by the absolute primitive value. It approximates the field
// gradient only near the surface.
func (f Field) Normal(p r3.Vec) r3.Vec {
	var nearest Primitive
	best := math.MaxFloat64
	for _, prim := range f {
		if d := math.Abs(prim.Evaluate(p)); d < best {
			best = d
			nearest = prim
		}
	}
	if nearest == nil {
		return r3.Vec{}
	}
	return nearest.Normal(p)
}

// Bounds returns the box enclosing all primitives. The bounds of an
// empty field are empty (Min greater than Max).
func (f Field) Bounds() r3.Box {
	bb := d3.Empty()
	for _, prim := range f {
		bb = bb.Extend(d3.Box(prim.Bounds()))
	}
	return r3.Box(bb)
}
