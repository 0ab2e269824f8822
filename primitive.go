package hull

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Primitive is an implicit solid placed in world space. Evaluate returns a
// pseudo-distance that is negative inside the solid, positive outside and
// zero on its boundary. The value is measured in the primitive's local frame
// so it is not an exact distance when the primitive is scaled.
type Primitive interface {
	Evaluate(p r3.Vec) float64
	// Normal returns the outward unit normal of the surface region
	// nearest to p, in world space.
	Normal(p r3.Vec) r3.Vec
	// Bounds returns a world space box containing the solid.
	Bounds() r3.Box
}

// Placement positions a primitive in world space. Local points are scaled,
// then rotated and then translated to Position.
// A zero Scale component is taken as 1 and the zero Rotation
// leaves the primitive unrotated.
type Placement struct {
	Position r3.Vec
	Rotation r3.Rotation
	Scale    r3.Vec
}

// Transform returns the local to world transform of the placement.
// Rotation is normalized before use.
func (pl Placement) Transform() d3.Transform {
	return d3.ComposeTransform(pl.Position, pl.scale(), pl.rotation())
}

func (pl Placement) rotation() r3.Rotation {
	q := pl.Rotation
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n == 0 || n == 1 {
		return q
	}
	return r3.Rotation{Real: q.Real / n, Imag: q.Imag / n, Jmag: q.Jmag / n, Kmag: q.Kmag / n}
}

func (pl Placement) scale() r3.Vec {
	s := pl.Scale
	if s.X == 0 {
		s.X = 1
	}
	if s.Y == 0 {
		s.Y = 1
	}
	if s.Z == 0 {
		s.Z = 1
	}
	return s
}

func (pl Placement) validate() error {
	s := pl.scale()
	if s.X < 0 || s.Y < 0 || s.Z < 0 || d3.IsNaN(s) {
		return fmt.Errorf("scale must be positive, got %v", pl.Scale)
	}
	if d3.IsNaN(pl.Position) {
		return errors.New("NaN position")
	}
	q := pl.Rotation
	if math.IsNaN(q.Real) || math.IsNaN(q.Imag) || math.IsNaN(q.Jmag) || math.IsNaN(q.Kmag) {
		return errors.New("NaN rotation")
	}
	return nil
}

// frame holds the world/local transforms shared by all primitives.
type frame struct {
	toWorld d3.Transform
	toLocal d3.Transform
}

func newFrame(pl Placement) (frame, error) {
	if err := pl.validate(); err != nil {
		return frame{}, err
	}
	toWorld := pl.Transform()
	if toWorld.Singular() {
		return frame{}, fmt.Errorf("placement scale %v is too small to invert", pl.Scale)
	}
	return frame{toWorld: toWorld, toLocal: toWorld.Inv()}, nil
}

func (f frame) local(p r3.Vec) r3.Vec { return f.toLocal.Transform(p) }

// normal maps a local gradient direction to a unit world normal.
func (f frame) normal(n r3.Vec) r3.Vec {
	return d3.Unit(f.toLocal.TransposeDirection(n))
}

func (f frame) bounds(local d3.Box) r3.Box {
	return r3.Box(f.toWorld.TransformBox(local))
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be positive and finite, got %g", name, v)
	}
	return nil
}

// Box is a cube of half side HalfExtent in its local frame.
type Box struct {
	frame
	halfExtent float64
}

var _ Primitive = (*Box)(nil)

// NewBox returns a box primitive. Non-uniform boxes are obtained
// through the placement scale.
func NewBox(halfExtent float64, pl Placement) (*Box, error) {
	if err := positive("box half extent", halfExtent); err != nil {
		return nil, err
	}
	f, err := newFrame(pl)
	if err != nil {
		return nil, err
	}
	return &Box{frame: f, halfExtent: halfExtent}, nil
}

// Evaluate returns the infinity norm of the local point minus the half extent.
func (b *Box) Evaluate(p r3.Vec) float64 {
	l := b.local(p)
	return d3.Max(d3.AbsElem(l)) - b.halfExtent
}

// Normal returns the normal of the box face whose axis dominates
// the local coordinates of p.
func (b *Box) Normal(p r3.Vec) r3.Vec {
	l := b.local(p)
	a := d3.AbsElem(l)
	var n r3.Vec
	switch {
	case a.Z > a.Y && a.Z > a.X:
		n.Z = l.Z
	case a.Y > a.X:
		n.Y = l.Y
	default:
		n.X = l.X
	}
	return b.normal(n)
}

func (b *Box) Bounds() r3.Box {
	return b.bounds(d3.NewBox(r3.Vec{}, d3.Elem(2*b.halfExtent)))
}

// Ellipsoid is a unit sphere in its local frame. Its radii are
// given by the placement scale.
type Ellipsoid struct {
	frame
}

var _ Primitive = (*Ellipsoid)(nil)

func NewEllipsoid(pl Placement) (*Ellipsoid, error) {
	f, err := newFrame(pl)
	if err != nil {
		return nil, err
	}
	return &Ellipsoid{frame: f}, nil
}

// Evaluate returns the length of the local point minus one.
func (e *Ellipsoid) Evaluate(p r3.Vec) float64 {
	return r3.Norm(e.local(p)) - 1
}

func (e *Ellipsoid) Normal(p r3.Vec) r3.Vec {
	return e.normal(e.local(p))
}

func (e *Ellipsoid) Bounds() r3.Box {
	return e.bounds(d3.NewBox(r3.Vec{}, d3.Elem(2)))
}

// Cylinder is a capped cylinder along the local Y axis.
type Cylinder struct {
	frame
	radius, halfHeight float64
}

var _ Primitive = (*Cylinder)(nil)

func NewCylinder(radius, halfHeight float64, pl Placement) (*Cylinder, error) {
	if err := positive("cylinder radius", radius); err != nil {
		return nil, err
	}
	if err := positive("cylinder half height", halfHeight); err != nil {
		return nil, err
	}
	f, err := newFrame(pl)
	if err != nil {
		return nil, err
	}
	return &Cylinder{frame: f, radius: radius, halfHeight: halfHeight}, nil
}

func (c *Cylinder) Evaluate(p r3.Vec) float64 {
	l := c.local(p)
	return math.Max(math.Abs(l.Y)-c.halfHeight, math.Hypot(l.X, l.Z)-c.radius)
}

// Normal returns the cap normal when p is closer to a cap plane
// than to the side wall, and the radial direction otherwise.
func (c *Cylinder) Normal(p r3.Vec) r3.Vec {
	l := c.local(p)
	if math.Abs(l.Y)-c.halfHeight > math.Hypot(l.X, l.Z)-c.radius {
		return c.normal(r3.Vec{Y: math.Copysign(1, l.Y)})
	}
	return c.normal(r3.Vec{X: l.X, Z: l.Z})
}

func (c *Cylinder) Bounds() r3.Box {
	return c.bounds(d3.NewBox(r3.Vec{}, r3.Vec{X: 2 * c.radius, Y: 2 * c.halfHeight, Z: 2 * c.radius}))
}
