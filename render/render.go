package render

import (
	"errors"
	"io"

	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field is a scalar field, negative inside the solid and positive outside.
// Normal must return the outward unit normal of the nearest surface and
// is only queried near zero crossings. Implementations must be safe
// for concurrent use.
type Field interface {
	Evaluate(p r3.Vec) float64
	Normal(p r3.Vec) r3.Vec
}

// BoundedField is a Field whose solid lies within Bounds.
type BoundedField interface {
	Field
	Bounds() r3.Box
}

// Renderer streams triangles of a model.
type Renderer interface {
	// ReadTriangles writes triangles into t and returns the number written.
	// io.EOF is returned once the model has been fully read.
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a triangle in 3D space. Vertices are ordered
// counter-clockwise when seen from outside the solid.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle plane.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return d3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two vertices are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// Centroid returns the mean of the triangle vertices.
func (t Triangle3) Centroid() r3.Vec {
	return d3.Set(t.V[:]).Centroid()
}

// RenderAll drains r and returns every triangle it produced.
// Reaching io.EOF is not an error.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var model []Triangle3
	buf := make([]Triangle3, stlBatch)
	for {
		n, err := r.ReadTriangles(buf)
		model = append(model, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return model, nil
		} else if err != nil {
			return model, err
		}
	}
}
