package hull

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soypat/hull/render"
)

// Shape names a kind of primitive.
type Shape string

const (
	ShapeBox       Shape = "box"
	ShapeEllipsoid Shape = "ellipsoid"
	ShapeCylinder  Shape = "cylinder"
)

// Default primitive dimensions, chosen so every catalog shape spans
// roughly the same volume.
var (
	DefaultBoxHalfExtent      = 1 / math.Sqrt2
	DefaultCylinderRadius     = 1.0
	DefaultCylinderHalfHeight = 1 / math.Sqrt2
)

// ErrUnknownShape is returned for shape names outside the catalog.
var ErrUnknownShape = errors.New("unknown shape")

// Catalog returns the shapes a Model can be populated with.
func Catalog() []Shape {
	return []Shape{ShapeBox, ShapeEllipsoid, ShapeCylinder}
}

// NewShape returns a primitive of the given shape with default dimensions.
func NewShape(s Shape, pl Placement) (Primitive, error) {
	switch s {
	case ShapeBox:
		return NewBox(DefaultBoxHalfExtent, pl)
	case ShapeEllipsoid:
		return NewEllipsoid(pl)
	case ShapeCylinder:
		return NewCylinder(DefaultCylinderRadius, DefaultCylinderHalfHeight, pl)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownShape, s)
}

// Model is an ordered collection of primitives and the mesh of their union.
// A Model is not safe for concurrent use.
type Model struct {
	prims []Primitive
	mesh  *render.Mesh
	stats render.Stats
}

// Attach appends p to the model.
func (m *Model) Attach(p Primitive) {
	if p == nil {
		panic("nil primitive")
	}
	m.prims = append(m.prims, p)
}

// Detach removes the first occurrence of p and reports whether it was found.
func (m *Model) Detach(p Primitive) bool {
	for i, prim := range m.prims {
		if prim == p {
			m.prims = append(m.prims[:i], m.prims[i+1:]...)
			return true
		}
	}
	return false
}

// Pop removes and returns the most recently attached primitive,
// or nil if the model is empty.
func (m *Model) Pop() Primitive {
	if len(m.prims) == 0 {
		return nil
	}
	last := m.prims[len(m.prims)-1]
	m.prims = m.prims[:len(m.prims)-1]
	return last
}

// Len returns the number of primitives in the model.
func (m *Model) Len() int { return len(m.prims) }

// Field returns a snapshot of the model's primitives as a Field.
func (m *Model) Field() Field {
	f := make(Field, len(m.prims))
	copy(f, m.prims)
	return f
}

// Rebuild meshes the current primitives. An empty model keeps the
// previous mesh.
func (m *Model) Rebuild(cfg render.Config) error {
	if len(m.prims) == 0 {
		return nil
	}
	start := time.Now()
	mesh, stats, err := render.Build(m.Field(), cfg)
	if err != nil {
		return fmt.Errorf("rebuilding %d primitives: %w", len(m.prims), err)
	}
	m.mesh, m.stats = mesh, stats
	if cfg.Logger != nil {
		cfg.Logger.WithFields(logrus.Fields{
			"primitives": len(m.prims),
			"vertices":   len(mesh.Vertices),
			"triangles":  len(mesh.Faces),
			"duration":   time.Since(start),
		}).Info("model rebuilt")
	}
	return nil
}

// Mesh returns the mesh of the last successful Rebuild, or nil.
func (m *Model) Mesh() *render.Mesh { return m.mesh }

// Stats returns the diagnostics of the last successful Rebuild.
func (m *Model) Stats() render.Stats { return m.stats }
