package hull

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// scene is the JSON document read by ReadScene.
type scene struct {
	Primitives []scenePrimitive `json:"primitives"`
}

// scenePrimitive describes one primitive. Zero dimensions take the
// catalog defaults and a zero scale component is taken as 1.
type scenePrimitive struct {
	Shape      Shape      `json:"shape"`
	HalfExtent float64    `json:"halfExtent"`
	Radius     float64    `json:"radius"`
	HalfHeight float64    `json:"halfHeight"`
	Position   [3]float64 `json:"position"`
	Scale      [3]float64 `json:"scale"`
	// Rotation of Degrees about Axis.
	Axis    [3]float64 `json:"axis"`
	Degrees float64    `json:"degrees"`
}

// ReadScene decodes a JSON scene into a Model. The document has the form
//
//	{"primitives": [{"shape": "box", "halfExtent": 1, "position": [0, 0, 0]}]}
//
// Unknown fields and shapes are errors.
func ReadScene(r io.Reader) (*Model, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var sc scene
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	m := &Model{}
	for i, sp := range sc.Primitives {
		p, err := sp.primitive()
		if err != nil {
			return nil, fmt.Errorf("scene primitive %d: %w", i, err)
		}
		m.Attach(p)
	}
	return m, nil
}

func (sp scenePrimitive) primitive() (Primitive, error) {
	pl, err := sp.placement()
	if err != nil {
		return nil, err
	}
	switch sp.Shape {
	case ShapeBox:
		return NewBox(orDefault(sp.HalfExtent, DefaultBoxHalfExtent), pl)
	case ShapeEllipsoid:
		return NewEllipsoid(pl)
	case ShapeCylinder:
		return NewCylinder(orDefault(sp.Radius, DefaultCylinderRadius), orDefault(sp.HalfHeight, DefaultCylinderHalfHeight), pl)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownShape, sp.Shape)
}

func (sp scenePrimitive) placement() (Placement, error) {
	pl := Placement{
		Position: vec(sp.Position),
		Scale:    vec(sp.Scale),
	}
	if sp.Degrees != 0 {
		axis := vec(sp.Axis)
		if r3.Norm(axis) == 0 {
			return pl, errors.New("rotation with zero axis")
		}
		pl.Rotation = r3.NewRotation(sp.Degrees*math.Pi/180, axis)
	}
	return pl, nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func vec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }
