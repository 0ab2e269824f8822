package main

import (
	"math"

	"github.com/soypat/hull"
	"gonum.org/v1/gonum/spatial/r3"
)

const demoComposite = "composite"

func demoNames() []string {
	names := []string{demoComposite}
	for _, s := range hull.Catalog() {
		names = append(names, string(s))
	}
	return names
}

// demoModel returns a model holding a single catalog shape, or for
// "composite" a cylinder through a box with an ellipsoid on top.
func demoModel(name string) (*hull.Model, error) {
	m := &hull.Model{}
	if name != demoComposite {
		p, err := hull.NewShape(hull.Shape(name), hull.Placement{})
		if err != nil {
			return nil, err
		}
		m.Attach(p)
		return m, nil
	}
	box, err := hull.NewBox(1, hull.Placement{})
	if err != nil {
		return nil, err
	}
	cyl, err := hull.NewCylinder(0.5, 1.6, hull.Placement{
		Rotation: r3.NewRotation(math.Pi/2, r3.Vec{X: 1}),
	})
	if err != nil {
		return nil, err
	}
	ell, err := hull.NewEllipsoid(hull.Placement{
		Position: r3.Vec{Y: 1.2},
		Scale:    r3.Vec{X: 0.7, Y: 0.5, Z: 0.7},
	})
	if err != nil {
		return nil, err
	}
	m.Attach(box)
	m.Attach(cyl)
	m.Attach(ell)
	return m, nil
}
