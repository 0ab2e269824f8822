package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Default tunables of the meshing pipeline.
const (
	DefaultMinDepth = 3
	DefaultMaxDepth = 6
	// DefaultSharpAngle is 10 degrees in radians.
	DefaultSharpAngle = 10 * math.Pi / 180
	// DefaultAcceptanceRatio times the cell diagonal bounds the field value
	// at an accepted cell vertex.
	DefaultAcceptanceRatio = 1. / 1000
	DefaultRootDepth       = 5
	DefaultSnapEpsilon     = 1e-3
	DefaultBoundsPadding   = 1.01

	DefaultSolverIterations = 100
	DefaultSolverGain       = 0.75
	// DefaultSolverEpsilon is compared against the squared force and does
	// not scale with the cell, unlike DefaultAcceptanceRatio.
	DefaultSolverEpsilon = 1e-5

	// maxLatticeDepth keeps lattice coordinates well inside int range.
	maxLatticeDepth = 20
)

// SolverConfig controls the damped gradient descent placing cell vertices.
type SolverConfig struct {
	MaxIterations int
	Gain          float64
	// Epsilon stops the descent once the squared force falls below it.
	Epsilon float64
}

// Config holds the tunables of the meshing pipeline.
// Use DefaultConfig to obtain a ready to use value.
type Config struct {
	// Octree nodes are subdivided unconditionally down to MinDepth.
	MinDepth int
	// Cells at MaxDepth accept their vertex candidate unconditionally.
	MaxDepth int
	// SharpAngle in radians. Triangles around a vertex whose normals
	// differ by more than SharpAngle get their own copy of the vertex.
	SharpAngle float64
	Solver     SolverConfig
	// AcceptanceRatio is the fraction of the cell diagonal the field value
	// at a candidate vertex may reach for the vertex to be accepted.
	AcceptanceRatio float64
	// RootDepth is the refinement budget of the edge intersection search.
	RootDepth int
	// SnapEpsilon snaps edge intersections to endpoints with
	// near zero field values.
	SnapEpsilon float64
	// BoundsPadding scales the root box about its center.
	BoundsPadding float64
	// Workers bounds the goroutines used during construction and contouring.
	Workers int
	// CompactVertices removes vertices no triangle references.
	CompactVertices bool
	// ProbeEmptyCells samples cells without corner crossings on the finest
	// lattice and subdivides them when a sign change is found inside.
	ProbeEmptyCells bool
	// Logger receives per stage debug entries. nil discards them.
	Logger logrus.FieldLogger
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MinDepth:   DefaultMinDepth,
		MaxDepth:   DefaultMaxDepth,
		SharpAngle: DefaultSharpAngle,
		Solver: SolverConfig{
			MaxIterations: DefaultSolverIterations,
			Gain:          DefaultSolverGain,
			Epsilon:       DefaultSolverEpsilon,
		},
		AcceptanceRatio: DefaultAcceptanceRatio,
		RootDepth:       DefaultRootDepth,
		SnapEpsilon:     DefaultSnapEpsilon,
		BoundsPadding:   DefaultBoundsPadding,
		Workers:         runtime.GOMAXPROCS(0),
	}
}

// Validate returns an error describing the first invalid setting found.
func (c Config) Validate() error {
	switch {
	case c.MinDepth < 0:
		return fmt.Errorf("negative minimum depth %d", c.MinDepth)
	case c.MaxDepth < c.MinDepth:
		return fmt.Errorf("maximum depth %d less than minimum depth %d", c.MaxDepth, c.MinDepth)
	case c.MaxDepth > maxLatticeDepth:
		return fmt.Errorf("maximum depth %d exceeds limit %d", c.MaxDepth, maxLatticeDepth)
	case !(c.SharpAngle >= 0):
		return fmt.Errorf("invalid sharp angle %g", c.SharpAngle)
	case !(c.AcceptanceRatio >= 0):
		return fmt.Errorf("invalid acceptance ratio %g", c.AcceptanceRatio)
	case c.RootDepth < 0:
		return fmt.Errorf("negative root finder depth %d", c.RootDepth)
	case !(c.SnapEpsilon >= 0):
		return fmt.Errorf("invalid snap epsilon %g", c.SnapEpsilon)
	case !(c.BoundsPadding >= 1):
		return fmt.Errorf("bounds padding must be at least 1, got %g", c.BoundsPadding)
	}
	return c.Solver.validate()
}

func (s SolverConfig) validate() error {
	if s.MaxIterations < 1 {
		return errors.New("solver needs at least one iteration")
	}
	if !(s.Gain > 0) {
		return fmt.Errorf("invalid solver gain %g", s.Gain)
	}
	if !(s.Epsilon >= 0) {
		return fmt.Errorf("invalid solver epsilon %g", s.Epsilon)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
