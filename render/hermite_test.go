package render

import (
	"math"
	"testing"

	"github.com/soypat/hull/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestInterpolateIntersection(t *testing.T) {
	p1, p2 := r3.Vec{X: -1, Y: 2}, r3.Vec{X: 3, Y: 2}
	for _, test := range []struct {
		name   string
		v1, v2 float64
		want   r3.Vec
	}{
		{name: "snap first", v1: 0.0001, v2: 5, want: p1},
		{name: "snap second", v1: -5, v2: 0.0005, want: p2},
		{name: "flat", v1: 2, v2: 2.0001, want: p1},
		{name: "midpoint", v1: -1, v2: 1, want: r3.Vec{X: 1, Y: 2}},
		{name: "quarter", v1: -1, v2: 3, want: r3.Vec{X: 0, Y: 2}},
	} {
		got := InterpolateIntersection(p1, p2, test.v1, test.v2, DefaultSnapEpsilon)
		assert.True(t, d3.EqualWithin(got, test.want, 1e-12), "%s: got %v want %v", test.name, got, test.want)
		// Without refinement the root finder is the interpolation.
		exact := ExactIntersection(sphereField{r: 1}, p1, p2, test.v1, test.v2, 0, DefaultSnapEpsilon)
		assert.Equal(t, got, exact, test.name)
	}
}

func TestInterpolateIntersectionSamePoint(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	got := InterpolateIntersection(p, p, -2, 7, DefaultSnapEpsilon)
	assert.True(t, d3.EqualWithin(got, p, 1e-12))
}

func TestExactIntersectionPlane(t *testing.T) {
	f := planeField{n: r3.Vec{X: 1}, d: 0.3}
	p1, p2 := r3.Vec{}, r3.Vec{X: 1}
	got := ExactIntersection(f, p1, p2, f.Evaluate(p1), f.Evaluate(p2), DefaultRootDepth, DefaultSnapEpsilon)
	assert.InDelta(t, 0.3, got.X, 1e-12)
}

func TestExactIntersectionRefines(t *testing.T) {
	f := sphereField{r: 1}
	p1, p2 := r3.Vec{X: 0.2, Y: 0.1}, r3.Vec{X: 1.7, Y: 0.1}
	v1, v2 := f.Evaluate(p1), f.Evaluate(p2)
	coarse := ExactIntersection(f, p1, p2, v1, v2, 0, DefaultSnapEpsilon)
	assert.Equal(t, InterpolateIntersection(p1, p2, v1, v2, DefaultSnapEpsilon), coarse)
	fine := ExactIntersection(f, p1, p2, v1, v2, DefaultRootDepth, DefaultSnapEpsilon)
	assert.Less(t, math.Abs(f.Evaluate(fine)), math.Abs(f.Evaluate(coarse)))
	assert.Less(t, math.Abs(f.Evaluate(fine)), 1e-3)
	assert.Zero(t, fine.Z)
	assert.InDelta(t, 0.1, fine.Y, 1e-12)
}

func TestSolveVertexPlane(t *testing.T) {
	n := r3.Vec{Z: 1}
	points := []r3.Vec{{X: 0, Z: 2}, {X: 1, Z: 2}, {Y: 1, Z: 2}, {X: 1, Y: 1, Z: 2}}
	normals := []r3.Vec{n, n, n, n}
	v, iters := SolveVertex(points, normals, DefaultConfig().Solver)
	assert.Equal(t, 1, iters)
	assert.True(t, d3.EqualWithin(v, r3.Vec{X: 0.5, Y: 0.5, Z: 2}, 1e-12))
}

func TestSolveVertexCorner(t *testing.T) {
	corner := r3.Vec{X: 1, Y: 2, Z: 3}
	points := []r3.Vec{{X: 1, Y: 5, Z: 5}, {X: 5, Y: 2, Z: 5}, {X: 5, Y: 5, Z: 3}}
	normals := []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	cfg := DefaultConfig().Solver
	v, iters := SolveVertex(points, normals, cfg)
	assert.Less(t, r3.Norm(r3.Sub(v, corner)), 0.05)
	assert.Greater(t, iters, 1)
	assert.LessOrEqual(t, iters, cfg.MaxIterations)

	cfg.Epsilon = 0
	_, iters = SolveVertex(points, normals, cfg)
	assert.Equal(t, cfg.MaxIterations, iters)
}

func TestSolveVertexMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		SolveVertex([]r3.Vec{{}}, nil, DefaultConfig().Solver)
	})
	require.Panics(t, func() {
		SolveVertex(nil, nil, DefaultConfig().Solver)
	})
}
