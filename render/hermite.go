package render

import (
	"math"

	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// InterpolateIntersection estimates where the field crosses zero between
// p1 and p2 given the field values v1 and v2 at those points. Endpoints
// with values within snap of zero are returned as is.
func InterpolateIntersection(p1, p2 r3.Vec, v1, v2, snap float64) r3.Vec {
	a1, a2 := math.Abs(v1), math.Abs(v2)
	switch {
	case a1 < snap:
		return p1
	case a2 < snap:
		return p2
	case math.Abs(v2-v1) < snap:
		return p1
	}
	// Each endpoint is weighted by the magnitude at the opposite end.
	return r3.Scale(1/(a1+a2), r3.Add(r3.Scale(a2, p1), r3.Scale(a1, p2)))
}

// ExactIntersection refines InterpolateIntersection depth times. Each step
// samples f at the interpolated point and keeps the half segment across
// which the sign still changes.
func ExactIntersection(f Field, p1, p2 r3.Vec, v1, v2 float64, depth int, snap float64) r3.Vec {
	for {
		p := InterpolateIntersection(p1, p2, v1, v2, snap)
		if depth <= 0 {
			return p
		}
		depth--
		v := f.Evaluate(p)
		if (v < 0 && v1 < 0) || (v > 0 && v1 > 0) {
			p1, v1 = p, v
		} else {
			p2, v2 = p, v
		}
	}
}

// SolveVertex finds the point minimizing the squared distances to the
// tangent planes given by points and their normals. It runs a damped
// gradient descent from the centroid of points and returns the position
// reached and the number of force evaluations performed.
// points and normals must have the same non-zero length.
func SolveVertex(points, normals []r3.Vec, cfg SolverConfig) (r3.Vec, int) {
	if len(points) != len(normals) || len(points) == 0 {
		panic("bug: SolveVertex needs matching non-empty points and normals")
	}
	pos := d3.Set(points).Centroid()
	inv := 1 / float64(len(points))
	it := 0
	for it < cfg.MaxIterations {
		var force r3.Vec
		for i, n := range normals {
			d := r3.Dot(n, r3.Sub(pos, points[i]))
			force = r3.Sub(force, r3.Scale(d, n))
		}
		damping := 1 - float64(it)/float64(cfg.MaxIterations)
		force = r3.Scale(cfg.Gain*damping*inv, force)
		pos = r3.Add(pos, force)
		it++
		if r3.Norm2(force) < cfg.Epsilon {
			break
		}
	}
	return pos, it
}
