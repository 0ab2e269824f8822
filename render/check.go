package render

import (
	"math"

	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mismatch is the outcome of comparing a mesh against its field.
type Mismatch struct {
	// Sampled counts grid points farther than the margin from the mesh.
	Sampled int
	// Disagree counts sampled points the mesh places on the other side of
	// the surface from the field.
	Disagree int
	// MaxField is the largest absolute field value at a mesh vertex.
	MaxField float64
}

// Fraction returns the fraction of sampled points in disagreement.
func (m Mismatch) Fraction() float64 {
	if m.Sampled == 0 {
		return 0
	}
	return float64(m.Disagree) / float64(m.Sampled)
}

// CheckMesh samples f on an n×n×n grid spanning its root bounds and
// compares the sign of f with the side of the mesh each sample lies on.
// Samples within margin of the mesh are skipped.
func CheckMesh(f BoundedField, m *Mesh, n int, margin float64) (Mismatch, error) {
	var res Mismatch
	sdf, err := NewMeshSDF(m.Triangles())
	if err != nil {
		return res, err
	}
	for _, v := range m.Vertices {
		res.MaxField = math.Max(res.MaxField, math.Abs(f.Evaluate(v)))
	}
	if n < 2 {
		return res, nil
	}
	bb := d3.Box(RootBounds(f.Bounds(), DefaultBoundsPadding))
	step := r3.Scale(1/float64(n-1), bb.Size())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				p := r3.Add(bb.Min, d3.MulElem(step, r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)}))
				dm := sdf.Evaluate(p)
				if math.Abs(dm) <= margin {
					continue
				}
				res.Sampled++
				if (dm < 0) != (f.Evaluate(p) < 0) {
					res.Disagree++
				}
			}
		}
	}
	return res, nil
}
