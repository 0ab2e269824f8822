package render

import (
	"errors"
	"math"

	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ BoundedField     = (*MeshSDF)(nil)
	_ kdtree.Interface = kdTriangles{}
	_ kdtree.Bounder   = kdTriangles{}
)

// MeshSDF answers distance queries against a triangle mesh. Triangles are
// indexed by centroid in a kd-tree; a query gathers every triangle whose
// centroid lies close enough to possibly be nearer than the best candidate,
// so distances are exact.
type MeshSDF struct {
	tree kdtree.Tree
	bb   r3.Box
	// largest centroid to vertex distance over all triangles.
	reach float64
}

// NewMeshSDF indexes model. Degenerate triangles are kept for distance
// but contribute no orientation.
func NewMeshSDF(model []Triangle3) (*MeshSDF, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	kd := make(kdTriangles, len(model))
	bb := d3.Empty()
	var reach float64
	for i, t := range model {
		c := t.Centroid()
		kd[i] = kdTriangle{t: t, c: c}
		for _, v := range t.V {
			bb = bb.Include(v)
			reach = math.Max(reach, r3.Norm(r3.Sub(v, c)))
		}
	}
	return &MeshSDF{
		tree:  *kdtree.New(kd, true),
		bb:    r3.Box(bb),
		reach: reach,
	}, nil
}

// Bounds returns the bounding box of the mesh.
func (s *MeshSDF) Bounds() r3.Box { return s.bb }

// Evaluate returns the distance from p to the mesh, negative when p lies
// behind the nearest triangle as given by its winding.
func (s *MeshSDF) Evaluate(p r3.Vec) float64 {
	t, q := s.Nearest(p)
	d := r3.Norm(r3.Sub(p, q))
	if r3.Dot(r3.Sub(p, q), t.Normal()) < 0 {
		return -d
	}
	return d
}

// Normal returns the normal of the triangle nearest to p.
func (s *MeshSDF) Normal(p r3.Vec) r3.Vec {
	t, _ := s.Nearest(p)
	return t.Normal()
}

// Nearest returns the triangle nearest to p and the closest point on it.
func (s *MeshSDF) Nearest(p r3.Vec) (Triangle3, r3.Vec) {
	query := kdTriangle{c: p}
	got, _ := s.tree.Nearest(query)
	best := got.(kdTriangle)
	bestPoint := closestOnTriangle(p, best.t)
	bestDist := r3.Norm(r3.Sub(p, bestPoint))

	radius := bestDist + s.reach
	keep := kdtree.NewDistKeeper(radius * radius)
	s.tree.NearestSet(keep, query)
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		cand := cd.Comparable.(kdTriangle)
		q := closestOnTriangle(p, cand.t)
		if d := r3.Norm(r3.Sub(p, q)); d < bestDist {
			best, bestPoint, bestDist = cand, q, d
		}
	}
	return best.t, bestPoint
}

// closestOnTriangle returns the point of t closest to p by Voronoi region
// classification.
func closestOnTriangle(p r3.Vec, t Triangle3) r3.Vec {
	a, b, c := t.V[0], t.V[1], t.V[2]
	ab, ac, ap := r3.Sub(b, a), r3.Sub(c, a), r3.Sub(p, a)
	d1, d2 := r3.Dot(ab, ap), r3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}
	bp := r3.Sub(p, b)
	d3b, d4 := r3.Dot(ab, bp), r3.Dot(ac, bp)
	if d3b >= 0 && d4 <= d3b {
		return b
	}
	vc := d1*d4 - d3b*d2
	if vc <= 0 && d1 >= 0 && d3b <= 0 {
		return r3.Add(a, r3.Scale(d1/(d1-d3b), ab))
	}
	cp := r3.Sub(p, c)
	d5, d6 := r3.Dot(ab, cp), r3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return r3.Add(a, r3.Scale(d2/(d2-d6), ac))
	}
	va := d3b*d6 - d5*d4
	if va <= 0 && d4-d3b >= 0 && d5-d6 >= 0 {
		w := (d4 - d3b) / ((d4 - d3b) + (d5 - d6))
		return r3.Add(b, r3.Scale(w, r3.Sub(c, b)))
	}
	denom := va + vb + vc
	if denom == 0 {
		// Degenerate triangle with collinear vertices.
		return a
	}
	v, w := vb/denom, vc/denom
	return r3.Add(a, r3.Add(r3.Scale(v, ab), r3.Scale(w, ac)))
}

type kdTriangles []kdTriangle

// kdTriangle is a triangle keyed by its centroid.
type kdTriangle struct {
	t Triangle3
	c r3.Vec
}

func (k kdTriangles) Index(i int) kdtree.Comparable { return k[i] }

func (k kdTriangles) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdTriangles) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: d, triangles: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (k kdTriangles) Slice(start, end int) kdtree.Interface { return k[start:end] }

// Bounds returns the bounding box of the centroids.
func (k kdTriangles) Bounds() *kdtree.Bounding {
	bb := d3.Empty()
	for _, tri := range k {
		bb = bb.Include(tri.c)
	}
	return &kdtree.Bounding{
		Min: kdTriangle{c: bb.Min},
		Max: kdTriangle{c: bb.Max},
	}
}

// Compare returns the signed distance of a's centroid from the plane
// passing through b's centroid perpendicular to dimension d.
func (a kdTriangle) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return d3.Component(a.c, int(d)) - d3.Component(b.(kdTriangle).c, int(d))
}

func (a kdTriangle) Dims() int { return 3 }

// Distance returns the squared distance between centroids.
func (a kdTriangle) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.c, b.(kdTriangle).c))
}

type kdPlane struct {
	dim       kdtree.Dim
	triangles kdTriangles
}

func (p kdPlane) Less(i, j int) bool {
	return p.triangles[i].Compare(p.triangles[j], p.dim) < 0
}

func (p kdPlane) Swap(i, j int) {
	p.triangles[i], p.triangles[j] = p.triangles[j], p.triangles[i]
}

func (p kdPlane) Len() int { return len(p.triangles) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.triangles = p.triangles[start:end]
	return p
}
