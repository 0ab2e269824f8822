package render

import (
	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// latticePoint is an integer coordinate on the finest octree lattice.
type latticePoint [3]int

func (a latticePoint) add(b latticePoint) latticePoint {
	return latticePoint{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// offset returns the position of corner i of a cube with side size.
func (a latticePoint) offset(i, size int) latticePoint {
	return a.add(latticePoint{(i & 1) * size, (i >> 1 & 1) * size, (i >> 2 & 1) * size})
}

// lattice maps lattice points to world space. The root box spans
// 1<<maxDepth lattice units along each axis.
type lattice struct {
	origin   r3.Vec
	unit     r3.Vec // world size of one lattice step per axis
	maxDepth int
}

func newLattice(root d3.Box, maxDepth int) lattice {
	return lattice{
		origin:   root.Min,
		unit:     r3.Scale(1/float64(int(1)<<maxDepth), root.Size()),
		maxDepth: maxDepth,
	}
}

func (l lattice) pos(p latticePoint) r3.Vec {
	return r3.Add(l.origin, d3.MulElem(l.unit, r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}))
}

// side returns the side length in lattice units of a node at depth.
func (l lattice) side(depth int) int { return 1 << (l.maxDepth - depth) }

func (l lattice) node(lo latticePoint, depth int) Node {
	return Node{
		Min:    l.pos(lo),
		Max:    l.pos(lo.offset(7, l.side(depth))),
		Depth:  depth,
		Child:  None,
		Vertex: None,
		lo:     lo,
	}
}

// subdivide appends the 8 children of nodes[idx] and links them to it.
func (l lattice) subdivide(nodes []Node, idx int) []Node {
	parent := nodes[idx]
	if parent.Depth >= l.maxDepth {
		panic("bug: subdividing node at maximum depth")
	}
	nodes[idx].Child = len(nodes)
	half := l.side(parent.Depth + 1)
	for i := 0; i < 8; i++ {
		nodes = append(nodes, l.node(parent.lo.offset(i, half), parent.Depth+1))
	}
	return nodes
}

// valueCache memoizes field values at lattice points. It is not safe for
// concurrent use; every goroutine owns its cache.
type valueCache struct {
	f     Field
	l     lattice
	cache map[latticePoint]float64
	evals int
}

func newValueCache(f Field, l lattice) *valueCache {
	return &valueCache{f: f, l: l, cache: make(map[latticePoint]float64)}
}

// Evaluate returns the world position of p and the field value there.
func (vc *valueCache) Evaluate(p latticePoint) (r3.Vec, float64) {
	pos := vc.l.pos(p)
	if d, ok := vc.cache[p]; ok {
		return pos, d
	}
	d := vc.f.Evaluate(pos)
	vc.evals++
	vc.cache[p] = d
	return pos, d
}

// corners samples the 8 corners of n.
func (vc *valueCache) corners(n Node) (pos [8]r3.Vec, val [8]float64) {
	side := vc.l.side(n.Depth)
	for i := range pos {
		pos[i], val[i] = vc.Evaluate(n.lo.offset(i, side))
	}
	return pos, val
}

// cubeIndex packs the inside (negative) classification of the 8 corner
// values into a byte, corner i at bit i.
func cubeIndex(val [8]float64) uint8 {
	var idx uint8
	for i, v := range val {
		if inside(v) {
			idx |= 1 << i
		}
	}
	return idx
}

// inside classifies a field value. Zero counts as outside.
func inside(v float64) bool { return v < 0 }

// crosses reports whether the surface separates two samples.
func crosses(v1, v2 float64) bool { return inside(v1) != inside(v2) }
