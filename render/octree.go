package render

import (
	"errors"
	"math"
	"sync"

	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// None marks a missing child or vertex index.
const None = -1

// Node is an octree cell. A node is either a leaf or has exactly 8
// children stored contiguously starting at Child, ordered like cell corners.
type Node struct {
	Min, Max r3.Vec
	Depth    int
	// Child is the index of the first child or None for leaves.
	Child int
	// Vertex indexes Octree.Vertices or is None. Only leaves own vertices.
	Vertex int
	lo     latticePoint
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return n.Child == None }

// Box returns the bounds of the node.
func (n Node) Box() r3.Box { return r3.Box{Min: n.Min, Max: n.Max} }

// Octree is an adaptive octree stored in a flat arena. Node 0 is the root.
type Octree struct {
	Nodes    []Node
	Vertices []r3.Vec

	lat   lattice
	stats octreeStats
}

type octreeStats struct {
	rejected   int
	dropped    int
	evals      int
	iterations []float64
}

// ErrEmptyField is returned when there is no volume to mesh.
var ErrEmptyField = errors.New("field has empty bounds")

// BuildOctree samples f inside root and places one vertex in every leaf the
// surface crosses. Nodes are split unconditionally down to cfg.MinDepth.
// Each node at MinDepth is then refined independently on a pool of
// cfg.Workers goroutines and the results are merged in node order, so the
// output does not depend on scheduling.
func BuildOctree(f Field, root r3.Box, cfg Config) (*Octree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rb := d3.Box(root)
	if rb.IsEmpty() || d3.IsNaN(rb.Min) || d3.IsNaN(rb.Max) {
		return nil, ErrEmptyField
	}
	o := &Octree{lat: newLattice(rb, cfg.MaxDepth)}
	o.Nodes = append(o.Nodes, o.lat.node(latticePoint{}, 0))
	frontier := []int{0}
	for depth := 0; depth < cfg.MinDepth; depth++ {
		next := make([]int, 0, 8*len(frontier))
		for _, idx := range frontier {
			o.Nodes = o.lat.subdivide(o.Nodes, idx)
			first := o.Nodes[idx].Child
			for i := 0; i < 8; i++ {
				next = append(next, first+i)
			}
		}
		frontier = next
	}

	branches := make([]*branch, len(frontier))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := cfg.workers()
	if workers > len(frontier) {
		workers = len(frontier)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				b := newBranch(f, o.lat, &cfg, o.Nodes[frontier[j]])
				b.refine(0)
				branches[j] = b
			}
		}()
	}
	for j := range frontier {
		jobs <- j
	}
	close(jobs)
	wg.Wait()

	for j, b := range branches {
		o.merge(frontier[j], b)
	}
	return o, nil
}

// merge grafts the local arena of b onto the node at slot.
func (o *Octree) merge(slot int, b *branch) {
	nodeOffset := len(o.Nodes) - 1 // local node 0 replaces slot.
	vertexOffset := len(o.Vertices)
	for i, n := range b.nodes {
		if n.Child != None {
			n.Child += nodeOffset
		}
		if n.Vertex != None {
			n.Vertex += vertexOffset
		}
		if i == 0 {
			o.Nodes[slot] = n
		} else {
			o.Nodes = append(o.Nodes, n)
		}
	}
	o.Vertices = append(o.Vertices, b.vertices...)
	o.stats.rejected += b.rejected
	o.stats.dropped += b.dropped
	o.stats.evals += b.values.evals
	o.stats.iterations = append(o.stats.iterations, b.iterations...)
}

// Leaves returns the number of leaf nodes.
func (o *Octree) Leaves() int {
	n := 0
	for _, node := range o.Nodes {
		if node.IsLeaf() {
			n++
		}
	}
	return n
}

// branch refines a subtree into its own arena and vertex buffer.
type branch struct {
	f        Field
	lat      lattice
	cfg      *Config
	nodes    []Node
	vertices []r3.Vec
	values   *valueCache

	points, normals []r3.Vec
	iterations      []float64
	rejected        int
	dropped         int
}

func newBranch(f Field, lat lattice, cfg *Config, root Node) *branch {
	return &branch{
		f:      f,
		lat:    lat,
		cfg:    cfg,
		nodes:  []Node{root},
		values: newValueCache(f, lat),
	}
}

// refine decides whether node idx is an empty leaf, a leaf with a vertex
// or an internal node, recursing into children in the latter case.
func (b *branch) refine(idx int) {
	n := b.nodes[idx]
	pos, val := b.values.corners(n)
	edges := edgeTable[cubeIndex(val)]
	if edges == 0 {
		if b.cfg.ProbeEmptyCells && n.Depth < b.lat.maxDepth && b.probe(n, val[0] < 0) {
			b.split(idx)
		}
		return
	}
	b.points, b.normals = b.points[:0], b.normals[:0]
	for e := 0; e < 12; e++ {
		if edges&(1<<e) == 0 {
			continue
		}
		c0, c1 := edgeCorners[e][0], edgeCorners[e][1]
		p := ExactIntersection(b.f, pos[c0], pos[c1], val[c0], val[c1], b.cfg.RootDepth, b.cfg.SnapEpsilon)
		b.points = append(b.points, p)
		b.normals = append(b.normals, b.f.Normal(p))
	}
	v, iters := SolveVertex(b.points, b.normals, b.cfg.Solver)
	b.iterations = append(b.iterations, float64(iters))

	atMax := n.Depth == b.lat.maxDepth
	if !d3.IsNaN(v) && (atMax || b.accept(n, v)) {
		b.nodes[idx].Vertex = len(b.vertices)
		b.vertices = append(b.vertices, v)
		return
	}
	if atMax {
		b.dropped++
		return
	}
	b.rejected++
	b.split(idx)
}

// accept reports whether v lies in the node and close enough to the surface.
func (b *branch) accept(n Node, v r3.Vec) bool {
	box := d3.Box(n.Box())
	tol := box.Diagonal() * b.cfg.AcceptanceRatio
	return box.Contains(v) && math.Abs(b.f.Evaluate(v)) < tol
}

func (b *branch) split(idx int) {
	b.nodes = b.lat.subdivide(b.nodes, idx)
	first := b.nodes[idx].Child
	for i := 0; i < 8; i++ {
		b.refine(first + i)
	}
}

// probe samples every finest lattice point of n and reports whether any
// is classified differently from the corners.
func (b *branch) probe(n Node, inside bool) bool {
	side := b.lat.side(n.Depth)
	for i := 0; i <= side; i++ {
		for j := 0; j <= side; j++ {
			for k := 0; k <= side; k++ {
				_, d := b.values.Evaluate(n.lo.add(latticePoint{i, j, k}))
				if (d < 0) != inside {
					return true
				}
			}
		}
	}
	return false
}
