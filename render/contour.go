package render

import "sync"

// Face is a triangle given by three vertex indices.
type Face [3]int

// degenerate reports whether two corners share a vertex.
func (f Face) degenerate() bool {
	return f[0] == f[1] || f[1] == f[2] || f[2] == f[0]
}

// replace points every corner at vertex old to vertex new and
// reports whether any corner changed.
func (f *Face) replace(old, new int) bool {
	found := false
	for i := range f {
		if f[i] == old {
			f[i] = new
			found = true
		}
	}
	return found
}

// Contour walks the octree and connects the vertices of the four leaves
// around every sign changing edge with a quad split into two triangles.
// It creates no vertices. f must be the field the octree was built from.
// When workers is above 1 the 8 subtrees under the root are walked
// concurrently; the resulting face order does not depend on scheduling.
func (o *Octree) Contour(f Field, workers int) []Face {
	if len(o.Nodes) == 0 {
		return nil
	}
	root := o.Nodes[0]
	if workers <= 1 || root.IsLeaf() {
		c := o.newContourer(f)
		c.cellProc(0)
		return c.faces
	}
	var (
		wg    sync.WaitGroup
		parts [8][]Face
		sem   = make(chan struct{}, workers)
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			c := o.newContourer(f)
			c.cellProc(root.Child + i)
			parts[i] = c.faces
		}(i)
	}
	wg.Wait()
	c := o.newContourer(f)
	c.cellInternal(0)
	var faces []Face
	for _, p := range parts {
		faces = append(faces, p...)
	}
	return append(faces, c.faces...)
}

type contourer struct {
	o      *Octree
	values *valueCache
	faces  []Face
}

func (o *Octree) newContourer(f Field) *contourer {
	return &contourer{o: o, values: newValueCache(f, o.lat)}
}

// child returns the i'th child of node n. A leaf stands in for its children
// so neighbours of different sizes can be matched.
func (c *contourer) child(n, i int) int {
	node := &c.o.Nodes[n]
	if node.IsLeaf() {
		return n
	}
	return node.Child + i
}

func (c *contourer) cellProc(n int) {
	node := c.o.Nodes[n]
	if node.IsLeaf() {
		return
	}
	for i := 0; i < 8; i++ {
		c.cellProc(node.Child + i)
	}
	c.cellInternal(n)
}

// cellInternal processes the faces and edges shared by the children of n.
func (c *contourer) cellInternal(n int) {
	first := c.o.Nodes[n].Child
	for _, cf := range cellFaces {
		c.faceProc(first+int(cf.a), first+int(cf.b), int(cf.axis))
	}
	for _, ce := range cellEdges {
		c.edgeProc([4]int{
			first + int(ce.q[0]), first + int(ce.q[1]),
			first + int(ce.q[2]), first + int(ce.q[3]),
		}, int(ce.axis))
	}
}

// faceProc processes the face shared by node a and node b, a being the
// lower of the two along axis.
func (c *contourer) faceProc(a, b, axis int) {
	if c.o.Nodes[a].IsLeaf() && c.o.Nodes[b].IsLeaf() {
		return
	}
	for _, pair := range faceFaces[axis] {
		c.faceProc(c.child(a, int(pair[0])), c.child(b, int(pair[1])), axis)
	}
	sides := [2]int{a, b}
	for _, fe := range faceEdges[axis] {
		var q [4]int
		for i := range q {
			q[i] = c.child(sides[fe.side[i]], int(fe.child[i]))
		}
		c.edgeProc(q, int(fe.axis))
	}
}

// edgeProc processes the edge shared by the four nodes in q.
func (c *contourer) edgeProc(q [4]int, axis int) {
	nodes := &c.o.Nodes
	allLeaves := true
	for _, n := range q {
		allLeaves = allLeaves && (*nodes)[n].IsLeaf()
	}
	if !allLeaves {
		for _, half := range edgeChildren[axis] {
			var sub [4]int
			for i := range sub {
				sub[i] = c.child(q[i], int(half[i]))
			}
			c.edgeProc(sub, axis)
		}
		return
	}
	var vertex [4]int
	for i, n := range q {
		vertex[i] = (*nodes)[n].Vertex
		if vertex[i] == None {
			return
		}
	}
	// Only the edge of the deepest node is tested, not each leaf's edge in
	// turn: it is the minimal edge shared by all four leaves. Values are
	// classified as in cubeIndex, so a zero sample counts as outside.
	deepest := 0
	for i, n := range q {
		if (*nodes)[n].Depth > (*nodes)[q[deepest]].Depth {
			deepest = i
		}
	}
	node := (*nodes)[q[deepest]]
	side := c.o.lat.side(node.Depth)
	_, v1 := c.values.Evaluate(node.lo.offset(int(edgeChildren[axis][0][deepest]), side))
	_, v2 := c.values.Evaluate(node.lo.offset(int(edgeChildren[axis][1][deepest]), side))
	if !crosses(v1, v2) {
		return
	}
	in1 := inside(v1)
	// Quads around a Y edge are ordered with the opposite handedness.
	if in1 != (axis == yAxis) {
		c.emit(Face{vertex[0], vertex[1], vertex[2]}, Face{vertex[2], vertex[1], vertex[3]})
	} else {
		c.emit(Face{vertex[2], vertex[1], vertex[0]}, Face{vertex[3], vertex[1], vertex[2]})
	}
}

// emit appends the non degenerate faces. Degenerate faces appear when one
// large leaf occupies two places of a quad.
func (c *contourer) emit(faces ...Face) {
	for _, f := range faces {
		if !f.degenerate() {
			c.faces = append(c.faces, f)
		}
	}
}
