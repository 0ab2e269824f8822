package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh with one normal per vertex.
type Mesh struct {
	Vertices []r3.Vec
	// Normals is empty or aligned with Vertices.
	Normals []r3.Vec
	Faces   []Face
}

// Buffers is a Mesh flattened into float32/uint32 arrays as consumed by
// GPU upload code and JSON clients.
type Buffers struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices in the buffers.
func (b Buffers) VertexCount() int { return len(b.Vertices) / 3 }

// TriangleCount returns the number of triangles in the buffers.
func (b Buffers) TriangleCount() int { return len(b.Indices) / 3 }

// Buffers returns the flattened mesh.
func (m *Mesh) Buffers() Buffers {
	b := Buffers{
		Vertices: make([]float32, 0, 3*len(m.Vertices)),
		Normals:  make([]float32, 0, 3*len(m.Normals)),
		Indices:  make([]uint32, 0, 3*len(m.Faces)),
	}
	for _, v := range m.Vertices {
		b.Vertices = append(b.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
	}
	for _, n := range m.Normals {
		b.Normals = append(b.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	for _, f := range m.Faces {
		b.Indices = append(b.Indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return b
}

// Triangle returns the i'th face as a triangle.
func (m *Mesh) Triangle(i int) Triangle3 {
	f := m.Faces[i]
	return Triangle3{V: [3]r3.Vec{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}}
}

// Triangles returns all faces as triangles.
func (m *Mesh) Triangles() []Triangle3 {
	t := make([]Triangle3, len(m.Faces))
	for i := range t {
		t[i] = m.Triangle(i)
	}
	return t
}

// Compact removes vertices no face references, along with their normals,
// keeping the relative order of the remaining vertices. It returns the
// number of vertices removed.
func (m *Mesh) Compact() int {
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for _, v := range f {
			used[v] = true
		}
	}
	hasNormals := len(m.Normals) == len(m.Vertices)
	remap := make([]int, len(m.Vertices))
	next := 0
	for i := range m.Vertices {
		if !used[i] {
			remap[i] = None
			continue
		}
		remap[i] = next
		m.Vertices[next] = m.Vertices[i]
		if hasNormals {
			m.Normals[next] = m.Normals[i]
		}
		next++
	}
	removed := len(m.Vertices) - next
	m.Vertices = m.Vertices[:next]
	if hasNormals {
		m.Normals = m.Normals[:next]
	}
	for i := range m.Faces {
		for j, v := range m.Faces[i] {
			m.Faces[i][j] = remap[v]
		}
	}
	return removed
}

// EdgeUses counts the faces using each undirected edge.
// Keys hold the smaller vertex index first.
func (m *Mesh) EdgeUses() map[[2]int]int {
	uses := make(map[[2]int]int, 3*len(m.Faces)/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			uses[[2]int{a, b}]++
		}
	}
	return uses
}

// IsClosed reports whether every edge of a non empty mesh is shared by
// exactly two faces. Vertices are compared by index, so the duplicates made
// by GenerateNormals open the mesh along sharp creases.
func (m *Mesh) IsClosed() bool {
	if len(m.Faces) == 0 {
		return false
	}
	for _, n := range m.EdgeUses() {
		if n != 2 {
			return false
		}
	}
	return true
}

// Volume returns the signed volume enclosed by the mesh, positive
// when faces wind counter-clockwise seen from outside.
func (m *Mesh) Volume() float64 {
	var vol float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	return vol / 6
}

// Reader returns a Renderer streaming the faces of the mesh.
func (m *Mesh) Reader() Renderer {
	return &meshReader{m: m}
}

type meshReader struct {
	m    *Mesh
	next int
}

func (r *meshReader) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	for n < len(dst) && r.next < len(r.m.Faces) {
		dst[n] = r.m.Triangle(r.next)
		n++
		r.next++
	}
	if r.next == len(r.m.Faces) {
		err = io.EOF
	}
	return n, err
}
