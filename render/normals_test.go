package render

import (
	"math"
	"testing"

	"github.com/soypat/hull/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// creaseField is flat with normal +Z for x <= 0 and has normal right
// for x > 0, making a crease of the given angle along the Y axis.
type creaseField struct{ right r3.Vec }

func (f creaseField) Evaluate(p r3.Vec) float64 { return p.Z }
func (f creaseField) Normal(p r3.Vec) r3.Vec {
	if p.X <= 0 {
		return r3.Vec{Z: 1}
	}
	return f.right
}

func creaseMesh() ([]r3.Vec, []Face) {
	vertices := []r3.Vec{
		{},            // 0 on the crease
		{X: -1},       // 1
		{X: -1, Y: 1}, // 2
		{X: 1},        // 3
		{X: 1, Y: 1},  // 4
		{X: 1, Y: 2},  // 5
	}
	faces := []Face{
		{0, 1, 2}, // left of crease
		{0, 3, 4}, // right of crease
		{0, 4, 5}, // right of crease
	}
	return vertices, faces
}

func TestGenerateNormalsSharpCrease(t *testing.T) {
	vertices, faces := creaseMesh()
	f := creaseField{right: r3.Vec{X: 1}}
	verts, normals := GenerateNormals(f, vertices, faces, DefaultSharpAngle)
	require.Len(t, verts, 7)
	require.Len(t, normals, 7)
	assert.Equal(t, verts[0], verts[6])
	assert.Equal(t, Face{0, 1, 2}, faces[0])
	// Both right faces move to the single copy of vertex 0.
	assert.Equal(t, Face{6, 3, 4}, faces[1])
	assert.Equal(t, Face{6, 4, 5}, faces[2])
	assert.Equal(t, r3.Vec{Z: 1}, normals[0])
	assert.Equal(t, r3.Vec{X: 1}, normals[6])
	for i := 1; i < 6; i++ {
		assert.InDelta(t, 1, r3.Norm(normals[i]), 1e-12)
	}
}

func TestGenerateNormalsSmoothCrease(t *testing.T) {
	vertices, faces := creaseMesh()
	angle := 5 * math.Pi / 180
	f := creaseField{right: r3.Vec{X: math.Sin(angle), Z: math.Cos(angle)}}
	verts, normals := GenerateNormals(f, vertices, faces, DefaultSharpAngle)
	assert.Len(t, verts, 6)
	assert.Len(t, normals, 6)
	assert.Equal(t, Face{0, 3, 4}, faces[1])
}

func TestGenerateNormalsCube(t *testing.T) {
	f := cubeField{h: 1}
	cfg := testConfig(2, 4)
	oct, err := BuildOctree(f, RootBounds(f.Bounds(), cfg.BoundsPadding), cfg)
	require.NoError(t, err)
	faces := oct.Contour(f, 1)
	primary := len(oct.Vertices)
	verts, normals := GenerateNormals(f, oct.Vertices, faces, cfg.SharpAngle)
	require.Equal(t, len(verts), len(normals))
	assert.Greater(t, len(verts), primary, "cube edges must split vertices")
	for i, n := range normals {
		assert.InDelta(t, 1, r3.Norm(n), 1e-9, "normal %d not unit", i)
	}
	// Copies keep the position of their source vertex.
	for _, face := range faces {
		for _, v := range face {
			require.Less(t, v, len(verts))
		}
	}
	m := &Mesh{Vertices: verts, Normals: normals, Faces: faces}
	for i := range m.Faces {
		tri := m.Triangle(i)
		if tri.Degenerate(1e-9) {
			continue
		}
		// Shading normals on a cube face agree with the face orientation.
		for _, v := range m.Faces[i] {
			assert.Less(t, d3.Angle(normals[v], f.Normal(tri.Centroid())), cfg.SharpAngle+1e-9)
		}
	}
}

func TestAdjacencyPanicsOnBadIndex(t *testing.T) {
	assert.Panics(t, func() { adjacency(2, []Face{{0, 1, 2}}) })
	adj := adjacency(3, []Face{{0, 0, 1}, {1, 2, 0}})
	assert.Equal(t, []int{0, 1}, adj[0])
	assert.Equal(t, []int{0, 1}, adj[1])
	assert.Equal(t, []int{1}, adj[2])
}
