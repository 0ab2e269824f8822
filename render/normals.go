package render

import (
	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// GenerateNormals computes a shading normal for every vertex from the field
// normals sampled at the centroids of its faces. Faces whose normal deviates
// from every normal already gathered at a vertex by sharpAngle radians or more
// are moved to a copy of the vertex appended to vertices, so sharp creases
// keep distinct normals on each side.
//
// faces are modified in place. The returned normals are aligned with the
// returned vertices: first one per original vertex, then one per copy in
// creation order.
func GenerateNormals(f Field, vertices []r3.Vec, faces []Face, sharpAngle float64) (verts, normals []r3.Vec) {
	n := len(vertices)
	adj := adjacency(n, faces)
	primary := make([]r3.Vec, n)
	var copies []r3.Vec
	var candidates []r3.Vec
	for v := 0; v < n; v++ {
		// Copies of v are appended after last.
		last := len(vertices) - 1
		candidates = append(candidates[:0], f.Normal(vertices[v]))
		for _, fi := range adj[v] {
			face := &faces[fi]
			fn := f.Normal(faceCentroid(vertices, *face))
			best, bestAngle := None, sharpAngle
			for k, cand := range candidates {
				if a := d3.Angle(cand, fn); a < bestAngle {
					best, bestAngle = k, a
				}
			}
			switch {
			case best == 0:
			case best > 0:
				face.replace(v, last+best)
			default:
				face.replace(v, len(vertices))
				vertices = append(vertices, vertices[v])
				candidates = append(candidates, fn)
			}
		}
		primary[v] = d3.Unit(candidates[0])
		for _, c := range candidates[1:] {
			copies = append(copies, d3.Unit(c))
		}
	}
	return vertices, append(primary, copies...)
}

// adjacency lists for every vertex the faces referencing it.
func adjacency(nverts int, faces []Face) [][]int {
	adj := make([][]int, nverts)
	for fi, face := range faces {
		for i, v := range face {
			if v < 0 || v >= nverts {
				panic("bug: face references missing vertex")
			}
			// Skip repeated corners of degenerate faces.
			if (i > 0 && face[0] == v) || (i > 1 && face[1] == v) {
				continue
			}
			adj[v] = append(adj[v], fi)
		}
	}
	return adj
}

func faceCentroid(vertices []r3.Vec, f Face) r3.Vec {
	return d3.Set{vertices[f[0]], vertices[f[1]], vertices[f[2]]}.Centroid()
}
