// Package preview draws meshes produced by the render package to images
// using a software rasterizer, and plots mesh diagnostics.
package preview

import (
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/hull/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// View is a camera placement. The mesh is fit into a bi-unit cube centered
// at the origin before drawing so views are independent of the mesh scale.
type View struct {
	// LookAt is the point at the center of the view.
	LookAt r3.Vec
	// Up is the direction pointing to the top of the image.
	Up  r3.Vec
	Eye r3.Vec
	// Near and Far clipping distances.
	Near, Far float64
	// Fovy is the vertical field of view in degrees.
	Fovy float64
}

// DefaultView is an isometric view from the positive octant.
var DefaultView = View{
	Up:   r3.Vec{Y: 1},
	Eye:  r3.Vec{X: 2.4, Y: 2.4, Z: 2.4},
	Near: 1,
	Far:  10,
	Fovy: 30,
}

// Options configures Image.
type Options struct {
	Width, Height int
	// Supersample renders at a multiple of the output size and downsamples
	// the result for antialiasing. Values below 1 are taken as 1.
	Supersample int
	View        View
	// Color and Background are hex colors such as "#468966".
	Color      string
	Background string
}

// DefaultOptions returns 1024x1024 images drawn from DefaultView.
func DefaultOptions() Options {
	return Options{
		Width:       1024,
		Height:      1024,
		Supersample: 2,
		View:        DefaultView,
		Color:       "#468966",
		Background:  "#FFF8E3",
	}
}

// Image draws m with a Phong shader. The mesh's vertex normals are used for
// shading when present, so creases split during meshing stay sharp.
func Image(m *render.Mesh, opts Options) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("image size must be positive")
	}
	if len(m.Faces) == 0 {
		return nil, errors.New("mesh has no faces")
	}
	scale := max(opts.Supersample, 1)
	mesh := toFauxgl(m)
	mesh.BiUnitCube()

	view := opts.View
	var (
		eye    = fauxglVec(view.Eye)
		center = fauxglVec(view.LookAt)
		up     = fauxglVec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(opts.Width*scale, opts.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(opts.Background))
	aspect := float64(opts.Width) / float64(opts.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(opts.Color)
	context.Shader = shader
	context.DrawMesh(mesh)

	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Bilinear)
	}
	return img, nil
}

// WritePNG draws m and encodes the image as PNG to w.
func WritePNG(w io.Writer, m *render.Mesh, opts Options) error {
	img, err := Image(m, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG draws m to a PNG file at path.
func SavePNG(path string, m *render.Mesh, opts Options) error {
	img, err := Image(m, opts)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func toFauxgl(m *render.Mesh) *fauxgl.Mesh {
	smooth := len(m.Normals) == len(m.Vertices)
	triangles := make([]*fauxgl.Triangle, 0, len(m.Faces))
	for i, f := range m.Faces {
		var v [3]fauxgl.Vertex
		flat := fauxglVec(m.Triangle(i).Normal())
		for j, idx := range f {
			v[j].Position = fauxglVec(m.Vertices[idx])
			if smooth {
				v[j].Normal = fauxglVec(m.Normals[idx])
			} else {
				v[j].Normal = flat
			}
		}
		triangles = append(triangles, fauxgl.NewTriangle(v[0], v[1], v[2]))
	}
	return fauxgl.NewTriangleMesh(triangles)
}

func fauxglVec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }
