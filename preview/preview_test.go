package preview

import (
	"bytes"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/soypat/hull/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

type sphere struct{ r float64 }

func (s sphere) Evaluate(p r3.Vec) float64 { return r3.Norm(p) - s.r }
func (s sphere) Normal(p r3.Vec) r3.Vec   { return r3.Unit(p) }
func (s sphere) Bounds() r3.Box {
	return r3.Box{Min: r3.Vec{X: -s.r, Y: -s.r, Z: -s.r}, Max: r3.Vec{X: s.r, Y: s.r, Z: s.r}}
}

func sphereMesh(t *testing.T) *render.Mesh {
	t.Helper()
	cfg := render.DefaultConfig()
	cfg.MinDepth, cfg.MaxDepth = 2, 4
	m, _, err := render.Build(sphere{r: 1}, cfg)
	require.NoError(t, err)
	return m
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 48
	return opts
}

func TestImage(t *testing.T) {
	m := sphereMesh(t)
	opts := smallOptions()
	img, err := Image(m, opts)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	// The sphere covers the center, the background the corners.
	bg := rgb(img.At(0, 0))
	assert.Equal(t, bg, rgb(img.At(63, 47)))
	assert.NotEqual(t, bg, rgb(img.At(32, 24)))
}

func TestImageDeterministic(t *testing.T) {
	m := sphereMesh(t)
	var a, b bytes.Buffer
	require.NoError(t, WritePNG(&a, m, smallOptions()))
	require.NoError(t, WritePNG(&b, m, smallOptions()))
	ok, err := cmpimg.EqualApprox("png", a.Bytes(), b.Bytes(), 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestImageErrors(t *testing.T) {
	opts := smallOptions()
	_, err := Image(&render.Mesh{}, opts)
	assert.Error(t, err)
	opts.Width = 0
	_, err = Image(sphereMesh(t), opts)
	assert.Error(t, err)
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sphere.png")
	opts := smallOptions()
	opts.Supersample = 0
	require.NoError(t, SavePNG(path, sphereMesh(t), opts))
	img, err := readPNG(path)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestFieldError(t *testing.T) {
	m := sphereMesh(t)
	errs := FieldError(sphere{r: 1}, m)
	require.Len(t, errs, len(m.Vertices))
	for _, e := range errs {
		assert.GreaterOrEqual(t, e, 0.)
		assert.Less(t, e, 0.05)
	}
}

func TestWriteHistogram(t *testing.T) {
	m := sphereMesh(t)
	f := sphere{r: 1}
	var buf bytes.Buffer
	require.NoError(t, WriteHistogram(&buf, "png", f, m, 16))
	_, err := png.Decode(&buf)
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, WriteHistogram(&buf, "svg", f, m, 16))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, WriteHistogram(&buf, "bmp", f, m, 16))
	assert.Error(t, WriteHistogram(&buf, "png", f, m, 0))
	assert.Error(t, WriteHistogram(&buf, "png", f, &render.Mesh{}, 16))
}

func TestHistogramTitle(t *testing.T) {
	p, err := Histogram(sphere{r: 1}, sphereMesh(t), 8)
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "mean")
	assert.False(t, math.IsNaN(p.X.Max))
}
