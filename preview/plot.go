package preview

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/soypat/hull/render"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FieldError returns the absolute field value at every mesh vertex.
// Vertices lying exactly on the surface have zero error.
func FieldError(f render.Field, m *render.Mesh) []float64 {
	errs := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		errs[i] = math.Abs(f.Evaluate(v))
	}
	return errs
}

// Histogram plots the distribution of FieldError over bins bins.
// The title carries the mean and standard deviation of the error.
func Histogram(f render.Field, m *render.Mesh, bins int) (*plot.Plot, error) {
	if bins < 1 {
		return nil, errors.New("need at least one bin")
	}
	errs := FieldError(f, m)
	if len(errs) == 0 {
		return nil, errors.New("mesh has no vertices")
	}
	h, err := plotter.NewHist(plotter.Values(errs), bins)
	if err != nil {
		return nil, err
	}
	mean, std := stat.MeanStdDev(errs, nil)
	p := plot.New()
	p.Title.Text = fmt.Sprintf("vertex field error (mean %.3g, std %.3g)", mean, std)
	p.X.Label.Text = "|f(v)|"
	p.Y.Label.Text = "vertices"
	p.Add(h)
	return p, nil
}

// WriteHistogram encodes the histogram of FieldError to w in the given
// image format, such as "png" or "svg".
func WriteHistogram(w io.Writer, format string, f render.Field, m *render.Mesh, bins int) error {
	p, err := Histogram(f, m, bins)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
