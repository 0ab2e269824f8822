// Command hullmesh meshes a union of implicit primitives read from a JSON
// scene file, or a built in demo scene, and writes the mesh as STL, JSON
// buffers, a PNG preview and a field error histogram.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/soypat/hull"
	"github.com/soypat/hull/preview"
	"github.com/soypat/hull/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	cfg, err := readConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}
	log := newLogger(os.Stderr, cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("hullmesh failed")
	}
}

func run(cfg config, log logrus.FieldLogger) error {
	model, err := loadModel(cfg)
	if err != nil {
		return err
	}
	if model.Len() == 0 {
		return errors.New("scene has no primitives")
	}
	rc := cfg.render()
	rc.Logger = log
	if err := model.Rebuild(rc); err != nil {
		return err
	}
	mesh := model.Mesh()
	log.WithFields(model.Stats().Fields()).Info("mesh built")

	field := model.Field()
	if cfg.Check > 0 {
		root := render.RootBounds(field.Bounds(), rc.BoundsPadding)
		margin := r3.Norm(r3.Sub(root.Max, root.Min)) / float64(int(1)<<rc.MaxDepth)
		mm, err := render.CheckMesh(field, mesh, cfg.Check, margin)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"sampled":  mm.Sampled,
			"disagree": mm.Disagree,
			"fraction": mm.Fraction(),
			"maxField": mm.MaxField,
		}).Info("mesh checked against field")
	}
	if cfg.STL != "" {
		if err := writeSTL(cfg, mesh); err != nil {
			return fmt.Errorf("writing STL: %w", err)
		}
		log.WithField("file", cfg.STL).Info("STL written")
	}
	if cfg.JSON != "" {
		if err := writeJSON(cfg.JSON, mesh); err != nil {
			return fmt.Errorf("writing JSON buffers: %w", err)
		}
		log.WithField("file", cfg.JSON).Info("buffers written")
	}
	if cfg.PNG != "" {
		if err := preview.SavePNG(cfg.PNG, mesh, preview.DefaultOptions()); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
		log.WithField("file", cfg.PNG).Info("preview written")
	}
	if cfg.Hist != "" {
		if err := writeHistogram(cfg, field, mesh); err != nil {
			return fmt.Errorf("writing histogram: %w", err)
		}
		log.WithField("file", cfg.Hist).Info("histogram written")
	}
	return nil
}

func loadModel(cfg config) (*hull.Model, error) {
	if cfg.Scene == "" {
		return demoModel(cfg.Shape)
	}
	fp, err := os.Open(cfg.Scene)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return hull.ReadScene(fp)
}

func writeSTL(cfg config, mesh *render.Mesh) error {
	if !cfg.ASCII {
		return render.CreateSTL(cfg.STL, mesh.Reader())
	}
	fp, err := os.Create(cfg.STL)
	if err != nil {
		return err
	}
	defer fp.Close()
	name := strings.TrimSuffix(filepath.Base(cfg.STL), filepath.Ext(cfg.STL))
	if err := render.WriteSTLASCII(fp, name, mesh.Reader()); err != nil {
		return err
	}
	return fp.Close()
}

func writeJSON(path string, mesh *render.Mesh) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := json.NewEncoder(fp).Encode(mesh.Buffers()); err != nil {
		return err
	}
	return fp.Close()
}

func writeHistogram(cfg config, field hull.Field, mesh *render.Mesh) error {
	format := strings.TrimPrefix(filepath.Ext(cfg.Hist), ".")
	if format == "" {
		format = "png"
	}
	fp, err := os.Create(cfg.Hist)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := preview.WriteHistogram(fp, format, field, mesh, cfg.HistBins); err != nil {
		return err
	}
	return fp.Close()
}
