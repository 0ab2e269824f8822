package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/soypat/hull"
	"github.com/soypat/hull/render"
)

// config holds the command line configuration.
type config struct {
	Scene string
	Shape string

	STL      string
	ASCII    bool
	JSON     string
	PNG      string
	Hist     string
	HistBins int

	MinDepth   int
	MaxDepth   int
	SharpAngle float64 // degrees
	Workers    int
	Compact    bool
	Probe      bool
	Check      int

	LogLevel string
}

func readConfig(args []string, errOut io.Writer) (config, error) {
	def := render.DefaultConfig()
	var c config
	fs := flag.NewFlagSet("hullmesh", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.Scene, "scene", "", "JSON scene file; when empty a demo scene is meshed")
	fs.StringVar(&c.Shape, "shape", "composite", "demo scene: one of "+strings.Join(demoNames(), ", "))
	fs.StringVar(&c.STL, "o", "hull.stl", "STL output file, empty to skip")
	fs.BoolVar(&c.ASCII, "ascii", false, "write ASCII STL instead of binary")
	fs.StringVar(&c.JSON, "json", "", "JSON vertex/normal/index buffers output file")
	fs.StringVar(&c.PNG, "png", "", "PNG preview output file")
	fs.StringVar(&c.Hist, "hist", "", "vertex field error histogram output file (png or svg)")
	fs.IntVar(&c.HistBins, "bins", 32, "histogram bins")
	fs.IntVar(&c.MinDepth, "min-depth", def.MinDepth, "octree depth subdivided unconditionally")
	fs.IntVar(&c.MaxDepth, "max-depth", def.MaxDepth, "maximum octree depth")
	fs.Float64Var(&c.SharpAngle, "sharp", def.SharpAngle*180/math.Pi, "crease angle in degrees above which vertices are split")
	fs.IntVar(&c.Workers, "workers", def.Workers, "meshing goroutines")
	fs.BoolVar(&c.Compact, "compact", false, "remove vertices no triangle references")
	fs.BoolVar(&c.Probe, "probe", false, "probe cells without corner crossings for thin features")
	fs.IntVar(&c.Check, "check", 0, "sample an NxNxN grid and report points where mesh and field disagree on inside/outside")
	fs.StringVar(&c.LogLevel, "log-level", "info", "logging level, one of: "+strings.Join(logLevels(), ", "))
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if fs.NArg() > 0 {
		return c, fmt.Errorf("unexpected arguments %q", fs.Args())
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	return c, checkConfig(&c)
}

type checkFunc func(c *config) error

func checkConfig(c *config) error {
	checkFuncs := []checkFunc{
		checkLogLevel,
		checkShape,
		checkOutputs,
		checkRender,
	}
	var errs []error
	for _, check := range checkFuncs {
		if err := check(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkLogLevel(c *config) error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

func checkShape(c *config) error {
	if c.Scene != "" {
		return nil
	}
	for _, name := range demoNames() {
		if c.Shape == name {
			return nil
		}
	}
	return fmt.Errorf("%w %q", hull.ErrUnknownShape, c.Shape)
}

func checkOutputs(c *config) error {
	if c.STL == "" && c.JSON == "" && c.PNG == "" && c.Hist == "" {
		return errors.New("no output requested")
	}
	if c.Hist != "" && c.HistBins < 1 {
		return fmt.Errorf("invalid histogram bins %d", c.HistBins)
	}
	if c.Check < 0 {
		return fmt.Errorf("invalid check grid size %d", c.Check)
	}
	return nil
}

func checkRender(c *config) error {
	return c.render().Validate()
}

// render returns the meshing configuration selected by the flags.
func (c *config) render() render.Config {
	rc := render.DefaultConfig()
	rc.MinDepth = c.MinDepth
	rc.MaxDepth = c.MaxDepth
	rc.SharpAngle = c.SharpAngle * math.Pi / 180
	rc.Workers = c.Workers
	rc.CompactVertices = c.Compact
	rc.ProbeEmptyCells = c.Probe
	return rc
}

func logLevels() []string {
	names := make([]string, len(logrus.AllLevels))
	for i, lvl := range logrus.AllLevels {
		names[i] = lvl.String()
	}
	return names
}

// newLogger returns a logger writing to out. The level must have been
// validated by checkLogLevel.
func newLogger(out io.Writer, level string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		panic(err)
	}
	return &logrus.Logger{
		Out: out,
		Formatter: &logrus.TextFormatter{
			FullTimestamp: true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}
}
