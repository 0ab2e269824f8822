package render

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Stats describes one run of Build.
type Stats struct {
	Nodes    int
	Leaves   int
	Vertices int // final vertex count, copies included
	Faces    int
	// Duplicated counts vertex copies made at sharp creases.
	Duplicated int
	// Compacted counts unreferenced vertices removed.
	Compacted int
	// Rejected counts vertex candidates that caused a subdivision.
	Rejected int
	// Dropped counts crossed cells at maximum depth left without a vertex.
	Dropped     int
	Evaluations int
	// Solver iteration statistics over every solved cell.
	SolverMean   float64
	SolverStdDev float64

	OctreeTime  time.Duration
	ContourTime time.Duration
	NormalsTime time.Duration
}

// Fields returns the stats as structured log fields.
func (s Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"nodes":      s.Nodes,
		"leaves":     s.Leaves,
		"vertices":   s.Vertices,
		"faces":      s.Faces,
		"duplicated": s.Duplicated,
		"rejected":   s.Rejected,
		"dropped":    s.Dropped,
		"solverMean": s.SolverMean,
		"elapsed":    s.OctreeTime + s.ContourTime + s.NormalsTime,
	}
}

// RootBounds returns the octree root box for solid bounds bb. The minimum
// is pushed out to mirror the maximum about the origin, then the box is
// scaled about its center by padding so the surface does not lie on it.
func RootBounds(bb r3.Box, padding float64) r3.Box {
	b := d3.Box(bb).Symmetric()
	if padding > 0 {
		b = b.ScaleAboutCenter(padding)
	}
	return r3.Box(b)
}

// Build extracts the surface of f as a mesh: it builds the octree,
// contours it and generates normals with sharp crease splitting.
func Build(f BoundedField, cfg Config) (*Mesh, Stats, error) {
	var stats Stats
	if err := cfg.Validate(); err != nil {
		return nil, stats, err
	}
	bb := f.Bounds()
	if d3.Box(bb).IsEmpty() {
		return nil, stats, ErrEmptyField
	}
	log := cfg.logger()

	start := time.Now()
	root := RootBounds(bb, cfg.BoundsPadding)
	oct, err := BuildOctree(f, root, cfg)
	if err != nil {
		return nil, stats, err
	}
	stats.OctreeTime = time.Since(start)
	stats.Nodes = len(oct.Nodes)
	stats.Leaves = oct.Leaves()
	stats.Rejected = oct.stats.rejected
	stats.Dropped = oct.stats.dropped
	stats.Evaluations = oct.stats.evals
	if len(oct.stats.iterations) > 0 {
		stats.SolverMean, stats.SolverStdDev = stat.MeanStdDev(oct.stats.iterations, nil)
	}
	log.WithFields(logrus.Fields{
		"nodes":    stats.Nodes,
		"vertices": len(oct.Vertices),
		"rejected": stats.Rejected,
		"elapsed":  stats.OctreeTime,
	}).Debug("octree built")

	start = time.Now()
	faces := oct.Contour(f, cfg.workers())
	stats.ContourTime = time.Since(start)
	log.WithFields(logrus.Fields{
		"faces":   len(faces),
		"elapsed": stats.ContourTime,
	}).Debug("octree contoured")

	start = time.Now()
	primary := len(oct.Vertices)
	verts, normals := GenerateNormals(f, oct.Vertices, faces, cfg.SharpAngle)
	m := &Mesh{Vertices: verts, Normals: normals, Faces: faces}
	stats.Duplicated = len(verts) - primary
	if cfg.CompactVertices {
		stats.Compacted = m.Compact()
	}
	stats.NormalsTime = time.Since(start)
	stats.Vertices = len(m.Vertices)
	stats.Faces = len(m.Faces)
	log.WithFields(logrus.Fields{
		"duplicated": stats.Duplicated,
		"compacted":  stats.Compacted,
		"elapsed":    stats.NormalsTime,
	}).Debug("normals generated")
	return m, stats, nil
}
