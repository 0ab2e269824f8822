package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/hschendel/stl"
	"github.com/soypat/hull/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Binary STL layout: an 80 byte header, a little endian uint32 triangle
// count and then one 50 byte record per triangle.
const (
	stlHeaderSize = 80
	stlRecordSize = 50
	stlBatch      = 1 << 10
)

var (
	errEmptySTL                 = errors.New("STL model has no triangles")
	errCalculatedNormalMismatch = errors.New("STL normal differs from the normal calculated from the vertices")
)

// CreateSTL streams the triangles of r to a binary STL file at path.
// The triangle count is written to the header once the stream ends.
func CreateSTL(path string, r Renderer) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	bw := bufio.NewWriterSize(fp, stlBatch*stlRecordSize)
	enc := stlEncoder{w: bw}
	if err := enc.header(0); err != nil {
		return err
	}
	buf := make([]Triangle3, stlBatch)
	for {
		n, rerr := r.ReadTriangles(buf)
		for _, t := range buf[:n] {
			if err := enc.encode(t); err != nil {
				return err
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		} else if rerr != nil {
			return rerr
		}
	}
	if enc.count == 0 {
		return errEmptySTL
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], enc.count)
	if _, err := fp.WriteAt(count[:], stlHeaderSize); err != nil {
		return err
	}
	return fp.Close()
}

// WriteSTL writes model to w in binary STL format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errEmptySTL
	}
	enc := stlEncoder{w: w}
	if err := enc.header(uint32(len(model))); err != nil {
		return err
	}
	for _, t := range model {
		if err := enc.encode(t); err != nil {
			return err
		}
	}
	return nil
}

// WriteSTLASCII writes the triangles of a Renderer as an ASCII STL solid.
func WriteSTLASCII(w io.Writer, name string, r Renderer) error {
	model, err := RenderAll(r)
	if err != nil {
		return err
	}
	solid := stl.Solid{Name: name, IsAscii: true, Triangles: make([]stl.Triangle, len(model))}
	for i, t := range model {
		solid.Triangles[i] = stlRecord(t)
	}
	return solid.WriteAll(w)
}

// ReadSTL reads an ASCII or binary STL model. Triangles whose stored normal
// disagrees with their winding, inverted normals included, are kept and
// reported with an error wrapping the number of mismatches. Any other
// invalid triangle aborts the read.
func ReadSTL(r io.ReadSeeker) ([]Triangle3, error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading STL: %w", err)
	}
	if len(solid.Triangles) == 0 {
		return nil, errEmptySTL
	}
	model := make([]Triangle3, len(solid.Triangles))
	mismatches := 0
	for i, rec := range solid.Triangles {
		err := checkSTLRecord(rec)
		if errors.Is(err, errCalculatedNormalMismatch) {
			mismatches++
		} else if err != nil {
			return nil, fmt.Errorf("STL triangle %d: %w", i, err)
		}
		model[i] = fromSTLRecord(rec)
	}
	if mismatches > 0 {
		return model, fmt.Errorf("%d of %d triangles: %w", mismatches, len(model), errCalculatedNormalMismatch)
	}
	return model, nil
}

// stlEncoder writes binary STL records and counts them.
type stlEncoder struct {
	w     io.Writer
	rec   [stlRecordSize]byte
	count uint32
}

func (e *stlEncoder) header(count uint32) error {
	var h [stlHeaderSize + 4]byte
	binary.LittleEndian.PutUint32(h[stlHeaderSize:], count)
	_, err := e.w.Write(h[:])
	return err
}

func (e *stlEncoder) encode(t Triangle3) error {
	rec := stlRecord(t)
	putVec3(e.rec[0:], rec.Normal)
	for i, v := range rec.Vertices {
		putVec3(e.rec[12*(i+1):], v)
	}
	binary.LittleEndian.PutUint16(e.rec[48:], rec.Attributes)
	if _, err := e.w.Write(e.rec[:]); err != nil {
		return err
	}
	e.count++
	return nil
}

func putVec3(b []byte, v stl.Vec3) {
	_ = b[11]
	binary.LittleEndian.PutUint32(b, math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v[2]))
}

func stlRecord(t Triangle3) stl.Triangle {
	return stl.Triangle{
		Normal:   toVec3(t.Normal()),
		Vertices: [3]stl.Vec3{toVec3(t.V[0]), toVec3(t.V[1]), toVec3(t.V[2])},
	}
}

func fromSTLRecord(rec stl.Triangle) Triangle3 {
	return Triangle3{V: [3]r3.Vec{
		fromVec3(rec.Vertices[0]),
		fromVec3(rec.Vertices[1]),
		fromVec3(rec.Vertices[2]),
	}}
}

func checkSTLRecord(rec stl.Triangle) error {
	// Normals are compared after normalization so the tolerance is absolute.
	const normalTol = 5e-2
	if badVec3(rec.Normal) {
		return errors.New("inf/NaN normal")
	}
	for _, v := range rec.Vertices {
		if badVec3(v) {
			return errors.New("inf/NaN vertex")
		}
	}
	t := fromSTLRecord(rec)
	if t.Degenerate(0) {
		return errors.New("degenerate triangle")
	}
	calc, got := t.Normal(), d3.Unit(fromVec3(rec.Normal))
	if r3.Norm(r3.Sub(calc, got)) > normalTol {
		return errCalculatedNormalMismatch
	}
	return nil
}

func toVec3(v r3.Vec) stl.Vec3 {
	return stl.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func fromVec3(v stl.Vec3) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func badVec3(v stl.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return true
		}
	}
	return false
}
