package hull

import (
	"math"
	"math/rand"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/hull/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func randVec(rng *rand.Rand, size float64) r3.Vec {
	return r3.Vec{
		X: size * (2*rng.Float64() - 1),
		Y: size * (2*rng.Float64() - 1),
		Z: size * (2*rng.Float64() - 1),
	}
}

// checkOracle compares the sign of prim and oracle at random points away
// from the surface. toOracle maps points to the oracle's frame.
func checkOracle(t *testing.T, prim Primitive, oracle sdf.SDF3, toOracle func(r3.Vec) v3.Vec) {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	checked := 0
	for i := 0; i < 2000; i++ {
		p := randVec(rng, 3)
		got := prim.Evaluate(p)
		if math.Abs(got) < 1e-3 {
			continue
		}
		checked++
		want := oracle.Evaluate(toOracle(p))
		if (got < 0) != (want < 0) {
			t.Errorf("sign mismatch at %v: got %g, oracle %g", p, got, want)
		}
	}
	require.Greater(t, checked, 1000)
}

func assertVecNear(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.True(t, d3.EqualWithin(want, got, 1e-12), "got %v, want %v", got, want)
}

func identity(p r3.Vec) v3.Vec { return v3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

func TestBoxOracle(t *testing.T) {
	box, err := NewBox(1.5, Placement{})
	require.NoError(t, err)
	oracle, err := sdf.Box3D(v3.Vec{X: 3, Y: 3, Z: 3}, 0)
	require.NoError(t, err)
	checkOracle(t, box, oracle, identity)
}

func TestEllipsoidOracle(t *testing.T) {
	ell, err := NewEllipsoid(Placement{Scale: d3.Elem(2)})
	require.NoError(t, err)
	oracle, err := sdf.Sphere3D(2)
	require.NoError(t, err)
	checkOracle(t, ell, oracle, identity)
	// A uniformly scaled ellipsoid is a sphere: its value is exact
	// distance in local units.
	assert.InDelta(t, 0.5, ell.Evaluate(r3.Vec{X: 3}), 1e-12)
}

func TestCylinderOracle(t *testing.T) {
	cyl, err := NewCylinder(1, 2, Placement{})
	require.NoError(t, err)
	// The sdfx cylinder runs along Z.
	oracle, err := sdf.Cylinder3D(4, 1, 0)
	require.NoError(t, err)
	checkOracle(t, cyl, oracle, func(p r3.Vec) v3.Vec { return v3.Vec{X: p.X, Y: p.Z, Z: p.Y} })
}

func TestPrimitiveNormals(t *testing.T) {
	box, err := NewBox(1, Placement{})
	require.NoError(t, err)
	assertVecNear(t, r3.Vec{Z: -1}, box.Normal(r3.Vec{X: 0.2, Y: 0.5, Z: -0.9}))
	assertVecNear(t, r3.Vec{Y: 1}, box.Normal(r3.Vec{X: 0.2, Y: 0.5, Z: 0.1}))
	assertVecNear(t, r3.Vec{X: 1}, box.Normal(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}))

	cyl, err := NewCylinder(1, 1, Placement{})
	require.NoError(t, err)
	assertVecNear(t, r3.Vec{Y: -1}, cyl.Normal(r3.Vec{X: 0.1, Y: -1.5}))
	assertVecNear(t, r3.Vec{X: 0.6, Z: 0.8}, cyl.Normal(r3.Vec{X: 3, Y: 0.5, Z: 4}))

	// The normal of a stretched ellipsoid is perpendicular to its surface,
	// not parallel to the position.
	ell, err := NewEllipsoid(Placement{Scale: r3.Vec{X: 2, Y: 1, Z: 1}})
	require.NoError(t, err)
	p := r3.Vec{X: math.Sqrt2, Y: math.Sqrt2 / 2}
	require.InDelta(t, 0, ell.Evaluate(p), 1e-12)
	// Gradient of (x/2)²+y² at p is (x/2, 2y) up to scale.
	want := d3.Unit(r3.Vec{X: p.X / 2, Y: 2 * p.Y})
	assertVecNear(t, want, ell.Normal(p))
}

func TestPlacement(t *testing.T) {
	rot := r3.NewRotation(math.Pi/2, r3.Vec{Z: 1})
	box, err := NewBox(1, Placement{Position: r3.Vec{X: 10}, Rotation: rot, Scale: r3.Vec{X: 2}})
	require.NoError(t, err)
	// Local X is stretched by 2 then rotated onto world Y.
	assert.InDelta(t, 0, box.Evaluate(r3.Vec{X: 10, Y: 2}), 1e-12)
	assert.InDelta(t, 0, box.Evaluate(r3.Vec{X: 11}), 1e-12)
	assert.Less(t, box.Evaluate(r3.Vec{X: 10, Y: 1.9}), 0.)
	assert.Greater(t, box.Evaluate(r3.Vec{X: 11.1}), 0.)
	assertVecNear(t, r3.Vec{Y: 1}, box.Normal(r3.Vec{X: 10, Y: 2.1}))

	bb := d3.Box(box.Bounds())
	want := d3.Box{Min: r3.Vec{X: 9, Y: -2, Z: -1}, Max: r3.Vec{X: 11, Y: 2, Z: 1}}
	assert.True(t, want.Equals(bb, 1e-12), "got bounds %v", bb)
}

func TestPrimitiveErrors(t *testing.T) {
	_, err := NewBox(0, Placement{})
	assert.Error(t, err)
	_, err = NewBox(math.Inf(1), Placement{})
	assert.Error(t, err)
	_, err = NewCylinder(1, -1, Placement{})
	assert.Error(t, err)
	_, err = NewCylinder(math.NaN(), 1, Placement{})
	assert.Error(t, err)
	_, err = NewEllipsoid(Placement{Scale: r3.Vec{X: -1}})
	assert.Error(t, err)
	_, err = NewEllipsoid(Placement{Position: r3.Vec{Y: math.NaN()}})
	assert.Error(t, err)
}

func TestPlacementSingularScale(t *testing.T) {
	_, err := NewBox(1, Placement{Scale: r3.Vec{X: 1e-6, Y: 1e-6, Z: 1e-6}})
	assert.Error(t, err)
	_, err = NewEllipsoid(Placement{Scale: r3.Vec{X: 1e-20}})
	assert.Error(t, err)
}

func TestPlacementRotationNormalized(t *testing.T) {
	unit := r3.NewRotation(math.Pi/3, r3.Vec{X: 1, Y: 1})
	scaled := r3.Rotation{Real: 3 * unit.Real, Imag: 3 * unit.Imag, Jmag: 3 * unit.Jmag, Kmag: 3 * unit.Kmag}
	want, err := NewCylinder(0.5, 2, Placement{Rotation: unit})
	require.NoError(t, err)
	got, err := NewCylinder(0.5, 2, Placement{Rotation: scaled})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		p := randVec(rng, 3)
		assert.InDelta(t, want.Evaluate(p), got.Evaluate(p), 1e-12)
		assertVecNear(t, want.Normal(p), got.Normal(p))
	}
	// A pure real quaternion of any length is no rotation.
	id, err := NewBox(1, Placement{Rotation: r3.Rotation{Real: 5}})
	require.NoError(t, err)
	assert.InDelta(t, 0, id.Evaluate(r3.Vec{X: 1, Y: 0.5}), 1e-12)
}
