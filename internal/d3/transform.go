package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an affine map of 3D space, p' = L*p + t.
// The zero value of Transform is the identity transform.
type Transform struct {
	// The diagonal of L is stored with 1 subtracted so that
	// the zero value is the identity:
	//  d00 = L00-1, d11 = L11-1, d22 = L22-1
	d00, x01, x02 float64
	x10, d11, x12 float64
	x20, x21, d22 float64
	t             r3.Vec
}

// ComposeTransform returns the transform that scales by scale, rotates by q
// and then translates to position. The identity Transform is constructed with
//  ComposeTransform(Vec{}, Vec{1,1,1}, Rotation{})
func ComposeTransform(position, scale r3.Vec, q r3.Rotation) Transform {
	x2 := q.Imag + q.Imag
	y2 := q.Jmag + q.Jmag
	z2 := q.Kmag + q.Kmag
	xx, yy, zz := q.Imag*x2, q.Jmag*y2, q.Kmag*z2
	xy, xz, yz := q.Imag*y2, q.Imag*z2, q.Jmag*z2
	wx, wy, wz := q.Real*x2, q.Real*y2, q.Real*z2
	m := [3][3]float64{
		{(1 - (yy + zz)) * scale.X, (xy - wz) * scale.Y, (xz + wy) * scale.Z},
		{(xy + wz) * scale.X, (1 - (xx + zz)) * scale.Y, (yz - wx) * scale.Z},
		{(xz - wy) * scale.X, (yz + wx) * scale.Y, (1 - (xx + yy)) * scale.Z},
	}
	return fromLinear(m, position)
}

// Translation returns a pure translation by v.
func Translation(v r3.Vec) Transform {
	return Transform{t: v}
}

// Transform applies the Transform to point p.
func (t Transform) Transform(p r3.Vec) r3.Vec {
	return r3.Add(t.Direction(p), t.t)
}

// Direction applies only the linear part of the Transform to v.
func (t Transform) Direction(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z,
	}
}

// TransposeDirection applies the transpose of the linear part to v.
// Called on a world-to-local transform it maps local gradients
// to world gradients.
func (t Transform) TransposeDirection(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x10*v.Y + t.x20*v.Z,
		Y: t.x01*v.X + (t.d11+1)*v.Y + t.x21*v.Z,
		Z: t.x02*v.X + t.x12*v.Y + (t.d22+1)*v.Z,
	}
}

// Translation returns the translation component of the Transform.
func (t Transform) Translation() r3.Vec { return t.t }

// Mul returns the transform equivalent to applying b first and then t.
func (t Transform) Mul(b Transform) Transform {
	if t == (Transform{}) {
		return b
	}
	if b == (Transform{}) {
		return t
	}
	x, y := t.linear(), b.linear()
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = x[i][0]*y[0][j] + x[i][1]*y[1][j] + x[i][2]*y[2][j]
		}
	}
	return fromLinear(m, t.Transform(b.t))
}

// Det returns the determinant of the linear part of the Transform.
func (t Transform) Det() float64 {
	m := t.linear()
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Singular reports whether the linear part is too close to singular
// to be inverted.
func (t Transform) Singular() bool {
	return math.Abs(t.Det()) < 1e-16
}

// Inv returns the inverse of the transform such that
// t.Inv().Mul(t) is the identity Transform.
// If the linear part is singular then Inv returns the transform
// that maps every point to the origin.
func (t Transform) Inv() Transform {
	if t == (Transform{}) {
		return t
	}
	if t.Singular() {
		return Transform{d00: -1, d11: -1, d22: -1}
	}
	det := t.Det()
	d := 1 / det
	m := t.linear()
	inv := [3][3]float64{
		{(m[1][1]*m[2][2] - m[1][2]*m[2][1]) * d, (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * d, (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * d},
		{(m[1][2]*m[2][0] - m[1][0]*m[2][2]) * d, (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * d, (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * d},
		{(m[1][0]*m[2][1] - m[1][1]*m[2][0]) * d, (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * d, (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * d},
	}
	r := fromLinear(inv, r3.Vec{})
	r.t = r3.Scale(-1, r.Direction(t.t))
	return r
}

// TransformBox returns the axis aligned bounding box of the
// transformed corners of b.
func (t Transform) TransformBox(b Box) Box {
	corners := b.Vertices()
	for i := range corners {
		corners[i] = t.Transform(corners[i])
	}
	return Box{Min: corners.Min(), Max: corners.Max()}
}

func (t Transform) linear() [3][3]float64 {
	return [3][3]float64{
		{t.d00 + 1, t.x01, t.x02},
		{t.x10, t.d11 + 1, t.x12},
		{t.x20, t.x21, t.d22 + 1},
	}
}

func fromLinear(m [3][3]float64, translation r3.Vec) Transform {
	return Transform{
		d00: m[0][0] - 1, x01: m[0][1], x02: m[0][2],
		x10: m[1][0], d11: m[1][1] - 1, x12: m[1][2],
		x20: m[2][0], x21: m[2][1], d22: m[2][2] - 1,
		t: translation,
	}
}

// equals tests the equality of the Transforms to within a tolerance.
func (t Transform) equals(b Transform, tol float64) bool {
	x, y := t.linear(), b.linear()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(x[i][j]-y[i][j]) > tol {
				return false
			}
		}
	}
	return EqualWithin(t.t, b.t, tol)
}
