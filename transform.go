package canopy

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// Mul returns m * o, so o is applied first.
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Invert returns the inverse of m, or the identity when m is singular
// (determinant ≈ 0, e.g. a zero scale somewhere up the chain).
func (m Affine) Invert() Affine {
	if m.Singular() {
		return IdentityAffine
	}
	invDet := 1.0 / m.Det()
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Singular reports whether m has no usable inverse.
func (m Affine) Singular() bool {
	det := m.Det()
	return det > -1e-12 && det < 1e-12
}

// Apply transforms point p.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// rectLocalMatrix maps a rectangle's own space (origin at its top-left corner,
// spanning 0..size) into its parent's space.
//
// Composition order:
//
//	Translate(-pivot*size) -> Scale -> Rotate -> Translate(pivotPoint)
//
// so rotation and scale happen about the pivot.
func rectLocalMatrix(pivotPoint, pivotOffset, scale Vec2, rotationDeg float64) Affine {
	sin, cos := math.Sincos(rotationDeg * math.Pi / 180)

	// After Scale * Translate(-pivotOffset):
	//   a=sx, b=0, c=0, d=sy, tx=-ox*sx, ty=-oy*sy
	sx, sy := scale.X, scale.Y
	preTx := -pivotOffset.X * sx
	preTy := -pivotOffset.Y * sy

	// After Rotate:
	ra := cos * sx
	rb := sin * sx
	rc := -sin * sy
	rd := cos * sy
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// After Translate(pivotPoint):
	return Affine{ra, rb, rc, rd, rtx + pivotPoint.X, rty + pivotPoint.Y}
}

// boundsOf returns the axis-aligned bounds of the rectangle (0,0,w,h) after
// transformation by m.
func boundsOf(m Affine, w, h float64) Rect {
	p0 := m.Apply(Vec2{0, 0})
	p1 := m.Apply(Vec2{w, 0})
	p2 := m.Apply(Vec2{0, h})
	p3 := m.Apply(Vec2{w, h})
	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// NormalizeDegrees maps an angle into [0, 360) for display. Stored rotations
// are never normalized.
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
