package quat

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Principal axes.
var (
	AxisX = Vec3{X: 1}
	AxisY = Vec3{Y: 1}
	AxisZ = Vec3{Z: 1}
)

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Len returns the vector length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Dominant returns the index (0=X, 1=Y, 2=Z) and sign of the component with
// the largest magnitude.
func (v Vec3) Dominant() (axis int, sign float64) {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax >= ay && ax >= az:
		return 0, math.Copysign(1, v.X)
	case ay >= az:
		return 1, math.Copysign(1, v.Y)
	default:
		return 2, math.Copysign(1, v.Z)
	}
}
