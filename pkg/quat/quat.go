// Package quat provides the orientation math used by the cublet engine:
// quaternions, 3D vectors and the affine matrices handed to renderers.
package quat

import "math"

// Quat represents a rotation quaternion.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// Identity returns the identity quaternion (no rotation).
func Identity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// FromAxisAngle creates a quaternion rotating angle radians about axis.
// The axis is expected to be a unit vector; it is not normalized here.
func FromAxisAngle(axis Vec3, angle float64) Quat {
	s := math.Sin(angle * 0.5)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(angle * 0.5),
	}
}

// Mul returns the Hamilton product q ⋅ other.
// The result rotates by other first, then by q. It is not normalized.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Compose is Mul written as a function: apply b first, then a.
func Compose(a, b Quat) Quat {
	return a.Mul(b)
}

// LenSq returns the squared magnitude.
func (q Quat) LenSq() float64 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
}

// Len returns the magnitude.
func (q Quat) Len() float64 {
	return math.Sqrt(q.LenSq())
}

// Normalize returns q scaled to unit length.
// A zero quaternion yields the identity instead of a division artifact.
func (q Quat) Normalize() Quat {
	lenSq := q.LenSq()
	if lenSq == 0 {
		return Identity()
	}
	inv := 1 / math.Sqrt(lenSq)
	return Quat{
		X: q.X * inv,
		Y: q.Y * inv,
		Z: q.Z * inv,
		W: q.W * inv,
	}
}

// Neg returns -q, which describes the same rotation as q.
func (q Quat) Neg() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
}

// Dot returns the four-component dot product.
func (q Quat) Dot(other Quat) float64 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Nearest returns whichever of q and -q lies in the same hemisphere as ref.
// Lerping from ref toward the result never passes through zero.
func (q Quat) Nearest(ref Quat) Quat {
	if q.Dot(ref) < 0 {
		return q.Neg()
	}
	return q
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Lerp blends q toward other componentwise by t and normalizes the result.
//
// This is deliberately not a slerp: the animation is a geometric decay of the
// residual, not a constant angular velocity.
func (q Quat) Lerp(other Quat, t float64) Quat {
	return Quat{
		X: q.X + (other.X-q.X)*t,
		Y: q.Y + (other.Y-q.Y)*t,
		Z: q.Z + (other.Z-q.Z)*t,
		W: q.W + (other.W-q.W)*t,
	}.Normalize()
}

// Lerp is the function form of Quat.Lerp.
func Lerp(from, to Quat, t float64) Quat {
	return from.Lerp(to, t)
}

// MaxDiff returns the largest absolute componentwise difference.
func (q Quat) MaxDiff(other Quat) float64 {
	d := math.Abs(q.X - other.X)
	d = math.Max(d, math.Abs(q.Y-other.Y))
	d = math.Max(d, math.Abs(q.Z-other.Z))
	return math.Max(d, math.Abs(q.W-other.W))
}

// ApproxEqual reports whether every component differs by less than eps.
func (q Quat) ApproxEqual(other Quat, eps float64) bool {
	return math.Abs(q.X-other.X) < eps &&
		math.Abs(q.Y-other.Y) < eps &&
		math.Abs(q.Z-other.Z) < eps &&
		math.Abs(q.W-other.W) < eps
}

// SameRotation reports whether q and other describe the same rotation
// within eps, treating q and -q as equal.
func (q Quat) SameRotation(other Quat, eps float64) bool {
	return q.ApproxEqual(other, eps) || q.ApproxEqual(other.Neg(), eps)
}

// Mat4 converts the quaternion to an affine 4x4 rotation matrix.
// The quaternion is used as given, so it should already be normalized.
func (q Quat) Mat4() Mat4 {
	xx := q.X * q.X
	yy := q.Y * q.Y
	zz := q.Z * q.Z
	xy := q.X * q.Y
	yz := q.Y * q.Z
	xz := q.X * q.Z
	xw := q.X * q.W
	yw := q.Y * q.W
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return q.Mat4().MulVec3(v)
}
