package math

import "github.com/chewxy/math32"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuatFromEuler builds a rotation from Euler angles in degrees, applied
// roll (Z) first, then pitch (X), then yaw (Y).
func QuatFromEuler(pitch, yaw, roll float32) Quat {
	qx := QuatFromAxisAngle(Vec3{X: 1}, Deg2Rad(pitch))
	qy := QuatFromAxisAngle(Vec3{Y: 1}, Deg2Rad(yaw))
	qz := QuatFromAxisAngle(Vec3{Z: 1}, Deg2Rad(roll))
	return qy.Mul(qx).Mul(qz)
}

// IsIdentity reports whether q is exactly the identity rotation.
func (q Quat) IsIdentity() bool {
	return q == QuatIdentity()
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math32.Sqrt(q.Dot(q))
	if length < 0.0001 {
		return QuatIdentity()
	}
	inv := 1 / length
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Conjugate returns the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Mul multiplies two quaternions (applies other, then q).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// TwistAngle returns the signed rotation angle of q about axis, in radians,
// using a swing-twist decomposition. axis must be normalized.
func (q Quat) TwistAngle(axis Vec3) float32 {
	p := Vec3{q.X, q.Y, q.Z}.Dot(axis)
	if p == 0 && q.W == 0 {
		return 0
	}
	return WrapAngle(2 * math32.Atan2(p, q.W))
}

// NearEqual reports whether q and other describe the same rotation within eps.
func (q Quat) NearEqual(other Quat, eps float32) bool {
	return math32.Abs(math32.Abs(q.Dot(other))-1) <= eps
}
