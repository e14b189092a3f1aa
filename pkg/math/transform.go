package math

// Transform is a rigid pose: a position and an orientation.
type Transform struct {
	Position    Vec3
	Orientation Quat
}

// TransformIdentity returns the pose at the origin with no rotation.
func TransformIdentity() Transform {
	return Transform{Orientation: QuatIdentity()}
}

// NewTransform builds a transform from a position and a rotation.
func NewTransform(position Vec3, orientation Quat) Transform {
	return Transform{Position: position, Orientation: orientation}
}

// Mul returns t applied after child (child expressed in t's frame).
func (t Transform) Mul(child Transform) Transform {
	return Transform{
		Position:    t.Position.Add(t.Orientation.Rotate(child.Position)),
		Orientation: t.Orientation.Mul(child.Orientation).Normalize(),
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	inv := t.Orientation.Conjugate()
	return Transform{
		Position:    inv.Rotate(t.Position.Negate()),
		Orientation: inv,
	}
}

// TransformPoint maps a point from t's local frame into the parent frame.
func (t Transform) TransformPoint(p Vec3) Vec3 {
	return t.Position.Add(t.Orientation.Rotate(p))
}

// InverseTransformPoint maps a parent-frame point into t's local frame.
func (t Transform) InverseTransformPoint(p Vec3) Vec3 {
	return t.Orientation.Conjugate().Rotate(p.Sub(t.Position))
}
