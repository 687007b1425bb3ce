package math

// Transform is a rigid pose: a rotation followed by a translation.
// It is the anchor-space building block: an anchor carries its origin
// transform in world space, and sub-parts carry transforms relative to
// that origin.
type Transform struct {
	Position Vec3
	Rotation Quat
}

// TransformIdentity returns the identity pose.
func TransformIdentity() Transform {
	return Transform{Rotation: QuatIdentity()}
}

// Mul composes two transforms: the receiver is applied last.
// origin.Mul(local) maps local-space coordinates into the space the
// origin transform lives in (world = origin then local, O∘J order).
func (t Transform) Mul(other Transform) Transform {
	return Transform{
		Position: t.Position.Add(t.Rotation.RotateVec3(other.Position)),
		Rotation: t.Rotation.Mul(other.Rotation),
	}
}

// TransformPoint maps a point through this pose.
func (t Transform) TransformPoint(p Vec3) Vec3 {
	return t.Position.Add(t.Rotation.RotateVec3(p))
}

// Mat4 expands the pose to a 4x4 matrix.
func (t Transform) Mat4() Mat4 {
	m := t.Rotation.ToMat4()
	m[12] = t.Position.X
	m[13] = t.Position.Y
	m[14] = t.Position.Z
	return m
}

// IsFinite reports whether the pose contains only finite numbers.
func (t Transform) IsFinite() bool {
	return t.Position.IsFinite() &&
		Vec3{t.Rotation.X, t.Rotation.Y, t.Rotation.Z}.IsFinite() &&
		(Vec3{X: t.Rotation.W}).IsFinite()
}
