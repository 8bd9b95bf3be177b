package math

// Transform is a translation, rotation and scale, applied scale first.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: One}
}

// FromXYZ returns an identity transform moved to (x, y, z).
func FromXYZ(x, y, z float32) Transform {
	t := IdentityTransform()
	t.Translation = Vec3{x, y, z}
	return t
}

// Matrix returns the column-major matrix T * R * S.
func (t Transform) Matrix() Mat4 {
	m := t.Rotation.ToMat4()
	for col := 0; col < 3; col++ {
		s := [3]float32{t.Scale.X, t.Scale.Y, t.Scale.Z}[col]
		m[col*4+0] *= s
		m[col*4+1] *= s
		m[col*4+2] *= s
	}
	m[12] = t.Translation.X
	m[13] = t.Translation.Y
	m[14] = t.Translation.Z
	return m
}

// TransformVec3 applies the transform to a point.
func (t Transform) TransformVec3(v Vec3) Vec3 {
	return t.Rotation.Rotate(Vec3{v.X * t.Scale.X, v.Y * t.Scale.Y, v.Z * t.Scale.Z}).Add(t.Translation)
}
