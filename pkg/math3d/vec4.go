package math3d

// Vec4 represents a homogeneous 3D point.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 creates a Vec4 from Vec3 with the given W.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Point returns v as a homogeneous point (w=1).
func Point(v Vec3) Vec4 {
	return V4FromV3(v, 1)
}

// Vec3 drops the W component.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Sub returns the component-wise difference a - b, W included.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// PerspectiveDivide returns (x/w, y/w, z/w).
// ok is false when w is not strictly positive or the result is not finite;
// such a point lies behind the eye and has no screen position.
func (v Vec4) PerspectiveDivide() (p Vec3, ok bool) {
	if !(v.W > 0) || !finite(v.W) {
		return Vec3{}, false
	}
	p = Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
	return p, p.IsFinite()
}
