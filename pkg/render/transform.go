package render

import "github.com/taigrr/whirl/pkg/math3d"

// Geometry supplies triangles in object space. It mirrors models.Mesh so the
// render package does not import models.
type Geometry interface {
	TriangleCount() int
	Triangle(i int) [3]math3d.Vec4
}

// Transform maps an object-space vertex to clip space.
func Transform(v math3d.Vec4, m math3d.Mat4) math3d.Vec4 {
	return m.MulVec4(v)
}

// TransformTriangle maps all three vertices of tri to clip space.
func TransformTriangle(tri [3]math3d.Vec4, m math3d.Mat4) [3]math3d.Vec4 {
	return [3]math3d.Vec4{Transform(tri[0], m), Transform(tri[1], m), Transform(tri[2], m)}
}
