package render

import (
	"math"

	"github.com/taigrr/whirl/pkg/math3d"
)

// Camera holds the fixed view transform and the perspective projection.
type Camera struct {
	// Offset is the view translation applied to world space. The default
	// (0, -1, -10) places the model ten units in front of the eye.
	Offset math3d.Vec3

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	projMatrix  math3d.Mat4
	projDirty   bool
	projUpdates int
}

// NewCamera creates a camera with the default view and a 60 degree FOV.
func NewCamera() *Camera {
	return &Camera{
		Offset:      math3d.V3(0, -1, -10),
		FOV:         math.Pi / 3,
		AspectRatio: 1,
		Near:        0.1,
		Far:         100,
		projDirty:   true,
	}
}

// SetAspectRatio sets the aspect ratio. The projection is rebuilt on the
// next ProjectionMatrix call.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.Translate(c.Offset)
}

// ProjectionMatrix returns the projection matrix, recomputing it only when a
// projection parameter changed.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
		c.projUpdates++
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// ProjectionUpdates reports how many times the projection was rebuilt.
func (c *Camera) ProjectionUpdates() int {
	return c.projUpdates
}
