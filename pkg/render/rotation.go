package render

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/whirl/pkg/math3d"
)

// DefaultStep is the per-frame rotation increment: a full turn every 60 frames.
const DefaultStep = math.Pi / 30

// Rotation tracks the model rotation about a fixed axis.
type Rotation struct {
	Axis  math3d.Vec3
	Angle float64 // Radians, kept in [0, 2pi)
	Step  float64 // Radians added per frame

	spin *spinUp
}

// spinUp eases the applied step from zero toward Step.
type spinUp struct {
	spring harmonica.Spring
	speed  float64
	accel  float64 // spring velocity for animating speed
}

// NewRotation creates a rotation about axis starting at angle zero.
func NewRotation(axis math3d.Vec3, step float64) *Rotation {
	return &Rotation{Axis: axis, Step: step}
}

// EnableSpinUp makes the rotation accelerate smoothly from rest instead of
// starting at full speed.
func (r *Rotation) EnableSpinUp(fps int) {
	// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
	r.spin = &spinUp{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Matrix returns the model matrix for the current angle.
func (r *Rotation) Matrix() math3d.Mat4 {
	// Exact basis rotations for the common axes.
	switch r.Axis.Normalize() {
	case math3d.V3(1, 0, 0):
		return math3d.RotateX(r.Angle)
	case math3d.V3(0, 1, 0):
		return math3d.RotateY(r.Angle)
	case math3d.V3(0, 0, 1):
		return math3d.RotateZ(r.Angle)
	}
	return math3d.Rotate(r.Axis, r.Angle)
}

// Speed returns the increment the next Advance will apply.
func (r *Rotation) Speed() float64 {
	if r.spin != nil {
		return r.spin.speed
	}
	return r.Step
}

// Advance moves the angle forward by one frame.
func (r *Rotation) Advance() {
	step := r.Step
	if r.spin != nil {
		step = r.spin.speed
		r.spin.speed, r.spin.accel = r.spin.spring.Update(r.spin.speed, r.spin.accel, r.Step)
	}
	r.Angle = wrapAngle(r.Angle + step)
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
