package render

import (
	"math"
	"testing"

	"github.com/taigrr/whirl/pkg/math3d"
)

func TestCameraProjectionCached(t *testing.T) {
	c := NewCamera()
	if c.ProjectionUpdates() != 0 {
		t.Fatal("projection built before first use")
	}

	c.ProjectionMatrix()
	c.ProjectionMatrix()
	c.ViewProjectionMatrix()
	if got := c.ProjectionUpdates(); got != 1 {
		t.Errorf("ProjectionUpdates = %d, want 1", got)
	}

	c.SetAspectRatio(2)
	c.SetAspectRatio(3) // coalesced into one rebuild
	m := c.ProjectionMatrix()
	if got := c.ProjectionUpdates(); got != 2 {
		t.Errorf("ProjectionUpdates = %d, want 2", got)
	}
	if want := math3d.Perspective(math.Pi/3, 3, 0.1, 100); m != want {
		t.Error("projection does not use the latest aspect ratio")
	}
}

func TestCameraView(t *testing.T) {
	c := NewCamera()
	p := c.ViewMatrix().MulVec3(math3d.V3(0, 0, 0))
	if p != math3d.V3(0, -1, -10) {
		t.Errorf("origin in view space = %v, want (0, -1, -10)", p)
	}

	// The origin lands slightly below the centre of the screen.
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4(0, 0, 0, 1))
	ndc, ok := clip.PerspectiveDivide()
	if !ok {
		t.Fatal("origin should be in front of the eye")
	}
	if ndc.X != 0 || ndc.Y >= 0 || ndc.Z <= -1 || ndc.Z >= 1 {
		t.Errorf("origin NDC = %v", ndc)
	}
}

func TestCameraSetters(t *testing.T) {
	c := NewCamera()
	c.ProjectionMatrix()
	c.SetFOV(math.Pi / 2)
	c.SetClipPlanes(1, 10)
	if m := c.ProjectionMatrix(); m != math3d.Perspective(math.Pi/2, 1, 1, 10) {
		t.Error("setters not applied")
	}
	if c.ProjectionUpdates() != 2 {
		t.Errorf("ProjectionUpdates = %d, want 2", c.ProjectionUpdates())
	}
}
