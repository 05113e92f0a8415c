package render

import (
	"math"

	"github.com/taigrr/whirl/pkg/math3d"
)

// DrawWireframe outlines a clip-space triangle with Bresenham lines. Outlines
// are not depth tested, so hidden edges show through.
func (r *Rasterizer) DrawWireframe(tri [3]math3d.Vec4, glyph byte) bool {
	if r.empty() {
		return false
	}
	w, h := float64(r.fb.Width), float64(r.fb.Height)
	// Endpoints this far off screen come from vertices close to the eye plane.
	limit := 4 * (w + h)

	var pts [3][2]int
	for i, v := range tri {
		p, ok := v.PerspectiveDivide()
		if !ok {
			r.Stats.Skipped++
			return false
		}
		s := toScreen(p, w, h)
		if math.Abs(s.X) > limit || math.Abs(s.Y) > limit {
			r.Stats.Skipped++
			return false
		}
		pts[i] = [2]int{int(math.Round(s.X)), int(math.Round(s.Y))}
	}

	r.Stats.Drawn++
	for i := range 3 {
		a, b := pts[i], pts[(i+1)%3]
		r.fb.DrawLine(a[0], a[1], b[0], b[1], glyph)
	}
	return true
}
