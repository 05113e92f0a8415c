// Package render turns triangle meshes into glyph frames.
package render

import "strings"

// FarDepth is the depth-buffer sentinel meaning "nothing drawn yet this
// frame". It coincides with the far plane in NDC.
const FarDepth = 1.0

// Framebuffer is a row-major grid of glyphs with a matching depth buffer.
// Glyphs and depths live in one object so their dimensions cannot diverge.
type Framebuffer struct {
	Width  int       // Columns (terminal width)
	Height int       // Rows (terminal height)
	Glyphs []byte    // Row-major glyph data
	Depth  []float64 // Row-major depth, FarDepth when empty
}

// NewFramebuffer allocates a framebuffer filled with bg at FarDepth.
// Negative dimensions are treated as zero.
func NewFramebuffer(width, height int, bg byte) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Glyphs: make([]byte, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.Clear(bg)
	return fb
}

// Clear resets every glyph to bg and every depth to FarDepth, in place.
func (fb *Framebuffer) Clear(bg byte) {
	n := len(fb.Glyphs)
	if n == 0 {
		return
	}
	// Copy-doubling is faster than a per-element loop for large grids.
	fb.Glyphs[0] = bg
	fb.Depth[0] = FarDepth
	for i := 1; i < n; i *= 2 {
		copy(fb.Glyphs[i:], fb.Glyphs[:i])
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// Row returns row y of the glyph grid. The slice aliases the framebuffer.
func (fb *Framebuffer) Row(y int) []byte {
	return fb.Glyphs[y*fb.Width : (y+1)*fb.Width]
}

// GlyphAt returns the glyph at (x, y), or 0 if out of bounds.
func (fb *Framebuffer) GlyphAt(x, y int) byte {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0
	}
	return fb.Glyphs[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y), or FarDepth if out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return FarDepth
	}
	return fb.Depth[y*fb.Width+x]
}

// SetGlyph writes a glyph without touching the depth buffer.
// Bounds checking is performed.
func (fb *Framebuffer) SetGlyph(x, y int, g byte) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Glyphs[y*fb.Width+x] = g
}

// depthTest writes g at cell i when z is nearer than both the far plane and
// the stored depth. The caller guarantees i is in range.
func (fb *Framebuffer) depthTest(i int, z float64, g byte) {
	if z < FarDepth && z < fb.Depth[i] {
		fb.Depth[i] = z
		fb.Glyphs[i] = g
	}
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, g byte) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetGlyph(x0, y0, g)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// String returns the glyph grid as text, rows separated by '\n'.
func (fb *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow(len(fb.Glyphs) + fb.Height)
	for y := range fb.Height {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.Write(fb.Row(y))
	}
	return sb.String()
}
