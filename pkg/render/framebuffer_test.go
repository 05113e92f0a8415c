package render

import "testing"

func TestNewFramebuffer(t *testing.T) {
	fb := NewFramebuffer(4, 3, '.')
	if len(fb.Glyphs) != 12 || len(fb.Depth) != 12 {
		t.Fatalf("buffer lengths = %d, %d, want 12", len(fb.Glyphs), len(fb.Depth))
	}
	for i := range fb.Glyphs {
		if fb.Glyphs[i] != '.' || fb.Depth[i] != FarDepth {
			t.Fatalf("cell %d not cleared", i)
		}
	}

	neg := NewFramebuffer(-2, 5, ' ')
	if neg.Width != 0 || len(neg.Glyphs) != 0 {
		t.Errorf("negative width should yield an empty buffer, got %dx%d", neg.Width, neg.Height)
	}
}

func TestFramebufferClear(t *testing.T) {
	fb := NewFramebuffer(7, 5, ' ')
	for i := range fb.Glyphs {
		fb.Glyphs[i] = '#'
		fb.Depth[i] = -0.3
	}
	fb.Clear('~')
	for i := range fb.Glyphs {
		if fb.Glyphs[i] != '~' || fb.Depth[i] != FarDepth {
			t.Fatalf("cell %d = %q/%v after Clear", i, fb.Glyphs[i], fb.Depth[i])
		}
	}
}

func TestFramebufferAccessors(t *testing.T) {
	fb := NewFramebuffer(3, 2, ' ')
	fb.SetGlyph(2, 1, 'x')
	fb.SetGlyph(3, 1, 'y') // out of bounds, ignored
	fb.SetGlyph(-1, 0, 'y')

	if got := fb.GlyphAt(2, 1); got != 'x' {
		t.Errorf("GlyphAt(2,1) = %q", got)
	}
	if got := fb.GlyphAt(5, 5); got != 0 {
		t.Errorf("out-of-bounds GlyphAt = %q, want 0", got)
	}
	if got := fb.DepthAt(-1, 0); got != FarDepth {
		t.Errorf("out-of-bounds DepthAt = %v", got)
	}
	if got := string(fb.Row(1)); got != "  x" {
		t.Errorf("Row(1) = %q", got)
	}
	if got := fb.String(); got != "   \n  x" {
		t.Errorf("String() = %q", got)
	}
}

func TestDepthTestStrict(t *testing.T) {
	fb := NewFramebuffer(1, 1, ' ')
	fb.depthTest(0, FarDepth, 'a')
	if fb.Glyphs[0] != ' ' {
		t.Error("depth equal to the far plane must not be written")
	}
	fb.depthTest(0, 0.2, 'b')
	fb.depthTest(0, 0.2, 'c')
	if fb.Glyphs[0] != 'b' {
		t.Errorf("equal depth overwrote the cell: %q", fb.Glyphs[0])
	}
	fb.depthTest(0, -0.1, 'd')
	if fb.Glyphs[0] != 'd' || fb.Depth[0] != -0.1 {
		t.Errorf("nearer depth not written: %q/%v", fb.Glyphs[0], fb.Depth[0])
	}
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           string
	}{
		{"horizontal", 0, 1, 3, 1, "    \n####\n    "},
		{"vertical", 2, 0, 2, 2, "  # \n  # \n  # "},
		{"diagonal", 0, 0, 2, 2, "#   \n #  \n  # "},
		{"reversed", 3, 2, 1, 0, " #  \n  # \n   #"},
		{"clipped", -2, 1, 1, 1, "    \n##  \n    "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(4, 3, ' ')
			fb.DrawLine(tc.x0, tc.y0, tc.x1, tc.y1, '#')
			if got := fb.String(); got != tc.want {
				t.Errorf("got\n%s\nwant\n%s", got, tc.want)
			}
		})
	}
}
