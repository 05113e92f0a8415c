package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/whirl/pkg/math3d"
)

func TestRampIndex(t *testing.T) {
	ramp := DefaultRamp()
	tests := []struct {
		l    float64
		want int
	}{
		{0, 0},
		{1, 7},
		{0.5, 3},
		{0.999, 6},
		{-3, 0},
		{42, 7},
		{math.NaN(), 0},
		{math.Inf(1), 7},
		{math.Inf(-1), 0},
	}
	for _, tc := range tests {
		if got := ramp.Index(tc.l); got != tc.want {
			t.Errorf("Index(%v) = %d, want %d", tc.l, got, tc.want)
		}
	}
	if ramp.Glyph(0) != ' ' || ramp.Glyph(1) != 'W' {
		t.Errorf("ramp endpoints = %q, %q", ramp.Glyph(0), ramp.Glyph(1))
	}
}

func TestRampLengths(t *testing.T) {
	one := Ramp("#")
	for _, l := range []float64{0, 0.5, 1} {
		if one.Glyph(l) != '#' {
			t.Errorf("single-glyph ramp at %v = %q", l, one.Glyph(l))
		}
	}

	two := Ramp("-+")
	if two.Glyph(0.99) != '-' || two.Glyph(1) != '+' {
		t.Errorf("two-glyph ramp = %q, %q", two.Glyph(0.99), two.Glyph(1))
	}

	long := Ramp(" .'`^\",:;Il!i><~+_-?][}{1)(|/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$")
	if long.Glyph(1) != '$' || long.Glyph(0) != ' ' {
		t.Errorf("long ramp endpoints = %q, %q", long.Glyph(0), long.Glyph(1))
	}
}

func TestNewRamp(t *testing.T) {
	if _, err := NewRamp(""); !errors.Is(err, ErrEmptyRamp) {
		t.Errorf("empty ramp: err = %v", err)
	}
	if _, err := NewRamp("ab\tc"); err == nil {
		t.Error("control characters should be rejected")
	}
	r, err := NewRamp(" .:#")
	if err != nil || len(r) != 4 {
		t.Errorf("NewRamp = %q, %v", r, err)
	}
}

func TestLuminance(t *testing.T) {
	facing := ndcTriangle(0, 0, 0, 1, 0, 0, 0, 1, 0) // normal (0, 0, 1)

	tests := []struct {
		name       string
		light      math3d.Vec3
		normalized bool
		tri        [3]math3d.Vec4
		want       float64
	}{
		{"head-on", math3d.V3(0, 0, -1), false, facing, 1},
		{"from behind", math3d.V3(0, 0, 1), false, facing, 0},
		{"grazing", math3d.V3(1, 0, 0), false, facing, 0.5},
		// Area 2: unnormalized normal (0, 0, 4) saturates.
		{"large face clamps", math3d.V3(0, 0, 0.5), false,
			ndcTriangle(0, 0, 0, 2, 0, 0, 0, 2, 0), 0},
		{"normalized", math3d.V3(0, 0, 0.5), true,
			ndcTriangle(0, 0, 0, 2, 0, 0, 0, 2, 0), 0.25},
		{"degenerate", math3d.V3(0, 0, -1), false,
			ndcTriangle(0, 0, 0, 1, 1, 0, 2, 2, 0), 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &Shader{Light: tc.light, Ramp: DefaultRamp(), Normalized: tc.normalized}
			if got := s.Luminance(tc.tri); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Luminance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLuminanceIgnoresW(t *testing.T) {
	s := NewShader()
	a := ndcTriangle(0, 0, 0, 1, 0, 0, 0, 1, 0)
	b := a
	for i := range b {
		b[i].W = 7
	}
	if s.Luminance(a) != s.Luminance(b) {
		t.Error("w must not affect shading")
	}
}

func TestDefaultLight(t *testing.T) {
	l := DefaultLight()
	if math.Abs(l.Len()-1) > 1e-12 {
		t.Errorf("light not normalized: %v", l)
	}
	if !(l.X < 0 && l.Y < 0 && l.Z < 0) || l.X != l.Y {
		t.Errorf("unexpected light direction %v", l)
	}
}
