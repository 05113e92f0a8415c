package render

import (
	"errors"
	"math"

	"github.com/taigrr/whirl/pkg/math3d"
)

// DefaultRampGlyphs orders glyphs from sparsest to densest.
const DefaultRampGlyphs = " .,:ilwW"

// ErrEmptyRamp is returned when a ramp has no glyphs.
var ErrEmptyRamp = errors.New("ramp must contain at least one glyph")

// Ramp maps luminance in [0, 1] to a glyph.
type Ramp []byte

// NewRamp validates glyphs and returns them as a ramp.
func NewRamp(glyphs string) (Ramp, error) {
	if glyphs == "" {
		return nil, ErrEmptyRamp
	}
	for i := 0; i < len(glyphs); i++ {
		if c := glyphs[i]; c < ' ' || c > '~' {
			return nil, errors.New("ramp glyphs must be printable ASCII")
		}
	}
	return Ramp(glyphs), nil
}

// DefaultRamp returns a fresh copy of the reference ramp.
func DefaultRamp() Ramp {
	return Ramp(DefaultRampGlyphs)
}

// Index returns floor(l * (len-1)) clamped to the ramp. NaN maps to 0.
func (r Ramp) Index(l float64) int {
	last := len(r) - 1
	if last <= 0 || !(l > 0) {
		return 0
	}
	if l >= 1 {
		return last
	}
	return min(int(l*float64(last)), last)
}

// Glyph returns the glyph for luminance l.
func (r Ramp) Glyph(l float64) byte {
	return r[r.Index(l)]
}

// DefaultLight returns the reference light direction.
func DefaultLight() math3d.Vec3 {
	return math3d.V3(-0.4, -0.4, -1).Normalize()
}

// Shader computes flat per-triangle luminance against a single directional light.
type Shader struct {
	Light math3d.Vec3
	Ramp  Ramp

	// Normalized uses a unit face normal. Off by default: the unnormalized
	// normal makes larger on-screen faces render brighter.
	Normalized bool
}

// NewShader creates a shader with the default light and ramp.
func NewShader() *Shader {
	return &Shader{Light: DefaultLight(), Ramp: DefaultRamp()}
}

// Luminance returns clamp((1 - light.n) / 2, 0, 1) where n is the face normal
// of the clip-space triangle, w ignored.
func (s *Shader) Luminance(tri [3]math3d.Vec4) float64 {
	v0, v1, v2 := tri[0].Vec3(), tri[1].Vec3(), tri[2].Vec3()
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	if s.Normalized {
		n = n.Normalize()
	}
	l := (1 - s.Light.Dot(n)) / 2
	if math.IsNaN(l) {
		return 0
	}
	return math.Max(0, math.Min(1, l))
}

// Shade returns the glyph for tri.
func (s *Shader) Shade(tri [3]math3d.Vec4) byte {
	return s.Ramp.Glyph(s.Luminance(tri))
}
