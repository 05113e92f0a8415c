package render

import (
	"cmp"
	"context"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/whirl/pkg/math3d"
)

// epsilon is the smallest horizontal extent (in screen columns) an edge may
// have before it is treated as vertical, and the smallest |c| of a depth plane.
const epsilon = 1e-9

// Sweep selects the order in which a triangle's cells are visited.
type Sweep int

const (
	// SweepColumns walks each column top to bottom, left to right.
	SweepColumns Sweep = iota
	// SweepRows computes every column span first, then writes row by row.
	SweepRows
)

func (s Sweep) String() string {
	switch s {
	case SweepColumns:
		return "columns"
	case SweepRows:
		return "rows"
	default:
		return "unknown"
	}
}

// RasterStats counts triangles seen by the rasterizer.
type RasterStats struct {
	Drawn   int // Triangles that passed setup
	Skipped int // Degenerate triangles (behind the eye, edge-on, non-finite)
}

// ShadedTriangle is a clip-space triangle paired with its glyph.
type ShadedTriangle struct {
	Clip  [3]math3d.Vec4
	Glyph byte
}

// Rasterizer fills clip-space triangles into a framebuffer with a depth test.
type Rasterizer struct {
	Sweep   Sweep
	Workers int // Row bands rasterized concurrently; <= 1 is serial
	Stats   RasterStats

	fb       *Framebuffer
	prepared []setup
	spans    []span
}

// NewRasterizer creates a serial column-sweep rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb, Workers: 1}
}

// SetFramebuffer retargets the rasterizer, typically after a resize.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
}

// Framebuffer returns the current target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// ResetStats zeroes the triangle counters (call before each frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = RasterStats{}
}

func (r *Rasterizer) empty() bool {
	return r.fb == nil || r.fb.Width == 0 || r.fb.Height == 0
}

// line is y = k*x + b in screen space.
type line struct {
	k, b float64
}

// lineThrough returns the line through p0 and p1, or false when the segment
// is too close to vertical to have a slope.
func lineThrough(p0, p1 math3d.Vec2) (line, bool) {
	dx := p1.X - p0.X
	if math.Abs(dx) < epsilon {
		return line{}, false
	}
	k := (p1.Y - p0.Y) / dx
	l := line{k: k, b: p0.Y - p0.X*k}
	if !math3d.V2(l.k, l.b).IsFinite() {
		return line{}, false
	}
	return l, true
}

func (l line) at(x float64) float64 {
	return l.k*x + l.b
}

// plane is a*x + b*y + c*z + d = 0 in NDC.
type plane struct {
	a, b, c, d float64
}

// planeThrough fits a plane to three NDC points. It fails for zero-area
// triangles and triangles seen edge-on, where depth is not a function of x, y,
// and when the normal overflows.
func planeThrough(p0, p1, p2 math3d.Vec3) (plane, bool) {
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	if !n.IsFinite() || math.Abs(n.Z) < epsilon {
		return plane{}, false
	}
	return plane{a: n.X, b: n.Y, c: n.Z, d: -n.Dot(p0)}, true
}

func (p plane) depth(x, y float64) float64 {
	return -(p.d + p.a*x + p.b*y) / p.c
}

// toScreen maps NDC x, y to fractional screen coordinates, y pointing down.
func toScreen(p math3d.Vec3, w, h float64) math3d.Vec2 {
	return math3d.V2((p.X+1)/2*w, (1-p.Y)/2*h)
}

// setup holds everything derived once per triangle before scanning.
type setup struct {
	long          line // vertex 0 -> 2
	first, second line // vertex 0 -> 1, vertex 1 -> 2
	hasFirst      bool
	hasSecond     bool
	split         float64 // screen x of the middle vertex
	plane         plane
	x0, x1        int // clamped column range [x0, x1)
	glyph         byte
}

// span is a half-open row range [lo, hi) within one column.
type span struct {
	lo, hi int
}

func (r *Rasterizer) prepare(tri [3]math3d.Vec4, glyph byte) (setup, bool) {
	var ndc [3]math3d.Vec3
	for i, v := range tri {
		p, ok := v.PerspectiveDivide()
		if !ok {
			return setup{}, false
		}
		ndc[i] = p
	}
	slices.SortStableFunc(ndc[:], func(a, b math3d.Vec3) int {
		return cmp.Compare(a.X, b.X)
	})

	w, h := float64(r.fb.Width), float64(r.fb.Height)
	s0, s1, s2 := toScreen(ndc[0], w, h), toScreen(ndc[1], w, h), toScreen(ndc[2], w, h)
	if !s0.IsFinite() || !s1.IsFinite() || !s2.IsFinite() {
		return setup{}, false
	}

	st := setup{glyph: glyph, split: s1.X}
	var ok bool
	if st.long, ok = lineThrough(s0, s2); !ok {
		return setup{}, false
	}
	if st.plane, ok = planeThrough(ndc[0], ndc[1], ndc[2]); !ok {
		return setup{}, false
	}
	st.first, st.hasFirst = lineThrough(s0, s1)
	st.second, st.hasSecond = lineThrough(s1, s2)
	st.x0 = clampCeil(s0.X, r.fb.Width)
	st.x1 = clampCeil(s2.X, r.fb.Width)
	return st, true
}

// rows returns the clamped row span covered by column x.
func (st *setup) rows(x, height int) span {
	fx := float64(x)
	top := st.long.at(fx)
	bottom := top
	switch {
	case st.hasFirst && (fx < st.split || !st.hasSecond):
		bottom = st.first.at(fx)
	case st.hasSecond:
		bottom = st.second.at(fx)
	}
	return span{
		lo: clampRound(math.Min(top, bottom), height),
		hi: clampRound(math.Max(top, bottom), height),
	}
}

// clampCeil returns ceil(v) limited to [0, n].
func clampCeil(v float64, n int) int {
	c := math.Ceil(v)
	switch {
	case !(c > 0):
		return 0
	case c >= float64(n):
		return n
	}
	return int(c)
}

// clampRound returns round(v) limited to [0, n].
func clampRound(v float64, n int) int {
	c := math.Round(v)
	switch {
	case !(c > 0):
		return 0
	case c >= float64(n):
		return n
	}
	return int(c)
}

// plot depth-tests cell (x, y) against st, sampling the plane at the cell's
// top-left corner.
func (r *Rasterizer) plot(st *setup, x, y int) {
	fb := r.fb
	ndcX := float64(x)/float64(fb.Width)*2 - 1
	ndcY := 1 - float64(y)/float64(fb.Height)*2
	fb.depthTest(y*fb.Width+x, st.plane.depth(ndcX, ndcY), st.glyph)
}

// scan fills the part of st that lies in rows [y0, y1). spans is scratch
// space for the row sweep and is returned for reuse.
func (r *Rasterizer) scan(st *setup, y0, y1 int, spans []span) []span {
	h := r.fb.Height
	if r.Sweep != SweepRows {
		for x := st.x0; x < st.x1; x++ {
			sp := st.rows(x, h)
			for y := max(sp.lo, y0); y < min(sp.hi, y1); y++ {
				r.plot(st, x, y)
			}
		}
		return spans
	}

	spans = spans[:0]
	top, bottom := y1, y0
	for x := st.x0; x < st.x1; x++ {
		sp := st.rows(x, h)
		sp.lo, sp.hi = max(sp.lo, y0), min(sp.hi, y1)
		spans = append(spans, sp)
		if sp.lo < sp.hi {
			top, bottom = min(top, sp.lo), max(bottom, sp.hi)
		}
	}
	for y := top; y < bottom; y++ {
		for i, sp := range spans {
			if y >= sp.lo && y < sp.hi {
				r.plot(st, st.x0+i, y)
			}
		}
	}
	return spans
}

// DrawTriangle rasterizes one clip-space triangle. It reports false when the
// triangle was skipped as degenerate.
func (r *Rasterizer) DrawTriangle(tri [3]math3d.Vec4, glyph byte) bool {
	if r.empty() {
		return false
	}
	st, ok := r.prepare(tri, glyph)
	if !ok {
		r.Stats.Skipped++
		return false
	}
	r.Stats.Drawn++
	r.spans = r.scan(&st, 0, r.fb.Height, r.spans)
	return true
}

// DrawTriangles rasterizes a batch. With Workers > 1 the rows are split into
// bands that are filled concurrently; every band visits every triangle, so
// the result matches the serial order exactly.
func (r *Rasterizer) DrawTriangles(ctx context.Context, tris []ShadedTriangle) error {
	if r.empty() {
		return nil
	}

	r.prepared = r.prepared[:0]
	for _, t := range tris {
		st, ok := r.prepare(t.Clip, t.Glyph)
		if !ok {
			r.Stats.Skipped++
			continue
		}
		r.Stats.Drawn++
		r.prepared = append(r.prepared, st)
	}

	height := r.fb.Height
	bands := min(max(r.Workers, 1), height)
	if bands == 1 {
		for i := range r.prepared {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.spans = r.scan(&r.prepared[i], 0, height, r.spans)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	rowsPerBand := (height + bands - 1) / bands
	for y0 := 0; y0 < height; y0 += rowsPerBand {
		y1 := min(y0+rowsPerBand, height)
		g.Go(func() error {
			var spans []span
			for i := range r.prepared {
				if err := gctx.Err(); err != nil {
					return err
				}
				spans = r.scan(&r.prepared[i], y0, y1, spans)
			}
			return nil
		})
	}
	return g.Wait()
}
