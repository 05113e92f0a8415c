package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/taigrr/whirl/pkg/display"
	"github.com/taigrr/whirl/pkg/math3d"
)

// Clock abstracts wall time so frame pacing can be tested.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// FrameStats summarises the frames rendered so far. Drawn and Skipped refer
// to the most recent frame.
type FrameStats struct {
	Frames            int
	Reallocations     int
	ProjectionUpdates int
	Drawn             int
	Skipped           int
	Overruns          int // Frames that took longer than the period
}

// Engine drives the per-frame pipeline: size, clear, transform, shade,
// rasterize, present, advance, sleep.
type Engine struct {
	Camera     *Camera
	Rotation   *Rotation
	Shader     *Shader
	Rasterizer *Rasterizer

	Period     time.Duration // Target frame period; 0 disables pacing
	Background byte
	Wireframe  bool
	Logger     *log.Logger // Optional; frame stats are logged at debug level

	sink   display.Sink
	geom   Geometry
	clock  Clock
	fb     *Framebuffer
	sized  bool
	batch  []ShadedTriangle
	stats  FrameStats
	logged time.Time
	logAt  int
}

// NewEngine creates an engine with the default camera, rotation about Y and
// shading, paced at fps frames per second.
func NewEngine(sink display.Sink, geom Geometry, fps int) *Engine {
	var period time.Duration
	if fps > 0 {
		period = time.Second / time.Duration(fps)
	}
	shader := NewShader()
	return &Engine{
		Camera:     NewCamera(),
		Rotation:   NewRotation(math3d.V3(0, 1, 0), DefaultStep),
		Shader:     shader,
		Rasterizer: NewRasterizer(nil),
		Period:     period,
		Background: shader.Ramp[0],
		sink:       sink,
		geom:       geom,
		clock:      wallClock{},
	}
}

// SetClock replaces the wall clock.
func (e *Engine) SetClock(c Clock) {
	e.clock = c
}

// Framebuffer returns the buffer of the most recent frame.
func (e *Engine) Framebuffer() *Framebuffer {
	return e.fb
}

// Stats returns the running frame statistics.
func (e *Engine) Stats() FrameStats {
	s := e.stats
	s.ProjectionUpdates = e.Camera.ProjectionUpdates()
	return s
}

// resize makes the framebuffer match the sink, reallocating at most once.
func (e *Engine) resize(width, height int) {
	if e.sized && e.fb.Width == width && e.fb.Height == height {
		e.fb.Clear(e.Background)
		return
	}
	e.fb = NewFramebuffer(width, height, e.Background)
	e.Rasterizer.SetFramebuffer(e.fb)
	if width > 0 && height > 0 {
		e.Camera.SetAspectRatio(float64(width) / float64(height))
	}
	e.sized = true
	e.stats.Reallocations++
}

// Frame renders and presents one frame, then sleeps out the rest of the
// period.
func (e *Engine) Frame(ctx context.Context) error {
	start := e.clock.Now()

	width, height, err := e.sink.Size()
	if err != nil {
		return fmt.Errorf("query size: %w", err)
	}
	e.resize(max(width, 0), max(height, 0))

	if err := e.draw(ctx); err != nil {
		return err
	}
	if err := e.present(); err != nil {
		return err
	}

	e.Rotation.Advance()
	e.stats.Frames++

	if e.Period > 0 {
		if elapsed := e.clock.Now().Sub(start); elapsed < e.Period {
			e.clock.Sleep(ctx, e.Period-elapsed)
		} else {
			e.stats.Overruns++
		}
	}
	return nil
}

func (e *Engine) draw(ctx context.Context) error {
	e.Rasterizer.ResetStats()
	if e.fb.Width == 0 || e.fb.Height == 0 {
		e.stats.Drawn, e.stats.Skipped = 0, 0
		return nil
	}

	mvp := e.Camera.ViewProjectionMatrix().Mul(e.Rotation.Matrix())

	e.batch = e.batch[:0]
	for i := range e.geom.TriangleCount() {
		clip := TransformTriangle(e.geom.Triangle(i), mvp)
		e.batch = append(e.batch, ShadedTriangle{Clip: clip, Glyph: e.Shader.Shade(clip)})
	}

	if e.Wireframe {
		for _, t := range e.batch {
			e.Rasterizer.DrawWireframe(t.Clip, t.Glyph)
		}
	} else if err := e.Rasterizer.DrawTriangles(ctx, e.batch); err != nil {
		return err
	}

	e.stats.Drawn = e.Rasterizer.Stats.Drawn
	e.stats.Skipped = e.Rasterizer.Stats.Skipped
	return nil
}

// present writes the rows with a single '\n' between them.
func (e *Engine) present() error {
	if e.fb.Width == 0 || e.fb.Height == 0 {
		return nil
	}
	for y := range e.fb.Height {
		if y > 0 {
			if err := e.sink.WriteByte('\n'); err != nil {
				return fmt.Errorf("write row %d: %w", y, err)
			}
		}
		if err := e.sink.WriteLine(e.fb.Row(y)); err != nil {
			return fmt.Errorf("write row %d: %w", y, err)
		}
	}
	if f, ok := e.sink.(display.Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
	}
	return nil
}

// Run renders frames until n frames are done (n <= 0 runs forever) or ctx is
// cancelled. Cancellation is a normal exit and returns nil.
func (e *Engine) Run(ctx context.Context, n int) error {
	e.logged = e.clock.Now()
	for i := 0; n <= 0 || i < n; i++ {
		if ctx.Err() != nil {
			return nil
		}
		if err := e.Frame(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		}
		e.logStats()
	}
	return nil
}

func (e *Engine) logStats() {
	if e.Logger == nil {
		return
	}
	now := e.clock.Now()
	elapsed := now.Sub(e.logged)
	if elapsed < time.Second {
		return
	}
	s := e.Stats()
	fps := float64(s.Frames-e.logAt) / elapsed.Seconds()
	e.Logger.Debug("frame stats",
		"fps", fmt.Sprintf("%.1f", fps),
		"size", fmt.Sprintf("%dx%d", e.fb.Width, e.fb.Height),
		"drawn", s.Drawn,
		"skipped", s.Skipped,
		"overruns", s.Overruns,
		"reallocations", s.Reallocations,
	)
	e.logged, e.logAt = now, s.Frames
}
