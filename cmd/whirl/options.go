package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/whirl/pkg/display"
	"github.com/taigrr/whirl/pkg/math3d"
	"github.com/taigrr/whirl/pkg/render"
)

// Output backends.
const (
	backendStream   = "stream"
	backendScreen   = "screen"
	backendHeadless = "headless"
)

// options holds raw flag values.
type options struct {
	fps        int
	step       float64
	axis       string
	ramp       string
	background string
	light      string
	camera     string
	fov        float64 // Degrees
	frames     int
	fit        float64
	normalized bool
	sweep      string
	workers    int
	wireframe  bool
	spinUp     bool
	backend    string
	size       string
	logLevel   string
}

func defaultOptions() options {
	return options{
		fps:      15,
		step:     render.DefaultStep,
		axis:     "0,1,0",
		ramp:     render.DefaultRampGlyphs,
		light:    "-0.4,-0.4,-1",
		camera:   "0,-1,-10",
		fov:      60,
		sweep:    render.SweepColumns.String(),
		workers:  1,
		backend:  backendStream,
		size:     "80x24",
		logLevel: "info",
	}
}

func (o *options) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&o.fps, "fps", o.fps, "target frames per second")
	f.Float64Var(&o.step, "step", o.step, "rotation per frame in radians")
	f.StringVar(&o.axis, "axis", o.axis, "rotation axis as x,y,z")
	f.StringVar(&o.ramp, "ramp", o.ramp, "glyphs from sparsest to densest")
	f.StringVar(&o.background, "background", o.background, "background glyph (default: first ramp glyph)")
	f.StringVar(&o.light, "light", o.light, "light direction as x,y,z")
	f.StringVar(&o.camera, "camera", o.camera, "view translation as x,y,z")
	f.Float64Var(&o.fov, "fov", o.fov, "vertical field of view in degrees")
	f.IntVar(&o.frames, "frames", o.frames, "stop after this many frames (0 runs until interrupted)")
	f.Float64Var(&o.fit, "fit", o.fit, "center the mesh and scale its largest dimension to this size (0 keeps it as loaded)")
	f.BoolVar(&o.normalized, "normalized-shading", o.normalized, "shade with unit face normals instead of area-weighted ones")
	f.StringVar(&o.sweep, "sweep", o.sweep, "rasterization order: columns or rows")
	f.IntVar(&o.workers, "workers", o.workers, "row bands rasterized in parallel")
	f.BoolVar(&o.wireframe, "wireframe", o.wireframe, "draw triangle outlines without depth testing")
	f.BoolVar(&o.spinUp, "spin-up", o.spinUp, "ease the rotation in from rest")
	f.StringVar(&o.backend, "backend", o.backend, "output: stream, screen or headless")
	f.StringVar(&o.size, "size", o.size, "grid size for the headless backend as WxH")
	f.StringVar(&o.logLevel, "log-level", o.logLevel, "debug, info, warn or error")
}

// config is the validated form of options.
type config struct {
	fps        int
	step       float64
	axis       math3d.Vec3
	ramp       render.Ramp
	background byte
	light      math3d.Vec3
	camera     math3d.Vec3
	fov        float64 // Radians
	frames     int
	fit        float64
	normalized bool
	sweep      render.Sweep
	workers    int
	wireframe  bool
	spinUp     bool
	backend    string
	size       display.Size
	level      log.Level
}

func (o options) resolve() (config, error) {
	cfg := config{
		fps:        o.fps,
		step:       o.step,
		frames:     o.frames,
		fit:        o.fit,
		normalized: o.normalized,
		workers:    o.workers,
		wireframe:  o.wireframe,
		spinUp:     o.spinUp,
		backend:    o.backend,
	}

	if o.fps < 1 {
		return cfg, fmt.Errorf("--fps must be at least 1, got %d", o.fps)
	}
	if o.workers < 1 {
		return cfg, fmt.Errorf("--workers must be at least 1, got %d", o.workers)
	}
	if o.frames < 0 {
		return cfg, fmt.Errorf("--frames must not be negative, got %d", o.frames)
	}
	if o.fit < 0 || math.IsNaN(o.fit) {
		return cfg, fmt.Errorf("--fit must not be negative, got %v", o.fit)
	}
	if math.IsNaN(o.step) || math.IsInf(o.step, 0) {
		return cfg, fmt.Errorf("--step must be finite, got %v", o.step)
	}
	if !(o.fov > 0 && o.fov < 180) {
		return cfg, fmt.Errorf("--fov must be between 0 and 180 degrees, got %v", o.fov)
	}
	cfg.fov = o.fov * math.Pi / 180

	var err error
	if cfg.axis, err = parseVec3(o.axis); err != nil {
		return cfg, fmt.Errorf("--axis: %w", err)
	}
	if cfg.axis.Len() == 0 {
		return cfg, errors.New("--axis must not be the zero vector")
	}
	if cfg.light, err = parseVec3(o.light); err != nil {
		return cfg, fmt.Errorf("--light: %w", err)
	}
	if cfg.light.Len() == 0 {
		return cfg, errors.New("--light must not be the zero vector")
	}
	cfg.light = cfg.light.Normalize()
	if cfg.camera, err = parseVec3(o.camera); err != nil {
		return cfg, fmt.Errorf("--camera: %w", err)
	}

	if cfg.ramp, err = render.NewRamp(o.ramp); err != nil {
		return cfg, fmt.Errorf("--ramp: %w", err)
	}
	switch len(o.background) {
	case 0:
		cfg.background = cfg.ramp[0]
	case 1:
		if _, err := render.NewRamp(o.background); err != nil {
			return cfg, fmt.Errorf("--background: %w", err)
		}
		cfg.background = o.background[0]
	default:
		return cfg, fmt.Errorf("--background must be a single glyph, got %q", o.background)
	}

	switch o.sweep {
	case render.SweepColumns.String():
		cfg.sweep = render.SweepColumns
	case render.SweepRows.String():
		cfg.sweep = render.SweepRows
	default:
		return cfg, fmt.Errorf("--sweep must be columns or rows, got %q", o.sweep)
	}

	switch o.backend {
	case backendStream, backendScreen:
	case backendHeadless:
		if cfg.size, err = parseSize(o.size); err != nil {
			return cfg, fmt.Errorf("--size: %w", err)
		}
		// Recorded frames are kept in memory, so headless runs are finite.
		if cfg.frames == 0 {
			cfg.frames = 1
		}
	default:
		return cfg, fmt.Errorf("--backend must be stream, screen or headless, got %q", o.backend)
	}

	if cfg.level, err = log.ParseLevel(o.logLevel); err != nil {
		return cfg, fmt.Errorf("--log-level: %w", err)
	}
	return cfg, nil
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (math3d.Vec3, error) {
	var v math3d.Vec3
	if strings.Count(s, ",") != 2 {
		return v, fmt.Errorf("invalid vector %q (use x,y,z)", s)
	}
	if _, err := fmt.Sscanf(s, "%f,%f,%f", &v.X, &v.Y, &v.Z); err != nil {
		return v, fmt.Errorf("invalid vector %q (use x,y,z): %w", s, err)
	}
	if !v.IsFinite() {
		return v, fmt.Errorf("invalid vector %q: components must be finite", s)
	}
	return v, nil
}

// parseSize parses "WxH".
func parseSize(s string) (display.Size, error) {
	var size display.Size
	if _, err := fmt.Sscanf(s, "%dx%d", &size.Width, &size.Height); err != nil {
		return size, fmt.Errorf("invalid size %q (use WxH): %w", s, err)
	}
	if size.Width < 1 || size.Height < 1 {
		return size, fmt.Errorf("invalid size %q: both dimensions must be positive", s)
	}
	return size, nil
}
