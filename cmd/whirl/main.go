// whirl - spinning ASCII-art mesh viewer
// Renders an OBJ or glTF mesh as a rotating, shaded character grid sized to
// the terminal.
//
// Backends:
//
//	stream    - write frames to stdout as plain text (default)
//	screen    - draw into the alternate screen; q, Esc or Ctrl+C quits
//	headless  - render --frames frames at --size and print the last one
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/whirl/pkg/display"
	"github.com/taigrr/whirl/pkg/models"
	"github.com/taigrr/whirl/pkg/render"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := defaultOptions()
	cmd := &cobra.Command{
		Use:   "whirl <model.obj|model.glb|model.gltf>",
		Short: "Spin a 3D mesh as ASCII art in your terminal",
		Long: "whirl loads a triangle mesh once and renders it rotating about a fixed axis,\n" +
			"shading each face with a glyph from a brightness ramp.",
		Example: "  whirl teapot.obj\n" +
			"  whirl --fit 4 --axis 1,1,0 --backend screen model.glb\n" +
			"  whirl --backend headless --size 100x40 --frames 30 cube.obj",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	opts.register(cmd)
	return cmd
}

func run(ctx context.Context, cfg config, path string, stdout, stderr io.Writer) error {
	logger := log.NewWithOptions(stderr, log.Options{Level: cfg.level, Prefix: "whirl"})

	mesh, err := models.Load(path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if cfg.fit > 0 {
		mesh.Fit(cfg.fit)
	}
	logger.Info("loaded",
		"file", filepath.Base(path),
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
	)
	if mesh.TriangleCount() == 0 {
		logger.Warn("mesh has no triangles, frames will be blank")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		sink     display.Sink
		recorder *display.Recorder
	)
	switch cfg.backend {
	case backendScreen:
		var uvLogger uv.Logger
		if cfg.level <= log.DebugLevel {
			uvLogger = logger.WithPrefix("uv")
		}
		scr, err := display.OpenTerminal(uvLogger)
		if err != nil {
			return fmt.Errorf("open screen: %w", err)
		}
		defer func() {
			if err := scr.Close(); err != nil {
				logger.Error("restore terminal", "err", err)
			}
		}()
		scr.Watch(ctx, cancel)
		sink = scr
	case backendHeadless:
		recorder = display.NewRecorder(cfg.size)
		sink = recorder
	default:
		stream, err := display.NewStdout()
		if err != nil {
			return fmt.Errorf("open stream: %w (try --backend headless)", err)
		}
		sink = stream
	}

	engine := newEngine(sink, mesh, cfg)
	engine.Logger = logger
	if err := engine.Run(ctx, cfg.frames); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	s := engine.Stats()
	logger.Debug("finished",
		"frames", s.Frames,
		"reallocations", s.Reallocations,
		"projections", s.ProjectionUpdates,
		"overruns", s.Overruns,
	)

	if recorder != nil {
		if _, err := fmt.Fprintln(stdout, recorder.Last()); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	return nil
}

// newEngine builds a render engine from cfg.
func newEngine(sink display.Sink, geom render.Geometry, cfg config) *render.Engine {
	e := render.NewEngine(sink, geom, cfg.fps)
	e.Camera.Offset = cfg.camera
	e.Camera.SetFOV(cfg.fov)

	e.Rotation = render.NewRotation(cfg.axis, cfg.step)
	if cfg.spinUp {
		e.Rotation.EnableSpinUp(cfg.fps)
	}

	e.Shader.Light = cfg.light
	e.Shader.Ramp = cfg.ramp
	e.Shader.Normalized = cfg.normalized
	e.Background = cfg.background

	e.Rasterizer.Sweep = cfg.sweep
	e.Rasterizer.Workers = cfg.workers
	e.Wireframe = cfg.wireframe
	return e
}
