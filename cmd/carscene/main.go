package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"car-scene/frame"
	"car-scene/input"
	"car-scene/internal/config"
	"car-scene/internal/headless"
	"car-scene/internal/logging"
	"car-scene/internal/opengl"
	"car-scene/renderer"
	"car-scene/scene"
	"car-scene/sim"
	"car-scene/window"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "carscene: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.NewFlagSet("carscene")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := config.BindFlags(fs); err != nil {
		return err
	}
	path, _ := fs.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, nil)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	logger.Info().
		Str("profile", cfg.Profile).
		Str("policy", cfg.Policy.String()).
		Bool("headless", cfg.Headless.Enabled).
		Msg("starting car scene")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Headless.Enabled {
		err = runHeadless(ctx, cfg, logger)
	} else {
		err = runWindowed(ctx, cfg, logger)
	}
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("interrupted")
		return nil
	}
	return err
}

// ── Windowed ──────────────────────────────────────────────────────────────────

func runWindowed(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	kb := input.NewKeyboard()

	win, err := window.New(window.Config{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: true,
		VSync:     cfg.Window.VSync,
	}, kb)
	if err != nil {
		return &renderer.InitializationError{Stage: "window", Err: err}
	}
	defer win.Destroy()

	dev, err := opengl.New(win, logging.Component(logger, "opengl"))
	if err != nil {
		return &renderer.InitializationError{Stage: "device", Err: err}
	}
	defer dev.Destroy()

	overlay := renderer.NewStatusOverlay(cfg.Window.Title, win)

	d, st, err := assemble(cfg, logger, assembly{
		device:   dev,
		source:   win,
		keyboard: kb,
		viewport: win.GetFramebufferSize,
		interval: cfg.Interval,
		aspect:   float32(cfg.Window.Width) / float32(cfg.Window.Height),
		sink:     overlay,
	})
	if err != nil {
		return err
	}

	err = d.Run(ctx)
	logger.Info().Str("car", st.Car.String()).Msg("scene closed")
	return err
}

// ── Headless ──────────────────────────────────────────────────────────────────

func runHeadless(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	steps, err := headless.ParseScript(cfg.Headless.Script)
	if err != nil {
		return fmt.Errorf("parse headless script: %w", err)
	}

	kb := input.NewKeyboard()
	dev := headless.NewDevice()
	src := headless.NewScriptedInput(kb, steps, cfg.Headless.Ticks)

	d, st, err := assemble(cfg, logger, assembly{
		device:   dev,
		source:   src,
		keyboard: kb,
		aspect:   float32(cfg.Window.Width) / float32(cfg.Window.Height),
	})
	if err != nil {
		return err
	}

	if err := d.Run(ctx); err != nil {
		return err
	}

	stats := d.Stats()
	logger.Info().
		Str("car", st.Car.String()).
		Bool("directional", st.Render.DirectionalLighting).
		Bool("point", st.Render.PointLighting).
		Bool("texture", st.Render.FloorTextured).
		Int64("ticks", stats.Ticks).
		Int64("redraws", stats.Redraws).
		Int64("rate_limited", stats.RateLimited).
		Int("device_frames", dev.Frames()).
		Msg("headless run finished")
	return nil
}

// ── Wiring ────────────────────────────────────────────────────────────────────

type assembly struct {
	device   renderer.GraphicsDevice
	source   frame.InputSource
	keyboard *input.Keyboard
	viewport frame.Viewport
	interval time.Duration
	aspect   float32
	// sink receives status changes in addition to the log.
	sink renderer.StatusSink
}

func assemble(cfg *config.Config, logger zerolog.Logger, a assembly) (*frame.Driver, *sim.State, error) {
	sc := cfg.Scene()

	engine, err := renderer.NewRenderEngine(a.device, renderer.Options{
		Parts:         scene.Parts(sc.Layout),
		Lights:        sc.Lights,
		StackCapacity: cfg.Render.StackCapacity,
		Debug:         cfg.Debug,
		Logger:        logging.Component(logger, "renderer"),
	})
	if err != nil {
		return nil, nil, err
	}

	sink := renderer.MultiSink{renderer.NewLogSink(logging.Component(logger, "status")), a.sink}
	st := &sim.State{
		Car:    scene.InitialCarState(),
		Render: sc.Render,
	}
	ctrl := sim.NewController(sc.Motion, sink, logging.Component(logger, "sim"))

	var texture <-chan scene.TextureResult
	if cfg.Texture.Enabled {
		texture = scene.LoadTextureAsync(cfg.Texture.Path)
	}

	d, err := frame.NewDriver(frame.Options{
		Policy:     cfg.Policy,
		Interval:   a.interval,
		Source:     a.source,
		Keyboard:   a.keyboard,
		Controller: ctrl,
		Engine:     engine,
		Camera:     scene.NewChaseCamera(a.aspect),
		State:      st,
		Viewport:   a.viewport,
		Texture:    texture,
		Logger:     logging.Component(logger, "frame"),
	})
	if err != nil {
		return nil, nil, err
	}

	renderer.AnnounceInitial(sink, st.Car, st.Render)
	return d, st, nil
}
