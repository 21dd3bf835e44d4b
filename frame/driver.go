package frame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"car-scene/input"
	"car-scene/renderer"
	"car-scene/scene"
	"car-scene/sim"
)

// InputSource pumps platform events into the keyboard and reports when the
// user asked to quit.
type InputSource interface {
	Poll()
	ShouldClose() bool
}

// Viewport reports the current drawable size. It is optional; without it
// the camera keeps its initial aspect ratio.
type Viewport func() (width, height int)

// Options wires a Driver together.
type Options struct {
	Policy Policy
	// Interval is the tick period. Zero runs ticks back to back, which
	// headless runs rely on.
	Interval time.Duration

	Source     InputSource
	Keyboard   *input.Keyboard
	Controller *sim.Controller
	Engine     *renderer.RenderEngine
	Camera     *scene.Camera
	State      *sim.State
	Viewport   Viewport
	// Texture delivers the floor texture. The loop does not start until it
	// has. Nil skips the wait.
	Texture <-chan scene.TextureResult

	Logger zerolog.Logger
	// Meter overrides the global OpenTelemetry meter.
	Meter metric.Meter
}

// Stats counts what the driver has done so far.
type Stats struct {
	Ticks       int64
	Redraws     int64
	RateLimited int64
	RenderErrs  int64
}

// Driver runs the tick loop: poll input, advance the simulation, aim the
// camera and, when something changed, draw a frame.
type Driver struct {
	opts   Options
	logger zerolog.Logger

	ticks       metric.Int64Counter
	redraws     metric.Int64Counter
	rateLimited metric.Int64Counter
	policyAttr  attribute.KeyValue

	stats      Stats
	drawnFirst bool
}

func NewDriver(opts Options) (*Driver, error) {
	switch {
	case opts.Source == nil:
		return nil, errors.New("frame: no input source")
	case opts.Keyboard == nil:
		return nil, errors.New("frame: no keyboard")
	case opts.Controller == nil:
		return nil, errors.New("frame: no controller")
	case opts.Engine == nil:
		return nil, errors.New("frame: no render engine")
	case opts.Camera == nil:
		return nil, errors.New("frame: no camera")
	case opts.State == nil:
		return nil, errors.New("frame: no simulation state")
	}

	m := opts.Meter
	if m == nil {
		m = meter()
	}

	d := &Driver{
		opts:       opts,
		logger:     opts.Logger,
		policyAttr: attribute.String("policy", opts.Policy.String()),
	}

	var err error
	d.ticks, err = m.Int64Counter(
		"frames.ticks",
		metric.WithDescription("Simulation ticks run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	d.redraws, err = m.Int64Counter(
		"frames.redraws",
		metric.WithDescription("Frames drawn"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating redraws counter: %w", err)
	}

	d.rateLimited, err = m.Int64Counter(
		"frames.toggles.rate_limited",
		metric.WithDescription("Door toggles ignored during cooldown"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rate limited counter: %w", err)
	}

	return d, nil
}

// WaitForTexture blocks until the floor texture has loaded and been
// uploaded. A load or upload failure is an *renderer.InitializationError.
func (d *Driver) WaitForTexture(ctx context.Context) error {
	if d.opts.Texture == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res, ok := <-d.opts.Texture:
		d.opts.Texture = nil
		if !ok {
			return &renderer.InitializationError{Stage: "load texture", Err: errors.New("texture loader closed without a result")}
		}
		if res.Err != nil {
			return &renderer.InitializationError{Stage: "load texture", Err: res.Err}
		}
		if err := d.opts.Engine.SetTexture(res.Texture); err != nil {
			return err
		}
		d.logger.Info().Str("texture", res.Texture.Name).Msg("floor texture ready")
		return nil
	}
}

// Step runs one tick. FixedInterval draws every tick; OnDemand draws only
// when the tick changed something. The very first tick always draws.
func (d *Driver) Step(ctx context.Context) sim.TickResult {
	d.opts.Source.Poll()
	snap := d.opts.Keyboard.Snapshot()

	res := d.opts.Controller.Tick(d.opts.State, snap)

	if d.opts.Viewport != nil {
		w, h := d.opts.Viewport()
		d.opts.Camera.UpdateAspectRatio(float32(w), float32(h))
	}
	d.opts.Camera.Follow(d.opts.State.Car)

	d.stats.Ticks++
	d.ticks.Add(ctx, 1, metric.WithAttributes(d.policyAttr))
	if res.RateLimited > 0 {
		d.stats.RateLimited += int64(res.RateLimited)
		d.rateLimited.Add(ctx, int64(res.RateLimited), metric.WithAttributes(d.policyAttr))
	}

	redraw := res.Redraw || d.opts.Policy == FixedInterval || !d.drawnFirst
	if !redraw {
		return res
	}

	if err := d.opts.Engine.Render(d.opts.State.Car, d.opts.State.Render, d.opts.Camera); err != nil {
		d.stats.RenderErrs++
		d.logger.Error().Err(err).Int64("tick", d.stats.Ticks).Msg("frame failed")
		return res
	}
	d.opts.State.Render.ConsumeRedraw()
	d.drawnFirst = true
	d.stats.Redraws++
	d.redraws.Add(ctx, 1, metric.WithAttributes(d.policyAttr))
	return res
}

// Run waits for the texture, then ticks until ctx is cancelled, the input
// source asks to close, or an exit key is pressed. Only initialization
// errors and cancellation end it with an error.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.WaitForTexture(ctx); err != nil {
		return err
	}

	d.logger.Info().
		Str("policy", d.opts.Policy.String()).
		Dur("interval", d.opts.Interval).
		Msg("frame loop started")

	var tick <-chan time.Time
	if d.opts.Interval > 0 {
		ticker := time.NewTicker(d.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if d.opts.Source.ShouldClose() {
			d.logger.Info().Int64("ticks", d.stats.Ticks).Msg("input source closed")
			return nil
		}

		if res := d.Step(ctx); res.ExitRequested {
			d.logger.Info().Int64("ticks", d.stats.Ticks).Msg("exit requested")
			return nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (d *Driver) Stats() Stats {
	return d.stats
}
