package sim

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/rs/zerolog"

	"car-scene/core"
	"car-scene/input"
	"car-scene/math"
	"car-scene/renderer"
	"car-scene/scene"
)

var (
	ErrUnknownInputCode  = errors.New("unknown input code")
	ErrToggleRateLimited = errors.New("toggle rate limited")
)

// Config holds the motion constants of a scene profile.
type Config struct {
	DriveStep    float64 // units per tick
	WheelStep    float64 // degrees per tick
	TurnStep     float64 // degrees per tick
	DoorCooldown int     // ticks
	HalfPlane    float64
	Margin       float64
}

func TexturedConfig() Config {
	return Config{
		DriveStep:    0.25,
		WheelStep:    8,
		TurnStep:     2.5,
		DoorCooldown: 6,
		HalfPlane:    40,
		Margin:       2,
	}
}

func LegacyConfig() Config {
	return Config{
		DriveStep:    0.3,
		WheelStep:    8,
		TurnStep:     3,
		DoorCooldown: 3,
		HalfPlane:    20,
		Margin:       2,
	}
}

// Limit is the largest coordinate the car may reach on either axis.
func (c Config) Limit() float64 {
	return c.HalfPlane - c.Margin
}

// TickResult summarises what one tick changed. Redraw reflects the state
// change only; the frame driver adds its schedule on top.
type TickResult struct {
	Redraw        bool
	Moved         bool
	Toggled       bool
	RateLimited   int
	UnknownKeys   int
	ExitRequested bool
}

// State is the mutable simulation state. The frame driver owns it and lends
// it to the controller for each tick.
type State struct {
	Car    scene.CarState
	Render scene.RenderState
}

// Controller turns keyboard snapshots into car and render state updates.
type Controller struct {
	cfg    Config
	sink   renderer.StatusSink
	logger zerolog.Logger
}

func NewController(cfg Config, sink renderer.StatusSink, logger zerolog.Logger) *Controller {
	return &Controller{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
	}
}

func (c *Controller) Config() Config {
	return c.cfg
}

// Tick advances st by one step. The door cooldown decays first, then
// key-down events apply, then held keys move the car, which is finally
// clamped to the plane.
func (c *Controller) Tick(st *State, snap input.Snapshot) TickResult {
	var res TickResult

	if st.Car.DoorCooldown > 0 {
		st.Car.DoorCooldown--
	}

	for _, ev := range snap.Events {
		c.handleEvent(st, ev, &res)
	}

	res.Moved = c.drive(&st.Car, snap)
	c.clamp(&st.Car)

	res.Redraw = res.Moved || st.Render.PendingForcedRedraw
	return res
}

func (c *Controller) handleEvent(st *State, ev input.Event, res *TickResult) {
	c.logger.Debug().
		Str("key", core.KeyName(ev.Code)).
		Int("code", ev.Code).
		Bool("repeat", ev.Repeat).
		Msg("key event")

	switch ev.Code {
	case core.KeyK:
		c.toggle(&st.Render, scene.FeaturePointLight, res)
	case core.KeyL:
		c.toggle(&st.Render, scene.FeatureDirectionalLight, res)
	case core.KeyT:
		c.toggle(&st.Render, scene.FeatureFloorTexture, res)
	case core.KeyO:
		c.toggleDoors(st, res)
	case core.KeyEscape:
		res.ExitRequested = true
	case core.KeyUp, core.KeyDown, core.KeyLeft, core.KeyRight:
		// held keys, read by drive
	default:
		res.UnknownKeys++
		c.logger.Debug().
			Err(fmt.Errorf("%w: %d", ErrUnknownInputCode, ev.Code)).
			Msg("key ignored")
	}
}

func (c *Controller) toggle(rs *scene.RenderState, f scene.Feature, res *TickResult) {
	on, err := rs.Toggle(f)
	if err != nil {
		c.logger.Error().Err(err).Msg("toggle failed")
		return
	}
	res.Toggled = true
	c.notify(f, on)
}

func (c *Controller) toggleDoors(st *State, res *TickResult) {
	if st.Car.DoorCooldown > 0 {
		res.RateLimited++
		c.logger.Info().
			Err(ErrToggleRateLimited).
			Str("feature", scene.FeatureDoors.String()).
			Int("cooldown", st.Car.DoorCooldown).
			Msg("cannot toggle doors so quickly")
		return
	}
	st.Car.DoorsOpen = !st.Car.DoorsOpen
	st.Car.DoorCooldown = c.cfg.DoorCooldown
	st.Render.PendingForcedRedraw = true
	res.Toggled = true
	c.notify(scene.FeatureDoors, st.Car.DoorsOpen)
}

func (c *Controller) notify(f scene.Feature, on bool) {
	if c.sink != nil {
		c.sink.Notify(renderer.StatusChange{Feature: f, NewState: on})
	}
}

// drive applies held movement keys. Forward wins over backward and right
// over left; steering is mirrored while reversing.
func (c *Controller) drive(car *scene.CarState, snap input.Snapshot) bool {
	moved := false
	reversing := false

	switch {
	case snap.IsHeld(core.KeyUp):
		c.move(car, true)
		moved = true
	case snap.IsHeld(core.KeyDown):
		c.move(car, false)
		reversing = true
		moved = true
	}

	switch {
	case snap.IsHeld(core.KeyRight):
		c.turn(car, false, reversing)
		moved = true
	case snap.IsHeld(core.KeyLeft):
		c.turn(car, true, reversing)
		moved = true
	}

	return moved
}

func (c *Controller) move(car *scene.CarState, forward bool) {
	rad := car.Heading * stdmath.Pi / 180
	dx := stdmath.Sin(rad) * c.cfg.DriveStep
	dz := stdmath.Cos(rad) * c.cfg.DriveStep

	if forward {
		car.X -= dx
		car.Z -= dz
		car.WheelSpin = math.WrapDegrees(car.WheelSpin - c.cfg.WheelStep)
	} else {
		car.X += dx
		car.Z += dz
		car.WheelSpin = math.WrapDegrees(car.WheelSpin + c.cfg.WheelStep)
	}
}

func (c *Controller) turn(car *scene.CarState, left, reversing bool) {
	if reversing {
		left = !left
	}
	if left {
		car.Heading = math.WrapDegrees(car.Heading + c.cfg.TurnStep)
	} else {
		car.Heading = math.WrapDegrees(car.Heading - c.cfg.TurnStep)
	}
}

func (c *Controller) clamp(car *scene.CarState) {
	limit := c.cfg.Limit()
	car.X = stdmath.Max(-limit, stdmath.Min(limit, car.X))
	car.Z = stdmath.Max(-limit, stdmath.Min(limit, car.Z))
}
