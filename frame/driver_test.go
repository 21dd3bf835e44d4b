package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"car-scene/input"
	"car-scene/internal/headless"
	"car-scene/renderer"
	"car-scene/scene"
	"car-scene/sim"
)

type rig struct {
	driver *Driver
	device *headless.Device
	state  *sim.State
	camera *scene.Camera
}

func newRig(t *testing.T, policy Policy, script string, ticks int, tex <-chan scene.TextureResult) *rig {
	t.Helper()

	steps, err := headless.ParseScript(script)
	require.NoError(t, err)

	kb := input.NewKeyboard()
	dev := headless.NewDevice()
	engine, err := renderer.NewRenderEngine(dev, renderer.Options{
		Parts:  scene.Parts(scene.TexturedLayout()),
		Lights: renderer.DefaultLights(),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	st := &sim.State{
		Car:    scene.InitialCarState(),
		Render: scene.RenderState{DirectionalLighting: true, PointLighting: true},
	}
	cam := scene.NewChaseCamera(16.0 / 9.0)

	d, err := NewDriver(Options{
		Policy:     policy,
		Source:     headless.NewScriptedInput(kb, steps, ticks),
		Keyboard:   kb,
		Controller: sim.NewController(sim.TexturedConfig(), nil, zerolog.Nop()),
		Engine:     engine,
		Camera:     cam,
		State:      st,
		Texture:    tex,
		Logger:     zerolog.Nop(),
		Meter:      noop.Meter{},
	})
	require.NoError(t, err)

	return &rig{driver: d, device: dev, state: st, camera: cam}
}

func (r *rig) steps(n int) {
	for i := 0; i < n; i++ {
		r.driver.Step(context.Background())
	}
}

func TestFirstFrameAlwaysDrawn(t *testing.T) {
	r := newRig(t, OnDemand, "", 10, nil)

	r.steps(5)

	assert.Equal(t, int64(5), r.driver.Stats().Ticks)
	assert.Equal(t, int64(1), r.driver.Stats().Redraws)
	assert.Equal(t, 1, r.device.Frames())
}

func TestOnDemandDrawsWhileDriving(t *testing.T) {
	r := newRig(t, OnDemand, "down:up@2,up:up@5", 10, nil)

	r.steps(8)

	// tick 0 (first frame) and ticks 2,3,4 while the key is held
	assert.Equal(t, int64(4), r.driver.Stats().Redraws)
	assert.NotEqual(t, float64(0), r.state.Car.X)
}

func TestFixedIntervalDrawsEveryTick(t *testing.T) {
	r := newRig(t, FixedInterval, "", 10, nil)

	r.steps(6)

	assert.Equal(t, int64(6), r.driver.Stats().Redraws)
}

func TestToggleRedrawsExactlyOnce(t *testing.T) {
	r := newRig(t, OnDemand, "press:k@3", 10, nil)

	r.steps(3)
	require.Equal(t, int64(1), r.driver.Stats().Redraws)

	r.steps(1)
	assert.Equal(t, int64(2), r.driver.Stats().Redraws)
	assert.False(t, r.state.Render.PointLighting)
	assert.False(t, r.state.Render.PendingForcedRedraw)

	r.steps(3)
	assert.Equal(t, int64(2), r.driver.Stats().Redraws)
}

func TestCameraFollowsCarEveryTick(t *testing.T) {
	r := newRig(t, OnDemand, "down:up@0", 10, nil)

	r.steps(4)

	assert.Equal(t, r.state.Car.Position(), r.camera.Target)
	assert.Equal(t, scene.DefaultCameraEye(), r.camera.Eye)
}

func TestRateLimitedCounted(t *testing.T) {
	r := newRig(t, OnDemand, "press:o@0,press:o@1,press:o@2", 10, nil)

	r.steps(3)

	assert.Equal(t, int64(2), r.driver.Stats().RateLimited)
	assert.True(t, r.state.Car.DoorsOpen)
}

func TestWaitForTexture(t *testing.T) {
	r := newRig(t, OnDemand, "", 1, scene.LoadTextureAsync(""))

	require.NoError(t, r.driver.WaitForTexture(context.Background()))
	r.steps(1)

	assert.Equal(t, "BindTexture", r.device.LastFrame().Calls[3].Op)
}

func TestWaitForTextureFailure(t *testing.T) {
	ch := make(chan scene.TextureResult, 1)
	ch <- scene.TextureResult{Err: errors.New("corrupt jpeg")}
	r := newRig(t, OnDemand, "", 1, ch)

	err := r.driver.Run(context.Background())

	var initErr *renderer.InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "load texture", initErr.Stage)
	assert.Zero(t, r.driver.Stats().Ticks)
}

func TestWaitForTextureCancelled(t *testing.T) {
	r := newRig(t, OnDemand, "", 1, make(chan scene.TextureResult))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.driver.Run(ctx), context.Canceled)
}

func TestRunStopsWhenSourceCloses(t *testing.T) {
	r := newRig(t, OnDemand, "down:left@0", 12, nil)

	require.NoError(t, r.driver.Run(context.Background()))

	assert.Equal(t, int64(12), r.driver.Stats().Ticks)
	assert.Equal(t, 135+12*2.5, r.state.Car.Heading)
}

func TestRunStopsOnEscape(t *testing.T) {
	r := newRig(t, OnDemand, "press:escape@4", 100, nil)

	require.NoError(t, r.driver.Run(context.Background()))

	assert.Equal(t, int64(5), r.driver.Stats().Ticks)
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRig(t, FixedInterval, "", 100, nil)
	r.driver.opts.Interval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.driver.Run(ctx), context.Canceled)
	assert.Equal(t, int64(1), r.driver.Stats().Ticks)
}

func TestNewDriverValidates(t *testing.T) {
	_, err := NewDriver(Options{})
	assert.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("Fixed-Interval")
	require.NoError(t, err)
	assert.Equal(t, FixedInterval, p)

	p, err = ParsePolicy("on-demand")
	require.NoError(t, err)
	assert.Equal(t, OnDemand, p)

	_, err = ParsePolicy("whenever")
	assert.Error(t, err)
	assert.Equal(t, "fixed-interval", FixedInterval.String())
}

func TestKeyboardDrainedEachTick(t *testing.T) {
	r := newRig(t, OnDemand, "press:t@0", 3, nil)
	r.steps(2)
	assert.True(t, r.state.Render.FloorTextured, "toggled once, not once per tick")
}
