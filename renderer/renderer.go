package renderer

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"car-scene/math"
	"car-scene/scene"
)

// RenderEngine draws the scene parts through a GraphicsDevice. All parts
// share one uploaded unit cube; only the colour stream changes per part.
type RenderEngine struct {
	device   GraphicsDevice
	parts    []scene.PartSpec
	lights   Lights
	composer *scene.Composer
	logger   zerolog.Logger

	// Debug turns transform-stack misuse into a panic instead of a logged skip.
	Debug bool

	cube       MeshHandle
	texture    TextureHandle
	hasTexture bool

	// Per-frame stats (populated during Render)
	lastDrawn   int
	lastSkipped int
	frames      uint64
}

// Options configures a RenderEngine.
type Options struct {
	Parts  []scene.PartSpec
	Lights Lights
	// StackCapacity bounds the transform stack; 0 selects the default.
	StackCapacity int
	Debug         bool
	Logger        zerolog.Logger
}

// NewRenderEngine uploads the shared cube mesh. Failures are returned as
// *InitializationError.
func NewRenderEngine(device GraphicsDevice, opts Options) (*RenderEngine, error) {
	if device == nil {
		return nil, &InitializationError{Stage: "device", Err: errors.New("no graphics device")}
	}
	if len(opts.Parts) == 0 {
		return nil, &InitializationError{Stage: "scene", Err: errors.New("no parts to draw")}
	}

	cube, err := device.UploadMesh(scene.UnitCube())
	if err != nil {
		return nil, &InitializationError{Stage: "upload cube", Err: err}
	}

	re := &RenderEngine{
		device:   device,
		parts:    opts.Parts,
		lights:   opts.Lights,
		composer: scene.NewComposer(math.NewMatrixStack(opts.StackCapacity)),
		logger:   opts.Logger,
		Debug:    opts.Debug,
		cube:     cube,
	}
	re.logger.Info().Int("parts", len(opts.Parts)).Msg("render engine initialized")
	return re, nil
}

// SetTexture uploads the floor texture. Call once, before the first Render
// that should show it.
func (re *RenderEngine) SetTexture(tex *scene.Texture) error {
	if tex == nil {
		return &InitializationError{Stage: "upload texture", Err: errors.New("nil texture")}
	}
	h, err := re.device.UploadTexture(tex)
	if err != nil {
		return &InitializationError{Stage: "upload texture", Err: err}
	}
	re.texture = h
	re.hasTexture = true
	re.logger.Debug().Str("texture", tex.Name).Int("width", tex.Width).Int("height", tex.Height).
		Msg("floor texture uploaded")
	return nil
}

// Render draws one frame in part order. Per-part failures are logged and the
// part is skipped; only frame bracket failures are returned.
func (re *RenderEngine) Render(car scene.CarState, rs scene.RenderState, cam *scene.Camera) error {
	if cam == nil {
		return fmt.Errorf("render: no camera")
	}
	if err := re.device.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	re.device.SetCamera(cam.ViewMatrix(), cam.ProjectionMatrix())
	re.device.SetLights(re.lights)

	// ── Uniform state ─────────────────────────────────────────────────────────
	if re.hasTexture {
		re.device.BindTexture(re.texture)
	}
	re.device.SetFlag(FlagDirectionalLighting, rs.DirectionalLighting)
	re.device.SetFlag(FlagPointLighting, rs.PointLighting)

	drawn, skipped := 0, 0
	for i, part := range re.parts {
		// The texture switch is re-sent at every boundary between untextured
		// and textured parts. Without an uploaded texture it stays off.
		if i == 0 || part.Textured != re.parts[i-1].Textured {
			re.device.SetFlag(FlagUseTexture, part.Textured && rs.FloorTextured && re.hasTexture)
		}

		if err := re.drawPart(part, car); err != nil {
			re.handlePartError(part, err)
			skipped++
			continue
		}
		drawn++
	}

	if depth := re.composer.Depth(); depth != 0 {
		re.handlePartError(scene.PartSpec{Name: "frame"},
			fmt.Errorf("%w: %d transforms left on the stack", math.ErrStackOverflow, depth))
		re.composer.Reset()
	}

	re.lastDrawn = drawn
	re.lastSkipped = skipped
	re.frames++

	if err := re.device.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	return nil
}

func (re *RenderEngine) drawPart(part scene.PartSpec, car scene.CarState) error {
	if err := re.device.UploadPartColor(re.cube, part.Color); err != nil {
		return fmt.Errorf("upload colour for %s: %w", part.Name, err)
	}
	return re.composer.DrawPart(part, car, func(tr scene.PartTransform) error {
		re.device.SetModel(tr.Model, tr.Normal)
		return re.device.Draw(re.cube)
	})
}

func (re *RenderEngine) handlePartError(part scene.PartSpec, err error) {
	stackMisuse := errors.Is(err, math.ErrEmptyStack) || errors.Is(err, math.ErrStackOverflow)
	if stackMisuse && re.Debug {
		panic(fmt.Sprintf("transform stack misuse while drawing %s: %v", part.Name, err))
	}
	re.logger.Error().Err(err).Str("part", part.Name).Msg("part skipped")
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (drawn, skipped int) {
	return re.lastDrawn, re.lastSkipped
}

// Frames is the number of frames rendered so far.
func (re *RenderEngine) Frames() uint64 {
	return re.frames
}
