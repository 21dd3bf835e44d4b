package renderer

import (
	"fmt"

	"car-scene/core"
	"car-scene/math"
	"car-scene/scene"
)

// MeshHandle identifies a mesh uploaded to a GraphicsDevice.
type MeshHandle uint32

// TextureHandle identifies a texture uploaded to a GraphicsDevice. Zero means
// no texture.
type TextureHandle uint32

// Flag is a boolean shader switch.
type Flag int

const (
	FlagDirectionalLighting Flag = iota
	FlagPointLighting
	FlagUseTexture
)

func (f Flag) String() string {
	switch f {
	case FlagDirectionalLighting:
		return "directional"
	case FlagPointLighting:
		return "point"
	case FlagUseTexture:
		return "useTexture"
	default:
		return fmt.Sprintf("flag(%d)", int(f))
	}
}

// GraphicsDevice is everything the render pass needs from a graphics API.
// All methods are called from the goroutine that owns the device.
type GraphicsDevice interface {
	UploadMesh(mesh core.MeshData) (MeshHandle, error)
	// UploadPartColor replaces the per-vertex colour stream of mesh.
	UploadPartColor(mesh MeshHandle, color core.Color) error
	UploadTexture(tex *scene.Texture) (TextureHandle, error)

	BeginFrame() error
	SetCamera(view, projection math.Mat4)
	SetLights(lights Lights)
	BindTexture(tex TextureHandle)
	SetFlag(flag Flag, on bool)
	SetModel(model, normal math.Mat4)
	Draw(mesh MeshHandle) error
	EndFrame() error
}

// InitializationError reports a failure while bringing up the device or its
// resources. It is fatal: nothing can be drawn after it.
type InitializationError struct {
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed (%s): %v", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
