// Package headless provides a GraphicsDevice that draws nothing. It records
// every call and shades each drawn vertex on the CPU with the same lighting
// model the GPU shaders use, so frames can be inspected without a display.
package headless

import (
	"errors"
	"fmt"

	"car-scene/core"
	"car-scene/math"
	"car-scene/renderer"
	"car-scene/scene"
)

var ErrUnknownHandle = errors.New("headless: unknown handle")

// Call is one recorded device call. Only the fields relevant to Op are set.
type Call struct {
	Op      string
	Flag    renderer.Flag
	On      bool
	Mesh    renderer.MeshHandle
	Texture renderer.TextureHandle
	Color   core.Color
}

func (c Call) String() string {
	switch c.Op {
	case "SetFlag":
		return fmt.Sprintf("SetFlag(%s=%t)", c.Flag, c.On)
	case "BindTexture":
		return fmt.Sprintf("BindTexture(%d)", c.Texture)
	case "Draw", "UploadPartColor":
		return fmt.Sprintf("%s(%d)", c.Op, c.Mesh)
	default:
		return c.Op
	}
}

// DrawRecord captures the state a single Draw was issued with.
type DrawRecord struct {
	Mesh        renderer.MeshHandle
	Color       core.Color
	Model       math.Mat4
	Normal      math.Mat4
	Directional bool
	Point       bool
	UseTexture  bool
	Texture     renderer.TextureHandle
	// Shaded holds the final colour of every mesh vertex.
	Shaded []core.Color
}

// Frame is everything recorded between BeginFrame and EndFrame.
type Frame struct {
	Calls []Call
	Draws []DrawRecord
}

type meshState struct {
	data  core.MeshData
	color core.Color
}

type Device struct {
	meshes   map[renderer.MeshHandle]*meshState
	textures map[renderer.TextureHandle]*scene.Texture
	nextMesh renderer.MeshHandle
	nextTex  renderer.TextureHandle

	view, projection math.Mat4
	model, normal    math.Mat4
	lights           renderer.Lights
	flags            map[renderer.Flag]bool
	bound            renderer.TextureHandle

	current *Frame
	last    Frame
	frames  int

	// DrawErr, when set, is returned by every Draw.
	DrawErr error
	// UploadErr, when set, is returned by UploadMesh and UploadTexture.
	UploadErr error
}

func NewDevice() *Device {
	return &Device{
		meshes:   make(map[renderer.MeshHandle]*meshState),
		textures: make(map[renderer.TextureHandle]*scene.Texture),
		flags:    make(map[renderer.Flag]bool),
		model:    math.Mat4Identity(),
		normal:   math.Mat4Identity(),
	}
}

func (d *Device) record(c Call) {
	if d.current != nil {
		d.current.Calls = append(d.current.Calls, c)
	}
}

func (d *Device) UploadMesh(mesh core.MeshData) (renderer.MeshHandle, error) {
	if d.UploadErr != nil {
		return 0, d.UploadErr
	}
	if len(mesh.Vertices) == 0 {
		return 0, errors.New("headless: empty mesh")
	}
	d.nextMesh++
	d.meshes[d.nextMesh] = &meshState{data: mesh, color: core.ColorWhite}
	return d.nextMesh, nil
}

func (d *Device) UploadPartColor(mesh renderer.MeshHandle, color core.Color) error {
	m, ok := d.meshes[mesh]
	if !ok {
		return fmt.Errorf("%w: mesh %d", ErrUnknownHandle, mesh)
	}
	m.color = color
	d.record(Call{Op: "UploadPartColor", Mesh: mesh, Color: color})
	return nil
}

func (d *Device) UploadTexture(tex *scene.Texture) (renderer.TextureHandle, error) {
	if d.UploadErr != nil {
		return 0, d.UploadErr
	}
	d.nextTex++
	d.textures[d.nextTex] = tex
	return d.nextTex, nil
}

func (d *Device) BeginFrame() error {
	if d.current != nil {
		return errors.New("headless: BeginFrame inside a frame")
	}
	d.current = &Frame{}
	d.record(Call{Op: "BeginFrame"})
	return nil
}

func (d *Device) SetCamera(view, projection math.Mat4) {
	d.view, d.projection = view, projection
	d.record(Call{Op: "SetCamera"})
}

func (d *Device) SetLights(lights renderer.Lights) {
	d.lights = lights
	d.record(Call{Op: "SetLights"})
}

func (d *Device) BindTexture(tex renderer.TextureHandle) {
	d.bound = tex
	d.record(Call{Op: "BindTexture", Texture: tex})
}

func (d *Device) SetFlag(flag renderer.Flag, on bool) {
	d.flags[flag] = on
	d.record(Call{Op: "SetFlag", Flag: flag, On: on})
}

func (d *Device) SetModel(model, normal math.Mat4) {
	d.model, d.normal = model, normal
	d.record(Call{Op: "SetModel"})
}

func (d *Device) Draw(mesh renderer.MeshHandle) error {
	m, ok := d.meshes[mesh]
	if !ok {
		return fmt.Errorf("%w: mesh %d", ErrUnknownHandle, mesh)
	}
	if d.DrawErr != nil {
		return d.DrawErr
	}
	d.record(Call{Op: "Draw", Mesh: mesh})
	if d.current == nil {
		return errors.New("headless: Draw outside a frame")
	}

	rec := DrawRecord{
		Mesh:        mesh,
		Color:       m.color,
		Model:       d.model,
		Normal:      d.normal,
		Directional: d.flags[renderer.FlagDirectionalLighting],
		Point:       d.flags[renderer.FlagPointLighting],
		UseTexture:  d.flags[renderer.FlagUseTexture],
		Texture:     d.bound,
	}
	rec.Shaded = d.shade(m, rec)
	d.current.Draws = append(d.current.Draws, rec)
	return nil
}

func (d *Device) shade(m *meshState, rec DrawRecord) []core.Color {
	tex := d.textures[rec.Texture]
	out := make([]core.Color, len(m.data.Vertices))
	for i, v := range m.data.Vertices {
		position := rec.Model.MulVec3(v.Position)
		normal := rec.Normal.MulDir(v.Normal).Normalize()

		vertex := renderer.ShadeVertex(m.color, normal, d.lights, rec.Directional)

		var texel *core.Color
		if rec.UseTexture && tex != nil {
			c := tex.Sample(v.UV.X, v.UV.Y)
			texel = &c
		}
		out[i] = renderer.ShadeFragment(vertex, position, normal, texel, d.lights, rec.Point)
	}
	return out
}

func (d *Device) EndFrame() error {
	if d.current == nil {
		return errors.New("headless: EndFrame without BeginFrame")
	}
	d.record(Call{Op: "EndFrame"})
	d.last = *d.current
	d.current = nil
	d.frames++
	return nil
}

// LastFrame returns the most recently completed frame.
func (d *Device) LastFrame() Frame {
	return d.last
}

// Frames is the number of completed frames.
func (d *Device) Frames() int {
	return d.frames
}

// ViewProjection returns the camera matrices of the last SetCamera call.
func (d *Device) ViewProjection() (view, projection math.Mat4) {
	return d.view, d.projection
}
