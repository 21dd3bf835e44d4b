package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/rs/zerolog"

	"car-scene/core"
	"car-scene/math"
	"car-scene/renderer"
)

// Surface is the window the device draws into.
type Surface interface {
	GetFramebufferSize() (int, int)
	SwapBuffers()
}

// gpuMesh holds the buffer objects for an uploaded mesh. The colour stream
// lives in its own buffer so a part colour can be replaced without touching
// the geometry.
type gpuMesh struct {
	VAO         uint32
	VBO         uint32
	ColorVBO    uint32
	EBO         uint32
	IndexCount  int32
	VertexCount int
}

// Device is the OpenGL 4.1 core implementation of renderer.GraphicsDevice.
type Device struct {
	surface Surface
	logger  zerolog.Logger
	program uint32

	// Transform uniforms
	modelLoc      int32
	normalLoc     int32
	viewLoc       int32
	projectionLoc int32

	// Lighting uniforms
	directionalLoc     int32
	lightDirLoc        int32
	lightColorLoc      int32
	pointLoc           int32
	pointLightPosLoc   int32
	pointLightColorLoc int32

	// Texture uniforms
	useTextureLoc        int32
	floorTexLoc          int32
	textureBrightnessLoc int32

	clear     core.Color
	meshes    map[renderer.MeshHandle]*gpuMesh
	nextMesh  renderer.MeshHandle
	textures  []uint32
	inFrame   bool
	viewportW int32
	viewportH int32
}

// ClearColor is the background behind the scene.
var ClearColor = core.Color{R: 0.55, G: 0.65, B: 0.75, A: 1}

// New initialises OpenGL. Must be called after the window context is made
// current, on the same OS thread.
func New(surface Surface, logger zerolog.Logger) (*Device, error) {
	if surface == nil {
		return nil, errors.New("no surface")
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info().Str("version", gl.GoStr(gl.GetString(gl.VERSION))).Msg("OpenGL initialized")

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	d := &Device{
		surface: surface,
		logger:  logger,
		program: prog,

		modelLoc:      uniform(prog, "model"),
		normalLoc:     uniform(prog, "normalMatrix"),
		viewLoc:       uniform(prog, "view"),
		projectionLoc: uniform(prog, "projection"),

		directionalLoc:     uniform(prog, "directionalLighting"),
		lightDirLoc:        uniform(prog, "lightDirection"),
		lightColorLoc:      uniform(prog, "lightColor"),
		pointLoc:           uniform(prog, "pointLighting"),
		pointLightPosLoc:   uniform(prog, "pointLightPos"),
		pointLightColorLoc: uniform(prog, "pointLightColor"),

		useTextureLoc:        uniform(prog, "useTexture"),
		floorTexLoc:          uniform(prog, "floorTex"),
		textureBrightnessLoc: uniform(prog, "textureBrightness"),

		clear:  ClearColor,
		meshes: make(map[renderer.MeshHandle]*gpuMesh),
	}

	gl.UseProgram(prog)
	gl.Uniform1i(d.floorTexLoc, 0)
	gl.Uniform1f(d.textureBrightnessLoc, renderer.TextureBrightness)
	gl.Uniform1i(d.useTextureLoc, 0)

	return d, nil
}

// ── Resources ─────────────────────────────────────────────────────────────────

func (d *Device) UploadMesh(mesh core.MeshData) (renderer.MeshHandle, error) {
	if len(mesh.Vertices) == 0 {
		return 0, errors.New("empty mesh")
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))
	gpu := &gpuMesh{
		IndexCount:  int32(len(mesh.Indices)),
		VertexCount: len(mesh.Vertices),
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	var v core.Vertex
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	// Per-vertex colour, white until the first UploadPartColor
	gl.GenBuffers(1, &gpu.ColorVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.ColorVBO)
	colors := colorStream(core.ColorWhite, gpu.VertexCount)
	gl.BufferData(gl.ARRAY_BUFFER, len(colors)*4, gl.Ptr(colors), gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, 0, nil)

	if gpu.IndexCount > 0 {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	d.nextMesh++
	d.meshes[d.nextMesh] = gpu
	return d.nextMesh, nil
}

func (d *Device) UploadPartColor(mesh renderer.MeshHandle, color core.Color) error {
	gpu, ok := d.meshes[mesh]
	if !ok {
		return fmt.Errorf("unknown mesh %d", mesh)
	}
	colors := colorStream(color, gpu.VertexCount)
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.ColorVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(colors)*4, gl.Ptr(colors))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func colorStream(c core.Color, n int) []float32 {
	out := make([]float32, 0, n*4)
	for i := 0; i < n; i++ {
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}

// ── Frame ─────────────────────────────────────────────────────────────────────

// BeginFrame follows the framebuffer size and clears colour and depth.
func (d *Device) BeginFrame() error {
	if d.inFrame {
		return errors.New("begin frame: already inside a frame")
	}
	d.inFrame = true

	w, h := d.surface.GetFramebufferSize()
	if int32(w) != d.viewportW || int32(h) != d.viewportH {
		d.viewportW, d.viewportH = int32(w), int32(h)
		gl.Viewport(0, 0, d.viewportW, d.viewportH)
		d.logger.Debug().Int("width", w).Int("height", h).Msg("viewport resized")
	}

	gl.ClearColor(d.clear.R, d.clear.G, d.clear.B, d.clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(d.program)
	return nil
}

func (d *Device) SetCamera(view, projection math.Mat4) {
	setMat4(d.viewLoc, view)
	setMat4(d.projectionLoc, projection)
}

func (d *Device) SetLights(lights renderer.Lights) {
	setVec3(d.lightDirLoc, lights.Direction)
	setVec3(d.lightColorLoc, lights.DirectionalColor)
	setVec3(d.pointLightPosLoc, lights.PointPosition)
	setVec3(d.pointLightColorLoc, lights.PointColor)
}

func (d *Device) SetFlag(flag renderer.Flag, on bool) {
	v := int32(0)
	if on {
		v = 1
	}
	switch flag {
	case renderer.FlagDirectionalLighting:
		gl.Uniform1i(d.directionalLoc, v)
	case renderer.FlagPointLighting:
		gl.Uniform1i(d.pointLoc, v)
	case renderer.FlagUseTexture:
		gl.Uniform1i(d.useTextureLoc, v)
	}
}

func (d *Device) SetModel(model, normal math.Mat4) {
	setMat4(d.modelLoc, model)
	setMat4(d.normalLoc, normal)
}

func (d *Device) Draw(mesh renderer.MeshHandle) error {
	gpu, ok := d.meshes[mesh]
	if !ok {
		return fmt.Errorf("unknown mesh %d", mesh)
	}
	if !d.inFrame {
		return errors.New("draw outside a frame")
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.IndexCount > 0 {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(gpu.VertexCount))
	}
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("draw mesh %d: GL error 0x%x", mesh, code)
	}
	return nil
}

// EndFrame presents the frame.
func (d *Device) EndFrame() error {
	if !d.inFrame {
		return errors.New("end frame: no frame in progress")
	}
	d.inFrame = false
	d.surface.SwapBuffers()
	return nil
}

// ── Resource management ───────────────────────────────────────────────────────

// Destroy releases all GPU resources.
func (d *Device) Destroy() {
	for h, gpu := range d.meshes {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		gl.DeleteBuffers(1, &gpu.ColorVBO)
		if gpu.EBO != 0 {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(d.meshes, h)
	}
	if len(d.textures) > 0 {
		gl.DeleteTextures(int32(len(d.textures)), &d.textures[0])
		d.textures = nil
	}
	gl.DeleteProgram(d.program)
}

// Mat4's memory layout is already column-major, so no transpose.
func setMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, (*float32)(unsafe.Pointer(&m[0][0])))
}

func setVec3(loc int32, v math.Vec3) {
	gl.Uniform3f(loc, v.X, v.Y, v.Z)
}

var _ renderer.GraphicsDevice = (*Device)(nil)
