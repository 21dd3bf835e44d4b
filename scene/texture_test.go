package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-scene/math"
)

func writePNG(t *testing.T, w, h int, fill func(x, y int) color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill(x, y))
		}
	}
	path := filepath.Join(t.TempDir(), "floor.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadTexture(t *testing.T) {
	path := writePNG(t, 2, 2, func(x, y int) color.RGBA {
		if y == 0 {
			return color.RGBA{R: 255, A: 255}
		}
		return color.RGBA{B: 255, A: 255}
	})

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width)
	assert.Len(t, tex.Pixels, 16)

	// v=1 is the top row of the image
	assert.Equal(t, float32(1), tex.Sample(0.25, 0.9).R)
	assert.Equal(t, float32(1), tex.Sample(0.25, 0.1).B)
}

func TestLoadTextureMissingFile(t *testing.T) {
	_, err := LoadTexture(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTextureAsync(t *testing.T) {
	res, ok := <-LoadTextureAsync("")
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, 64, res.Texture.Width)

	_, ok = <-LoadTextureAsync("")
	assert.True(t, ok)

	ch := LoadTextureAsync(filepath.Join(t.TempDir(), "missing.png"))
	res = <-ch
	assert.Error(t, res.Err)
	_, ok = <-ch
	assert.False(t, ok, "channel closed after the result")
}

func TestSampleClampsToEdge(t *testing.T) {
	tex := &Texture{Name: "white", Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 255}}
	c := tex.Sample(-3, 7)
	assert.Equal(t, float32(1), c.G)

	var none *Texture
	assert.Equal(t, float32(1), none.Sample(0.5, 0.5).R)
}

func TestUnitCube(t *testing.T) {
	cube := UnitCube()
	require.Len(t, cube.Vertices, 24)
	require.Len(t, cube.Indices, 36)

	for i, v := range cube.Vertices {
		for _, c := range []float32{v.Position.X, v.Position.Y, v.Position.Z} {
			assert.Contains(t, []float32{-1, 1}, c, "vertex %d", i)
		}
		// each corner lies on the face its normal points out of
		assert.Equal(t, float32(1), v.Position.Dot(v.Normal), "vertex %d", i)
	}
	for _, idx := range cube.Indices {
		assert.Less(t, idx, uint32(24))
	}
}

func TestChaseCamera(t *testing.T) {
	cam := NewChaseCamera(16.0 / 9.0)
	cam.Follow(CarState{X: 4, Z: -2})

	assert.Equal(t, math.NewVec3(4, 0, -2), cam.Target)
	assert.Equal(t, DefaultCameraEye(), cam.Eye)

	p := cam.ViewMatrix().MulVec3(cam.Target)
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
	assert.Less(t, p.Z, float32(0))

	cam.UpdateAspectRatio(800, 0)
	assert.InDelta(t, 16.0/9.0, cam.AspectRatio, 1e-6)
}
