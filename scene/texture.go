package scene

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"car-scene/core"
)

// Texture holds CPU-side pixel data for a 2D texture.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
}

// LoadTexture reads a PNG or JPEG file from disk and returns a CPU-side Texture.
// The image is converted to RGBA8 automatically.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}

	return &Texture{
		Name:   path,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}, nil
}

// TextureResult is delivered once by LoadTextureAsync.
type TextureResult struct {
	Texture *Texture
	Err     error
}

// LoadTextureAsync decodes the texture on its own goroutine. The returned
// channel yields exactly one result and is then closed. An empty path
// yields the built-in checkerboard.
func LoadTextureAsync(path string) <-chan TextureResult {
	ch := make(chan TextureResult, 1)
	go func() {
		defer close(ch)
		if path == "" {
			ch <- TextureResult{Texture: NewCheckerTexture("checker", 64, 8)}
			return
		}
		tex, err := LoadTexture(path)
		ch <- TextureResult{Texture: tex, Err: err}
	}()
	return ch
}

// NewCheckerTexture builds a size×size grey checkerboard with square cells
// of cell pixels.
func NewCheckerTexture(name string, size, cell int) *Texture {
	if cell <= 0 {
		cell = 1
	}
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := byte(90)
			if (x/cell+y/cell)%2 == 0 {
				v = 200
			}
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return &Texture{Name: name, Width: size, Height: size, Pixels: pix}
}

// Sample returns the nearest texel at (u, v), with v=0 at the bottom row as
// in GL texture space. Coordinates are clamped to the edge.
func (t *Texture) Sample(u, v float32) core.Color {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return core.ColorWhite
	}
	x := clampIndex(int(u*float32(t.Width)), t.Width)
	y := clampIndex(int((1-v)*float32(t.Height)), t.Height)
	i := (y*t.Width + x) * 4
	return core.Color{
		R: float32(t.Pixels[i]) / 255,
		G: float32(t.Pixels[i+1]) / 255,
		B: float32(t.Pixels[i+2]) / 255,
		A: float32(t.Pixels[i+3]) / 255,
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
