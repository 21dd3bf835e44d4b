package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"car-scene/renderer"
	"car-scene/scene"
)

// UploadTexture uploads the floor image to texture unit 0. Rows are flipped
// so that v=0 samples the bottom of the image.
func (d *Device) UploadTexture(tex *scene.Texture) (renderer.TextureHandle, error) {
	if tex == nil {
		return 0, fmt.Errorf("nil texture")
	}
	if len(tex.Pixels) == 0 || len(tex.Pixels) != tex.Width*tex.Height*4 {
		return 0, fmt.Errorf("texture %q has no usable pixel data", tex.Name)
	}

	pixels := flipRows(tex.Pixels, tex.Width, tex.Height)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(tex.Width),
		int32(tex.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pixels),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	d.textures = append(d.textures, id)
	return renderer.TextureHandle(id), nil
}

func (d *Device) BindTexture(tex renderer.TextureHandle) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func flipRows(pix []byte, width, height int) []byte {
	stride := width * 4
	out := make([]byte, len(pix))
	for y := 0; y < height; y++ {
		copy(out[(height-1-y)*stride:(height-y)*stride], pix[y*stride:(y+1)*stride])
	}
	return out
}
