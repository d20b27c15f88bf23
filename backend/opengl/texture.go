package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/engine"
)

// AttachTextures subscribes this backend to the engine's texture cache:
// every image the cache evicts gets its GPU copy released here. The cache
// stays backend-agnostic; the coupling runs through the release hook only.
func (b *Backend) AttachTextures(t *engine.Textures) {
	t.OnRelease(b.ReleaseTexture)
}

// UploadTexture uploads decoded pixels to the GPU and returns the GL
// texture name. Uploading the same key again replaces the previous copy.
func (b *Backend) UploadTexture(key engine.TextureKey, img *image.RGBA) (uint32, error) {
	if !b.initialized {
		return 0, fmt.Errorf("opengl: upload before init")
	}

	if old, ok := b.textures[key]; ok {
		gl.DeleteTextures(1, &old)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	b.textures[key] = tex
	return tex, nil
}

// TextureID returns the GL texture name for an uploaded key.
func (b *Backend) TextureID(key engine.TextureKey) (uint32, bool) {
	tex, ok := b.textures[key]
	return tex, ok
}

// ReleaseTexture deletes the GPU copy for key, if any. Safe to call for
// keys that were never uploaded.
func (b *Backend) ReleaseTexture(key engine.TextureKey) {
	tex, ok := b.textures[key]
	if !ok {
		return
	}
	gl.DeleteTextures(1, &tex)
	delete(b.textures, key)
}
