package surface

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// TextureFactory turns images into textures that can be composited onto the
// surface it belongs to, and only that surface.
type TextureFactory struct {
	s *Surface
}

// Texture is a display-composable image owned by one TextureFactory.
type Texture struct {
	owner *TextureFactory
	img   *image.RGBA
}

// Size returns the texture dimensions.
func (t *Texture) Size() (w, h int) {
	return t.img.Rect.Dx(), t.img.Rect.Dy()
}

// FromImage copies img into a new texture in the target's pixel format.
func (f *TextureFactory) FromImage(img image.Image) (*Texture, error) {
	if err := f.s.check(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errEmptyTexture
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errEmptyTexture
	}
	if b.Dx() > MaxTextureSize || b.Dy() > MaxTextureSize {
		return nil, fmt.Errorf("texture %dx%d exceeds %d", b.Dx(), b.Dy(), MaxTextureSize)
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Rect, img, b.Min, xdraw.Src)
	return &Texture{owner: f, img: dst}, nil
}
