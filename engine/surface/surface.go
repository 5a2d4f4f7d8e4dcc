// Package surface owns the drawable target and the texture factory tied to it.
//
// All drawing happens inside a rendering scope granted by the broker. There is
// no texture cache: RenderText rasterizes and uploads on every call.
package surface

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"valewind/engine/fonts"
	"valewind/hal"
	"valewind/kernel"
)

// MaxTextureSize is the largest texture side the factory accepts.
const MaxTextureSize = 8192

// Surface is the single drawable target of a broker.
type Surface struct {
	fb      hal.Framebuffer
	tex     *TextureFactory
	cap     kernel.Capability
	drawing bool

	drawColor color.RGBA
	dirty     image.Rectangle
}

// New wraps fb. The surface is unusable until Bind hands it a capability.
func New(fb hal.Framebuffer) *Surface {
	s := &Surface{fb: fb, drawColor: color.RGBA{A: 0xFF}}
	s.tex = &TextureFactory{s: s}
	return s
}

// Bind attaches the capability of the current rendering scope. Only the
// owner of the surface calls it; revoking cap ends access.
func (s *Surface) Bind(cap kernel.Capability) {
	s.cap = cap
}

func (s *Surface) check() error {
	if err := s.cap.Check(kernel.RightDraw); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfScope, err)
	}
	return nil
}

// Bounds returns the target rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.fb.Bounds() }

// Dirty returns the union of regions changed since the last Present.
func (s *Surface) Dirty() image.Rectangle { return s.dirty }

// Draw runs op with exclusive access to the raw target. The Canvas passed to
// op is revoked when Draw returns; op's error is returned unchanged.
func (s *Surface) Draw(op func(*Canvas) error) error {
	if err := s.check(); err != nil {
		return err
	}
	if s.drawing {
		return ErrDrawBusy
	}
	sub := s.cap.Sub(kernel.RightDraw)
	s.drawing = true
	defer func() {
		sub.Revoke()
		s.drawing = false
	}()
	return op(&Canvas{s: s, cap: sub})
}

// RenderText measures text with h, rasterizes it, uploads it as a texture and
// composites it with its top-left corner at (x, y). Text whose measured size
// exceeds MaxTextureSize is rejected before rasterizing. It does not present.
func (s *Surface) RenderText(text string, h *fonts.Handle, c color.RGBA, x, y int) error {
	if err := s.check(); err != nil {
		return err
	}
	if s.drawing {
		return ErrDrawBusy
	}

	w, hgt, err := h.SizeOf(text)
	if err != nil {
		return &TextRenderError{Text: text, Kind: ErrRasterize, Err: err}
	}
	if w > MaxTextureSize || hgt > MaxTextureSize {
		return &TextRenderError{Text: text, Kind: ErrTextureUpload,
			Err: fmt.Errorf("text %dx%d exceeds %d", w, hgt, MaxTextureSize)}
	}
	img, err := h.Render(text, c)
	if err != nil {
		return &TextRenderError{Text: text, Kind: ErrRasterize, Err: err}
	}
	tex, err := s.tex.FromImage(img)
	if err != nil {
		return &TextRenderError{Text: text, Kind: ErrTextureUpload, Err: err}
	}
	if err := s.composite(tex, image.Rect(x, y, x+w, y+hgt)); err != nil {
		return &TextRenderError{Text: text, Kind: ErrComposite, Err: err}
	}
	return nil
}

// Present makes the back buffer visible and resets the dirty region.
func (s *Surface) Present() error {
	if err := s.check(); err != nil {
		return err
	}
	return s.present()
}

func (s *Surface) present() error {
	if err := s.fb.Present(); err != nil {
		return err
	}
	s.dirty = image.Rectangle{}
	return nil
}

func (s *Surface) markDirty(r image.Rectangle) {
	r = r.Intersect(s.fb.Bounds())
	if r.Empty() {
		return
	}
	s.dirty = s.dirty.Union(r)
}

func (s *Surface) composite(t *Texture, dst image.Rectangle) error {
	if t == nil || t.img == nil {
		return errEmptyTexture
	}
	if t.owner != s.tex {
		return errForeignTexture
	}
	if dst.Empty() {
		return fmt.Errorf("empty destination %v", dst)
	}
	back := s.fb.Buffer()
	if back == nil {
		return fmt.Errorf("no back buffer")
	}
	if dst.Size() == t.img.Rect.Size() {
		xdraw.Draw(back, dst, t.img, image.Point{}, xdraw.Over)
	} else {
		xdraw.ApproxBiLinear.Scale(back, dst, t.img, t.img.Rect, xdraw.Over, nil)
	}
	s.markDirty(dst)
	return nil
}
