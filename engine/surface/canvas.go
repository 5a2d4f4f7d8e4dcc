package surface

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"valewind/kernel"
)

// Canvas is the raw drawable handed to a Draw operation.
type Canvas struct {
	s   *Surface
	cap kernel.Capability
}

func (c *Canvas) check() error {
	if err := c.cap.Check(kernel.RightDraw); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfScope, err)
	}
	return nil
}

func (c *Canvas) Bounds() image.Rectangle { return c.s.fb.Bounds() }

// SetDrawColor sets the color used by Clear and FillRect.
func (c *Canvas) SetDrawColor(col color.RGBA) error {
	if err := c.check(); err != nil {
		return err
	}
	c.s.drawColor = col
	return nil
}

// Clear fills the whole target with the draw color.
func (c *Canvas) Clear() error {
	if err := c.check(); err != nil {
		return err
	}
	c.s.fb.Clear(c.s.drawColor)
	c.s.markDirty(c.s.fb.Bounds())
	return nil
}

// FillRect fills r with the draw color, blending when it is translucent.
func (c *Canvas) FillRect(r image.Rectangle) error {
	if err := c.check(); err != nil {
		return err
	}
	r = r.Intersect(c.s.fb.Bounds())
	if r.Empty() {
		return nil
	}
	op := xdraw.Src
	if c.s.drawColor.A != 0xFF {
		op = xdraw.Over
	}
	xdraw.Draw(c.s.fb.Buffer(), r, image.NewUniform(c.s.drawColor), image.Point{}, op)
	c.s.markDirty(r)
	return nil
}

// Copy composites t into dst, scaling when the sizes differ.
func (c *Canvas) Copy(t *Texture, dst image.Rectangle) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.s.composite(t, dst)
}

// Textures returns the factory bound to this target.
func (c *Canvas) Textures() *TextureFactory { return c.s.tex }

// Present makes the back buffer visible.
func (c *Canvas) Present() error {
	if err := c.check(); err != nil {
		return err
	}
	return c.s.present()
}
