package fonts

import (
	"fmt"
	"image"
	"image/color"

	"valewind/hal"
	"valewind/kernel"
)

// Handle is a font rebuilt from a Descriptor. It lives no longer than the
// rendering scope (or explicit Close) that produced it and must not be kept
// across frames.
type Handle struct {
	desc   Descriptor
	f      hal.Font
	cap    kernel.Capability
	scoped bool
	closed bool
}

func (h *Handle) check() error {
	if h == nil || h.f == nil {
		return fmt.Errorf("fonts: nil handle")
	}
	if h.closed {
		return ErrExpired
	}
	if h.scoped {
		if err := h.cap.Check(kernel.RightFonts); err != nil {
			return fmt.Errorf("%w: %w", ErrExpired, err)
		}
	}
	return nil
}

// Descriptor returns the recipe the handle was built from.
func (h *Handle) Descriptor() Descriptor { return h.desc }

// Height returns the line height in pixels.
func (h *Handle) Height() (int, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return h.f.Height(), nil
}

// SizeOf measures the pixel extent of text.
func (h *Handle) SizeOf(text string) (w, hgt int, err error) {
	if err := h.check(); err != nil {
		return 0, 0, err
	}
	return h.f.SizeOf(text)
}

// Render rasterizes text into a new image sized exactly SizeOf(text).
func (h *Handle) Render(text string, c color.RGBA) (*image.RGBA, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return h.f.Render(text, c)
}

// Close releases the native font. Scoped handles are closed automatically
// when their scope ends.
func (h *Handle) Close() error {
	if h == nil || h.closed || h.f == nil {
		return nil
	}
	h.closed = true
	return h.f.Close()
}
