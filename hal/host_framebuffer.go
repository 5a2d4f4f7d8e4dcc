//go:build !tinygo

package hal

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	back   *image.RGBA
	front  *image.RGBA
	frames uint64
	closed bool
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	r := image.Rect(0, 0, width, height)
	return &hostFramebuffer{
		width:  width,
		height: height,
		back:   image.NewRGBA(r),
		front:  image.NewRGBA(r),
	}
}

func (f *hostFramebuffer) Width() int              { return f.width }
func (f *hostFramebuffer) Height() int             { return f.height }
func (f *hostFramebuffer) Bounds() image.Rectangle { return f.back.Rect }
func (f *hostFramebuffer) Buffer() *image.RGBA     { return f.back }

func (f *hostFramebuffer) Clear(c color.RGBA) {
	draw.Draw(f.back, f.back.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// Present copies the back buffer to the front buffer read by the window.
func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	copy(f.front.Pix, f.back.Pix)
	f.frames++
	return nil
}

// Frames returns the number of presented frames.
func (f *hostFramebuffer) Frames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

func (f *hostFramebuffer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *hostFramebuffer) snapshot(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front.Pix)
}
