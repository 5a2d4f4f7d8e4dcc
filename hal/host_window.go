//go:build !tinygo && cgo

package hal

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

func configureWindow(title string, width, height int) {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowClosingHandled(true)
}

// RunWindow drives step at a fixed 60 ticks per second inside a desktop window
// that displays the presented framebuffer and forwards keyboard input.
// It returns nil once step returns ErrStop. When step fails, stepping stops
// but the last presented frame stays on screen until the window is closed,
// and the failure is returned then.
func RunWindow(h HAL, step func() error) error {
	host, ok := h.(*hostHAL)
	if !ok {
		return fmt.Errorf("window mode requires the host HAL, got %T", h)
	}
	if host.framebuffer() == nil {
		return errors.New("window mode requires an open window")
	}

	g := &hostGame{h: host, step: step, closing: ebiten.IsWindowBeingClosed}
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h       *hostHAL
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
	closing func() bool
	failed  error
}

func (g *hostGame) Update() error {
	if g.failed != nil {
		if g.closing() {
			return g.failed
		}
		return nil
	}
	if kbd := g.h.kbd; kbd != nil {
		kbd.poll()
	}
	if g.step == nil {
		return nil
	}
	if err := g.step(); err != nil {
		if errors.Is(err, ErrStop) {
			return ebiten.Termination
		}
		g.failed = err
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.framebuffer()
	if fb == nil {
		return
	}
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != fb.width || g.fbImg.Bounds().Dy() != fb.height {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.scratch = make([]byte, len(fb.front.Pix))
	}

	fb.snapshot(g.scratch)
	g.fbImg.WritePixels(g.scratch)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	fb := g.h.framebuffer()
	if fb == nil {
		return outsideWidth, outsideHeight
	}
	return fb.width, fb.height
}
