// Package broker owns the native library context and every resource derived
// from it, and hands out scoped access to them.
//
// Two kinds of scope exist. A rendering scope gets the surface together with
// the font cache and font subsystem; an input scope gets the event source
// alone. Only one scope is active at a time, and everything a scope hands out
// is revoked when the scope returns.
package broker

import (
	"errors"
	"fmt"
	"sync"

	"valewind/engine"
	"valewind/engine/events"
	"valewind/engine/fonts"
	"valewind/engine/surface"
	"valewind/hal"
	"valewind/kernel"
)

// State is the broker lifecycle state.
type State uint8

const (
	Uninitialized State = iota
	Initializing
	Ready
	ShuttingDown
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case ShuttingDown:
		return "shutting-down"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

type release struct {
	what string
	fn   func() error
}

// Broker is the exclusive owner of the library context, the drawable, the
// event pump and the font subsystem.
type Broker struct {
	mu     sync.Mutex
	state  State
	active bool

	cfg      Config
	releases []release

	surf  *surface.Surface
	cache *fonts.Cache
	sys   hal.FontSystem
	src   *events.Source
}

// New initializes h and acquires, in order, the event pump, a window with its
// framebuffer and the font subsystem. On failure everything acquired so far
// is released in reverse order and a *ContextError is returned.
func New(h hal.HAL, cfg Config) (*Broker, error) {
	if h == nil {
		return nil, &ContextError{Stage: StageLibrary, Err: errors.New("nil HAL")}
	}
	b := &Broker{state: Initializing, cfg: cfg.withDefaults()}
	if err := b.acquire(h); err != nil {
		if rerr := b.releaseAll(); rerr != nil {
			engine.Logger().Warn("broker: release after failed init", "err", rerr)
		}
		b.state = Terminated
		return nil, err
	}

	b.state = Ready
	engine.Logger().Info("broker: ready",
		"title", b.cfg.Title, "width", b.cfg.CanvasWidth, "height", b.cfg.CanvasHeight,
		"assets", b.cfg.AssetsPath)
	return b, nil
}

func (b *Broker) push(what string, fn func() error) {
	b.releases = append(b.releases, release{what: what, fn: fn})
}

func (b *Broker) acquire(h hal.HAL) error {
	if err := h.Init(); err != nil {
		return &ContextError{Stage: StageLibrary, Err: err}
	}
	b.push("library", h.Close)

	pump, err := h.EventPump()
	if err != nil {
		return &ContextError{Stage: StageInput, Err: err}
	}
	b.push("input", pump.Close)

	video, err := h.Video()
	if err != nil {
		return &ContextError{Stage: StageVideo, Err: err}
	}
	win, err := video.Window(b.cfg.Title, b.cfg.CanvasWidth, b.cfg.CanvasHeight)
	if err != nil {
		return &ContextError{Stage: StageWindow, Err: err}
	}
	b.push("window", win.Close)

	fb, err := win.Framebuffer()
	if err != nil {
		return &ContextError{Stage: StageFramebuffer, Err: err}
	}
	b.push("framebuffer", fb.Close)

	sys, err := h.Fonts()
	if err != nil {
		return &ContextError{Stage: StageFonts, Err: err}
	}
	b.push("fonts", sys.Close)

	b.src = events.NewSource(pump)
	b.surf = surface.New(fb)
	b.cache = fonts.NewCache(b.cfg.AssetsPath)
	b.sys = sys
	return nil
}

// releaseAll runs the release stack in reverse acquisition order.
func (b *Broker) releaseAll() error {
	var errs []error
	for i := len(b.releases) - 1; i >= 0; i-- {
		r := b.releases[i]
		if err := r.fn(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", r.what, err))
		}
		engine.Logger().Debug("broker: released", "what", r.what)
	}
	b.releases = nil
	return errors.Join(errs...)
}

// State returns the current lifecycle state.
func (b *Broker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Config returns the effective configuration.
func (b *Broker) Config() Config { return b.cfg }

func (b *Broker) enter(rights kernel.Rights) (kernel.Capability, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Ready {
		return kernel.Capability{}, fmt.Errorf("%w: %s", ErrNotReady, b.state)
	}
	if b.active {
		return kernel.Capability{}, ErrBusy
	}
	b.active = true
	return kernel.Grant(rights), nil
}

func (b *Broker) leave(grant kernel.Capability) {
	grant.Revoke()
	b.mu.Lock()
	b.active = false
	b.mu.Unlock()
}

// WithRendering runs op with the surface and a font cache scope bound to the
// font subsystem. Neither may be retained: both, and every font handle
// resolved through the scope, stop working when WithRendering returns.
// The error returned by op is returned unchanged.
func (b *Broker) WithRendering(op func(s *surface.Surface, fc *fonts.Scope) error) error {
	grant, err := b.enter(kernel.RightDraw | kernel.RightFonts)
	if err != nil {
		return err
	}
	fc := fonts.NewScope(b.cache, b.sys, grant.Restrict(kernel.RightFonts))
	defer func() {
		b.leave(grant)
		if err := fc.End(); err != nil {
			engine.Logger().Warn("broker: closing scoped fonts", "err", err)
		}
	}()
	b.surf.Bind(grant.Restrict(kernel.RightDraw))
	return op(b.surf, fc)
}

// WithInput runs op with the event source. The source stops working when
// WithInput returns.
func (b *Broker) WithInput(op func(src *events.Source) error) error {
	grant, err := b.enter(kernel.RightInput)
	if err != nil {
		return err
	}
	defer b.leave(grant)
	b.src.Bind(grant)
	return op(b.src)
}

// Close releases, in order, the font subsystem, the framebuffer, the window,
// the event pump and the library context. Calling it again is a no-op. It
// fails with ErrBusy from inside a scope.
func (b *Broker) Close() error {
	b.mu.Lock()
	switch {
	case b.state == ShuttingDown || b.state == Terminated:
		b.mu.Unlock()
		return nil
	case b.active:
		b.mu.Unlock()
		return ErrBusy
	}
	b.state = ShuttingDown
	b.mu.Unlock()

	engine.Logger().Info("broker: shutting down")
	err := b.releaseAll()

	b.mu.Lock()
	b.state = Terminated
	b.mu.Unlock()
	return err
}
