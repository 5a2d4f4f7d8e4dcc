//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
)

const maxWindowSide = 16384

type hostHAL struct {
	mu     sync.Mutex
	inited bool
	closed bool

	kbd   *hostKeyboard
	win   *hostWindow
	fb    *hostFramebuffer
	title string
	fonts *hostFonts
}

// New returns a host HAL implementation.
//
// The window and keyboard are backed by ebiten when built with cgo; without
// cgo only headless runs are possible and input comes from Inject.
func New() HAL {
	return &hostHAL{}
}

func (h *hostHAL) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.inited = true
	return nil
}

func (h *hostHAL) ready() error {
	if h.closed {
		return ErrClosed
	}
	if !h.inited {
		return fmt.Errorf("library not initialized")
	}
	return nil
}

func (h *hostHAL) EventPump() (EventPump, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ready(); err != nil {
		return nil, err
	}
	if h.kbd == nil {
		h.kbd = newHostKeyboard()
	}
	return h.kbd, nil
}

func (h *hostHAL) Video() (Video, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ready(); err != nil {
		return nil, err
	}
	return hostVideo{h: h}, nil
}

func (h *hostHAL) Fonts() (FontSystem, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ready(); err != nil {
		return nil, err
	}
	if h.fonts == nil {
		h.fonts = newHostFonts()
	}
	return h.fonts, nil
}

func (h *hostHAL) Inject(ev RawEvent) bool {
	h.mu.Lock()
	kbd := h.kbd
	h.mu.Unlock()
	if kbd == nil {
		return false
	}
	return kbd.q.TrySend(ev)
}

func (h *hostHAL) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.inited = false
	return nil
}

// framebuffer returns the framebuffer of the open window, if any.
func (h *hostHAL) framebuffer() *hostFramebuffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fb
}

type hostVideo struct {
	h *hostHAL
}

func (v hostVideo) Window(title string, width, height int) (Window, error) {
	if width <= 0 || height <= 0 || width > maxWindowSide || height > maxWindowSide {
		return nil, fmt.Errorf("invalid window size %dx%d", width, height)
	}

	v.h.mu.Lock()
	defer v.h.mu.Unlock()
	if err := v.h.ready(); err != nil {
		return nil, err
	}
	if v.h.win != nil {
		return nil, fmt.Errorf("window already open")
	}
	v.h.title = title
	w := &hostWindow{h: v.h, title: title, width: width, height: height}
	v.h.win = w
	configureWindow(title, width, height)
	return w, nil
}

type hostWindow struct {
	h      *hostHAL
	title  string
	width  int
	height int
	closed bool
}

func (w *hostWindow) Title() string { return w.title }

func (w *hostWindow) Framebuffer() (Framebuffer, error) {
	w.h.mu.Lock()
	defer w.h.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	if w.h.fb == nil {
		w.h.fb = newHostFramebuffer(w.width, w.height)
	}
	return w.h.fb, nil
}

func (w *hostWindow) Close() error {
	w.h.mu.Lock()
	defer w.h.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.h.win == w {
		w.h.win = nil
		w.h.fb = nil
	}
	return nil
}
