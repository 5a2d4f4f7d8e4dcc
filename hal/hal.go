package hal

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

var (
	// ErrClosed is returned by native objects used after Close.
	ErrClosed = errors.New("closed")
	// ErrStop is returned by a step function to end a runner cleanly.
	ErrStop = errors.New("stop")
)

// Framebuffer is the drawable target: a back buffer plus a "present" hook.
//
// Drawing goes to Buffer; Present makes the back buffer visible.
type Framebuffer interface {
	Width() int
	Height() int
	Bounds() image.Rectangle
	Buffer() *image.RGBA
	Clear(c color.RGBA)
	Present() error
	Close() error
}

// Window is a native window owning exactly one framebuffer.
type Window interface {
	Title() string
	Framebuffer() (Framebuffer, error)
	Close() error
}

// Video is the video subsystem.
type Video interface {
	Window(title string, width, height int) (Window, error)
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
	KeySpace
)

var keyNames = [...]string{
	KeyUnknown:   "unknown",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyEnter:     "enter",
	KeyEscape:    "escape",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyDelete:    "delete",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeySpace:     "space",
}

func (k KeyCode) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// RawKind classifies a native event.
type RawKind uint8

const (
	RawOther RawKind = iota
	RawQuit
	RawKeyDown
	RawKeyUp
)

// RawEvent is an event as delivered by the native input layer.
type RawEvent struct {
	Kind RawKind
	Code KeyCode
	Rune rune
}

// EventPump drains queued native input events.
type EventPump interface {
	// Poll appends every event queued since the last call to dst and returns it.
	// It never blocks.
	Poll(dst []RawEvent) []RawEvent
	Close() error
}

// Style is a font style bit set.
type Style uint8

const (
	StyleNormal Style = 0
	StyleBold   Style = 1 << (iota - 1)
	StyleItalic
	StyleUnderline
	StyleStrikethrough

	styleKnown = StyleBold | StyleItalic | StyleUnderline | StyleStrikethrough
)

// Known reports whether s only uses defined style bits.
func (s Style) Known() bool { return s&^styleKnown == 0 }

func (s Style) String() string {
	if s == StyleNormal {
		return "normal"
	}
	var parts []string
	if s&StyleBold != 0 {
		parts = append(parts, "bold")
	}
	if s&StyleItalic != 0 {
		parts = append(parts, "italic")
	}
	if s&StyleUnderline != 0 {
		parts = append(parts, "underline")
	}
	if s&StyleStrikethrough != 0 {
		parts = append(parts, "strikethrough")
	}
	if !s.Known() {
		parts = append(parts, fmt.Sprintf("%#x", uint8(s&^styleKnown)))
	}
	return strings.Join(parts, "|")
}

// Font is a native font object. It is bound to the FontSystem that loaded it
// and must not be used after that FontSystem is closed.
type Font interface {
	SetStyle(s Style) error
	Style() Style
	// Height returns the line height in pixels.
	Height() int
	// SizeOf returns the pixel extent Render would produce for text.
	SizeOf(text string) (w, h int, err error)
	// Render rasterizes text into a new image of exactly SizeOf(text).
	Render(text string, c color.RGBA) (*image.RGBA, error)
	Close() error
}

// FontSystem is the font-rendering subsystem.
type FontSystem interface {
	Load(path string, size int) (Font, error)
	Close() error
}

// HAL is the native library context: the only contact point between the
// engine and the windowing, input and font libraries.
type HAL interface {
	Init() error
	EventPump() (EventPump, error)
	Video() (Video, error)
	Fonts() (FontSystem, error)
	Close() error
}

// Injector is implemented by HALs that accept synthetic input events
// (headless runs, tests).
type Injector interface {
	Inject(ev RawEvent) bool
}
