package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"valewind/engine"
	"valewind/engine/broker"
	"valewind/engine/fonts"
	"valewind/engine/surface"
	"valewind/hal"
)

var panicFont = FontSpec{Name: "panic", Path: hal.BuiltinPrefix + "freemono", Size: 9}

// PanicError is returned by a guarded step that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Guard wraps step so that a panic is logged, drawn as a panic screen and
// returned as a *PanicError.
func Guard(b *broker.Broker, step func() error) func() error {
	return func() (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			pe := &PanicError{Value: r, Stack: debug.Stack()}
			engine.Logger().Error("app: panic", "panic", r, "stack", string(pe.Stack))
			if derr := showPanic(b, pe); derr != nil {
				engine.Logger().Warn("app: panic screen", "err", derr)
			}
			err = pe
		}()
		return step()
	}
}

func showPanic(b *broker.Broker, pe *PanicError) error {
	return b.WithRendering(func(s *surface.Surface, fc *fonts.Scope) error {
		err := s.Draw(func(c *surface.Canvas) error {
			if err := c.SetDrawColor(white); err != nil {
				return err
			}
			return c.Clear()
		})
		if err != nil {
			return err
		}

		if _, ok := fc.Lookup(panicFont.Name); !ok {
			if err := fc.Register(panicFont.Name, panicFont.Path, panicFont.Size, panicFont.Style); err != nil {
				return err
			}
		}
		h, err := fc.Resolve(panicFont.Name, "", 0)
		if err != nil {
			return err
		}
		charW, lineH, err := h.SizeOf("0")
		if err != nil {
			return err
		}
		if charW <= 0 || lineH <= 0 {
			return s.Present()
		}

		lines := []string{"Valewind panic:", fmt.Sprintf("panic: %v", pe.Value)}
		if len(pe.Stack) > 0 {
			lines = append(lines, "stack:")
			for _, line := range strings.Split(string(pe.Stack), "\n") {
				if line != "" {
					lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
				}
			}
		} else {
			lines = append(lines, "stack: unavailable")
		}

		fg := color.RGBA{A: 0xFF}
		bounds := s.Bounds()
		cols := bounds.Dx() / charW
		if cols <= 0 {
			cols = 1
		}
		y := 0
	draw:
		for _, line := range lines {
			for len(line) > 0 {
				if y+lineH > bounds.Dy() {
					break draw
				}
				chunk, rest := takeRunes(line, cols)
				if err := s.RenderText(chunk, h, fg, 0, y); err != nil {
					return err
				}
				y += lineH
				line = strings.TrimLeft(rest, " ")
			}
		}
		return s.Present()
	})
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
