// Package app is the Valewind game state driven by the engine loop.
package app

import (
	"fmt"
	"image/color"

	"valewind/engine"
	"valewind/engine/fonts"
	"valewind/engine/surface"
	"valewind/hal"
)

// DefaultFont is the font name the greeting is drawn with.
const DefaultFont = "default"

// FallbackFont is registered as DefaultFont when the configuration does not
// provide one, or when the configured one cannot be loaded.
var FallbackFont = FontSpec{Name: DefaultFont, Path: hal.BuiltinPrefix + "freemono", Size: 18}

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// FontSpec is a font to register on the first frame.
type FontSpec struct {
	Name  string
	Path  string
	Size  int
	Style fonts.Style
}

type Config struct {
	Fonts []FontSpec
}

// Game cycles the clear color and greets with the frame counter.
type Game struct {
	cfg        Config
	i          int
	registered bool
}

func New(cfg Config) *Game {
	return &Game{cfg: cfg}
}

// Counter returns the value shown by the greeting, in [0, 255).
func (g *Game) Counter() int { return g.i }

// Tick advances the counter.
func (g *Game) Tick() error {
	g.i = (g.i + 1) % 255
	return nil
}

// ClearColor returns the background of the current frame.
func (g *Game) ClearColor() color.RGBA {
	return color.RGBA{R: uint8(g.i), G: 64, B: uint8(255 - g.i), A: 0xFF}
}

// Greeting returns the text of the current frame.
func (g *Game) Greeting() string {
	return fmt.Sprintf("Hello, Valewind %d", g.i)
}

// Draw clears the frame and renders the greeting at (10, 10).
func (g *Game) Draw(s *surface.Surface, fc *fonts.Scope) error {
	if !g.registered {
		g.register(fc)
		g.registered = true
	}

	bg := g.ClearColor()
	err := s.Draw(func(c *surface.Canvas) error {
		if err := c.SetDrawColor(bg); err != nil {
			return err
		}
		return c.Clear()
	})
	if err != nil {
		return err
	}

	h, err := fc.Resolve(DefaultFont, "", 0)
	if err != nil {
		return err
	}
	return s.RenderText(g.Greeting(), h, white, 10, 10)
}

func (g *Game) register(fc *fonts.Scope) {
	for _, f := range g.cfg.Fonts {
		if err := fc.Register(f.Name, f.Path, f.Size, f.Style); err != nil {
			engine.Logger().Warn("app: font not registered", "name", f.Name, "err", err)
			continue
		}
		engine.Logger().Info("app: font registered", "name", f.Name, "path", f.Path, "size", f.Size)
	}
	if _, ok := fc.Lookup(DefaultFont); ok {
		return
	}
	f := FallbackFont
	if err := fc.Register(f.Name, f.Path, f.Size, f.Style); err != nil {
		engine.Logger().Warn("app: fallback font not registered", "err", err)
	}
}
