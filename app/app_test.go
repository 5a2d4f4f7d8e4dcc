package app

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"valewind/engine/broker"
	"valewind/engine/fonts"
	"valewind/engine/loop"
	"valewind/engine/surface"
	"valewind/hal"
)

func newBroker(t *testing.T, assets string) *broker.Broker {
	t.Helper()
	b, err := broker.NewBuilder().Title("app").CanvasSize(320, 120).AssetsPath(assets).Build(hal.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// spyHAL keeps the framebuffer the broker opens.
type spyHAL struct {
	hal.HAL
	fb hal.Framebuffer
}

func (s *spyHAL) Video() (hal.Video, error) {
	v, err := s.HAL.Video()
	if err != nil {
		return nil, err
	}
	return spyVideo{Video: v, s: s}, nil
}

type spyVideo struct {
	hal.Video
	s *spyHAL
}

func (v spyVideo) Window(title string, w, h int) (hal.Window, error) {
	win, err := v.Video.Window(title, w, h)
	if err != nil {
		return nil, err
	}
	return spyWindow{Window: win, s: v.s}, nil
}

type spyWindow struct {
	hal.Window
	s *spyHAL
}

func (w spyWindow) Framebuffer() (hal.Framebuffer, error) {
	fb, err := w.Window.Framebuffer()
	w.s.fb = fb
	return fb, err
}

func TestCounterAndColor(t *testing.T) {
	g := New(Config{})
	assert.Equal(t, "Hello, Valewind 0", g.Greeting())
	require.NoError(t, g.Tick())
	assert.Equal(t, 1, g.Counter())
	assert.Equal(t, color.RGBA{R: 1, G: 64, B: 254, A: 0xFF}, g.ClearColor())

	for range 254 {
		require.NoError(t, g.Tick())
	}
	assert.Equal(t, 0, g.Counter(), "counter wraps at 255")
	assert.Equal(t, color.RGBA{R: 0, G: 64, B: 255, A: 0xFF}, g.ClearColor())
}

func TestDrawUsesFallbackFont(t *testing.T) {
	b := newBroker(t, "")
	g := New(Config{Fonts: []FontSpec{{Name: "broken", Path: "nope.ttf", Size: 12}}})
	require.NoError(t, g.Tick())

	require.NoError(t, b.WithRendering(func(s *surface.Surface, fc *fonts.Scope) error {
		require.NoError(t, g.Draw(s, fc))

		_, ok := fc.Lookup("broken")
		assert.False(t, ok)
		d, ok := fc.Lookup(DefaultFont)
		require.True(t, ok)
		assert.Equal(t, FallbackFont.Path, d.Path)

		assert.Equal(t, s.Bounds(), s.Dirty())
		return nil
	}))
}

func TestDrawWithConfiguredFont(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "font.ttf"), goregular.TTF, 0o644))

	b := newBroker(t, dir)
	g := New(Config{Fonts: []FontSpec{{Name: DefaultFont, Path: "font.ttf", Size: 16}}})
	d := loop.New(b, g)

	require.NoError(t, d.Step())
	require.NoError(t, d.Step())
	assert.Equal(t, 2, g.Counter())

	require.NoError(t, b.WithRendering(func(_ *surface.Surface, fc *fonts.Scope) error {
		desc, ok := fc.Lookup(DefaultFont)
		require.True(t, ok)
		assert.Equal(t, "font.ttf", desc.Path)
		assert.Equal(t, 16, desc.Size)
		return nil
	}))
}

func TestGuard(t *testing.T) {
	spy := &spyHAL{HAL: hal.New()}
	b, err := broker.NewBuilder().Title("app").CanvasSize(320, 120).Build(spy)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	require.NotNil(t, spy.fb)
	frames := spy.fb.(interface{ Frames() uint64 })

	ok := Guard(b, func() error { return nil })
	assert.NoError(t, ok())

	boom := errors.New("boom")
	assert.ErrorIs(t, Guard(b, func() error { return boom })(), boom)
	assert.Zero(t, frames.Frames(), "plain errors draw nothing")

	err = Guard(b, func() error {
		return b.WithRendering(func(*surface.Surface, *fonts.Scope) error {
			panic("tick exploded")
		})
	})()
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "tick exploded", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.Equal(t, broker.Ready, b.State())

	assert.Equal(t, uint64(1), frames.Frames(), "panic screen presented")
	buf := spy.fb.Buffer()
	assert.Equal(t, white, buf.RGBAAt(buf.Rect.Max.X-1, 0), "cleared to white")
	var ink bool
	for i := 0; i < len(buf.Pix) && !ink; i += 4 {
		ink = buf.Pix[i] < 0x80
	}
	assert.True(t, ink, "panic text drawn")
}

func TestTakeRunes(t *testing.T) {
	p, r := takeRunes("héllo world", 5)
	assert.Equal(t, "héllo", p)
	assert.Equal(t, " world", r)

	p, r = takeRunes("abc", 5)
	assert.Equal(t, "abc", p)
	assert.Empty(t, r)

	p, r = takeRunes("abc", 0)
	assert.Empty(t, p)
	assert.Equal(t, "abc", r)

	p, _ = takeRunes(strings.Repeat("x", 10), 3)
	assert.Equal(t, "xxx", p)
}
