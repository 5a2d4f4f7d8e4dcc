package fonts

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"valewind/hal"
	"valewind/kernel"
)

type load struct {
	path string
	size int
}

type fakeSystem struct {
	loads  []load
	open   int
	broken map[string]bool
}

func (s *fakeSystem) Load(path string, size int) (hal.Font, error) {
	if s.broken[path] {
		return nil, os.ErrNotExist
	}
	if size <= 0 {
		return nil, hal.ErrUnsupportedSize
	}
	s.loads = append(s.loads, load{path, size})
	s.open++
	return &fakeFont{sys: s, size: size}, nil
}

func (s *fakeSystem) Close() error { return nil }

type fakeFont struct {
	sys   *fakeSystem
	size  int
	style hal.Style
}

func (f *fakeFont) SetStyle(st hal.Style) error {
	if st&hal.StyleStrikethrough != 0 {
		return hal.ErrUnsupportedStyle
	}
	f.style = st
	return nil
}
func (f *fakeFont) Style() hal.Style { return f.style }
func (f *fakeFont) Height() int      { return f.size }
func (f *fakeFont) SizeOf(text string) (int, int, error) {
	return len(text) * f.size / 2, f.size, nil
}
func (f *fakeFont) Render(text string, c color.RGBA) (*image.RGBA, error) {
	w, h, _ := f.SizeOf(text)
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}
func (f *fakeFont) Close() error {
	f.sys.open--
	return nil
}

func hostFonts(t *testing.T) hal.FontSystem {
	t.Helper()
	h := hal.New()
	require.NoError(t, h.Init())
	sys, err := h.Fonts()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Close(); _ = h.Close() })
	return sys
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "fixtures")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "font.ttf"), goregular.TTF, 0o644))
	return root
}

func TestRegisterResolveIdempotent(t *testing.T) {
	sys := hostFonts(t)
	c := NewCache(fixtureDir(t))

	require.NoError(t, c.Register(sys, "default", "fixtures/font.ttf", 16, StyleNormal))
	want, ok := c.Lookup("default")
	require.True(t, ok)

	for i := 0; i < 5; i++ {
		h, err := c.Resolve(sys, "default", "", 0)
		require.NoError(t, err, "resolve #%d", i)
		assert.Equal(t, want, h.Descriptor())
		w, hgt, err := h.SizeOf("Hello")
		require.NoError(t, err)
		assert.Positive(t, w)
		assert.Positive(t, hgt)
		require.NoError(t, h.Close())
	}
}

func TestResolveReconstructsEveryCall(t *testing.T) {
	sys := &fakeSystem{}
	c := NewCache("")
	require.NoError(t, c.Register(sys, "ui", "ui.ttf", 12, StyleBold))
	require.Len(t, sys.loads, 1, "trial reconstruction")
	assert.Equal(t, 0, sys.open, "trial font closed")

	for i := 0; i < 3; i++ {
		h, err := c.Resolve(sys, "ui", "", 0)
		require.NoError(t, err)
		require.NoError(t, h.Close())
	}
	assert.Len(t, sys.loads, 4)
	assert.Equal(t, 0, sys.open)
}

func TestRegisterOverwrites(t *testing.T) {
	sys := &fakeSystem{}
	c := NewCache("assets")
	require.NoError(t, c.Register(sys, "title", "a.ttf", 12, StyleNormal))
	require.NoError(t, c.Register(sys, "title", "b.ttf", 24, StyleItalic))
	assert.Equal(t, 1, c.Len())

	h, err := c.Resolve(sys, "title", "ignored.ttf", 99)
	require.NoError(t, err)
	defer h.Close()

	last := sys.loads[len(sys.loads)-1]
	assert.Equal(t, load{filepath.Join("assets", "b.ttf"), 24}, last)
	assert.Equal(t, StyleItalic, h.Descriptor().Style)
}

func TestResolveAutoRegisters(t *testing.T) {
	sys := &fakeSystem{}
	c := NewCache("")

	h, err := c.Resolve(sys, "hud", "hud.ttf", 14)
	require.NoError(t, err)
	defer h.Close()

	d, ok := c.Lookup("hud")
	require.True(t, ok)
	assert.Equal(t, Descriptor{Name: "hud", Path: "hud.ttf", Size: 14, Style: StyleNormal}, d)
	assert.Equal(t, []string{"hud"}, c.Names())
}

func TestResolveNotRegistered(t *testing.T) {
	c := NewCache("")
	_, err := c.Resolve(&fakeSystem{}, "missing", "", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotRegistered)

	var re *ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "missing", re.Name)
}

func TestRegisterErrors(t *testing.T) {
	sys := hostFonts(t)
	c := NewCache(fixtureDir(t))

	err := c.Register(sys, "nope", "fixtures/missing.ttf", 16, StyleNormal)
	assert.ErrorIs(t, err, ErrSourceUnreadable)
	var re *RegisterError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "fixtures/missing.ttf", re.Path)

	err = c.Register(sys, "odd", "fixtures/font.ttf", 16, Style(0x80))
	assert.ErrorIs(t, err, ErrUnsupportedStyle)

	err = c.Register(sys, "mono", hal.BuiltinPrefix+"freemono", 12, StyleUnderline)
	assert.ErrorIs(t, err, ErrUnsupportedStyle)

	err = c.Register(sys, "tiny", hal.BuiltinPrefix+"freemono", 7, StyleNormal)
	assert.ErrorIs(t, err, ErrUnsupportedStyle)

	err = c.Register(sys, "", "fixtures/font.ttf", 16, StyleNormal)
	assert.ErrorIs(t, err, ErrSourceUnreadable)
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.NotErrorIs(t, err, ErrUnsupportedStyle)

	for _, size := range []int{0, -3} {
		err = c.Register(sys, "zero", "fixtures/font.ttf", size, StyleNormal)
		assert.ErrorIs(t, err, ErrSourceUnreadable, "size %d", size)
		assert.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
		assert.NotErrorIs(t, err, ErrUnsupportedStyle, "size %d", size)
	}
	assert.Zero(t, c.Len(), "failed registrations must not be stored")
}

func TestResolveReconstructionFailed(t *testing.T) {
	sys := &fakeSystem{broken: map[string]bool{}}
	c := NewCache("")
	require.NoError(t, c.Register(sys, "gone", "gone.ttf", 12, StyleNormal))

	sys.broken["gone.ttf"] = true
	_, err := c.Resolve(sys, "gone", "", 0)
	assert.ErrorIs(t, err, ErrReconstructionFailed)
	assert.ErrorIs(t, err, ErrSourceUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = c.Resolve(sys, "fresh", "gone.ttf", 12)
	assert.ErrorIs(t, err, ErrReconstructionFailed)
	_, ok := c.Lookup("fresh")
	assert.False(t, ok)
}

func TestScopeExpires(t *testing.T) {
	sys := &fakeSystem{}
	c := NewCache("")
	grant := kernel.Grant(kernel.RightDraw | kernel.RightFonts)
	s := NewScope(c, sys, grant.Restrict(kernel.RightFonts))

	require.NoError(t, s.Register("a", "a.ttf", 10, StyleNormal))
	h, err := s.Resolve("a", "", 0)
	require.NoError(t, err)
	_, _, err = h.SizeOf("x")
	require.NoError(t, err)
	assert.Equal(t, 1, sys.open)

	grant.Revoke()
	require.NoError(t, s.End())
	assert.Equal(t, 0, sys.open, "scope end closes handles")

	_, _, err = h.SizeOf("x")
	assert.ErrorIs(t, err, ErrExpired)
	_, err = s.Resolve("a", "", 0)
	assert.ErrorIs(t, err, ErrExpired)
	assert.ErrorIs(t, s.Register("b", "b.ttf", 10, StyleNormal), ErrExpired)
	_, ok := s.Lookup("a")
	assert.False(t, ok)

	// the recipe outlives the scope
	_, ok = c.Lookup("a")
	assert.True(t, ok)
}

func TestScopeRevokedBeforeEnd(t *testing.T) {
	sys := &fakeSystem{}
	grant := kernel.Grant(kernel.RightFonts)
	s := NewScope(NewCache(""), sys, grant)
	h, err := s.Resolve("a", "a.ttf", 10)
	require.NoError(t, err)

	grant.Revoke()
	_, err = h.Render("x", color.RGBA{})
	assert.ErrorIs(t, err, ErrExpired)
	assert.ErrorIs(t, err, kernel.ErrRevoked)
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"", StyleNormal},
		{"Normal", StyleNormal},
		{"bold", StyleBold},
		{"bold|italic", StyleBold | StyleItalic},
		{" underline | strikethrough ", StyleUnderline | StyleStrikethrough},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		if tt.want != StyleNormal {
			again, err := ParseStyle(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again, fmt.Sprintf("round trip %q", got))
		}
	}

	_, err := ParseStyle("wavy")
	assert.ErrorIs(t, err, ErrUnsupportedStyle)
}
