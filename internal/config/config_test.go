package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valewind/app"
	"valewind/engine/broker"
	"valewind/engine/fonts"
)

const sample = `
[window]
title = "Demo"
width = 640
height = 480

[assets]
path = "assets"

[loop]
hz = 30
ticks = 10
headless = true

[log]
level = "debug"

[[fonts]]
name = "default"
path = "font.ttf"
size = 16

[[fonts]]
name = "title"
path = "builtin:freesans"
size = 24
style = "bold|italic"
`

func TestDefault(t *testing.T) {
	f := Default()
	require.NoError(t, f.Validate())
	assert.Equal(t, broker.Config{Title: "Valewind", CanvasWidth: 800, CanvasHeight: 600}, f.BrokerConfig())
	lvl, err := f.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
	assert.Empty(t, f.AppConfig().Fonts)
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, broker.Config{Title: "Demo", CanvasWidth: 640, CanvasHeight: 480, AssetsPath: "assets"}, f.BrokerConfig())
	assert.Equal(t, Loop{Hz: 30, Ticks: 10, Headless: true}, f.Loop)
	lvl, err := f.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	assert.Equal(t, app.Config{Fonts: []app.FontSpec{
		{Name: "default", Path: "font.ttf", Size: 16, Style: fonts.StyleNormal},
		{Name: "title", Path: "builtin:freesans", Size: 24, Style: fonts.StyleBold | fonts.StyleItalic},
	}}, f.AppConfig())
}

func TestParseKeepsDefaults(t *testing.T) {
	f, err := Parse([]byte("[window]\ntitle = \"x\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 800, f.Window.Width)
	assert.Equal(t, 60, f.Loop.Hz)
	assert.Equal(t, "info", f.Log.Level)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":      "[window\n",
		"unknown key": "[window]\ncolour = 1\n",
		"width":       "[window]\nwidth = 0\n",
		"hz":          "[loop]\nhz = -1\n",
		"level":       "[log]\nlevel = \"loud\"\n",
		"font name":   "[[fonts]]\npath = \"a.ttf\"\nsize = 1\n",
		"font dup":    "[[fonts]]\nname = \"a\"\npath = \"a.ttf\"\nsize = 1\n[[fonts]]\nname = \"a\"\npath = \"b.ttf\"\nsize = 1\n",
		"font size":   "[[fonts]]\nname = \"a\"\npath = \"a.ttf\"\nsize = 0\n",
		"font style":  "[[fonts]]\nname = \"a\"\npath = \"a.ttf\"\nsize = 1\nstyle = \"wavy\"\n",
		"wrong type":  "[window]\nwidth = \"wide\"\n",
		"empty path":  "[[fonts]]\nname = \"a\"\nsize = 1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("[[fonts]]\nname = \"a\"\npath = \"a.ttf\"\nsize = 1\nstyle = \"wavy\"\n"))
	assert.ErrorIs(t, err, fonts.ErrUnsupportedStyle)
}

func TestLoadResolvesAssetsRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "valewind.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "assets"), f.Assets.Path)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalRoundTrip(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	data, err := f.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}
