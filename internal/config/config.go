// Package config loads the Valewind TOML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"valewind/app"
	"valewind/engine/broker"
	"valewind/engine/fonts"
)

const maxSide = 16384

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type Assets struct {
	// Path is the root relative font paths are resolved against. When the
	// file is loaded from disk, a relative Path is relative to the file.
	Path string `toml:"path"`
}

type Loop struct {
	Hz       int    `toml:"hz"`
	Ticks    uint64 `toml:"ticks"`
	Headless bool   `toml:"headless"`
}

type Log struct {
	Level string `toml:"level"`
}

type Font struct {
	Name  string `toml:"name"`
	Path  string `toml:"path"`
	Size  int    `toml:"size"`
	Style string `toml:"style,omitempty"`
}

// File is the whole configuration.
type File struct {
	Window Window `toml:"window"`
	Assets Assets `toml:"assets"`
	Loop   Loop   `toml:"loop"`
	Log    Log    `toml:"log"`
	Fonts  []Font `toml:"fonts"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	bc := broker.DefaultConfig()
	return File{
		Window: Window{Title: "Valewind", Width: bc.CanvasWidth, Height: bc.CanvasHeight},
		Loop:   Loop{Hz: 60},
		Log:    Log{Level: "info"},
	}
}

// Parse decodes data on top of Default and validates the result. Unknown
// keys are an error.
func Parse(data []byte) (File, error) {
	f := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return File{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return File{}, fmt.Errorf("config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Load reads and parses the file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	if f.Assets.Path != "" && !filepath.IsAbs(f.Assets.Path) {
		f.Assets.Path = filepath.Join(filepath.Dir(path), f.Assets.Path)
	}
	return f, nil
}

// Marshal encodes f as TOML.
func (f File) Marshal() ([]byte, error) {
	return toml.Marshal(f)
}

// Validate checks value ranges. It reports every problem at once.
func (f File) Validate() error {
	var errs []error
	if f.Window.Width <= 0 || f.Window.Width > maxSide {
		errs = append(errs, fmt.Errorf("window.width %d out of range 1..%d", f.Window.Width, maxSide))
	}
	if f.Window.Height <= 0 || f.Window.Height > maxSide {
		errs = append(errs, fmt.Errorf("window.height %d out of range 1..%d", f.Window.Height, maxSide))
	}
	if f.Loop.Hz <= 0 || f.Loop.Hz > 1000 {
		errs = append(errs, fmt.Errorf("loop.hz %d out of range 1..1000", f.Loop.Hz))
	}
	if _, err := f.Level(); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]bool, len(f.Fonts))
	for i, fn := range f.Fonts {
		switch {
		case fn.Name == "":
			errs = append(errs, fmt.Errorf("fonts[%d]: empty name", i))
		case seen[fn.Name]:
			errs = append(errs, fmt.Errorf("fonts[%d]: duplicate name %q", i, fn.Name))
		}
		seen[fn.Name] = true
		if fn.Path == "" {
			errs = append(errs, fmt.Errorf("fonts[%d] %q: empty path", i, fn.Name))
		}
		if fn.Size <= 0 {
			errs = append(errs, fmt.Errorf("fonts[%d] %q: size %d must be positive", i, fn.Name, fn.Size))
		}
		if _, err := fonts.ParseStyle(fn.Style); err != nil {
			errs = append(errs, fmt.Errorf("fonts[%d] %q: %w", i, fn.Name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (f File) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(f.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// BrokerConfig returns the broker construction configuration.
func (f File) BrokerConfig() broker.Config {
	return broker.Config{
		Title:        f.Window.Title,
		CanvasWidth:  f.Window.Width,
		CanvasHeight: f.Window.Height,
		AssetsPath:   f.Assets.Path,
	}
}

// AppConfig returns the game configuration. Fonts with an invalid style are
// skipped; Validate reports them.
func (f File) AppConfig() app.Config {
	var cfg app.Config
	for _, fn := range f.Fonts {
		st, err := fonts.ParseStyle(fn.Style)
		if err != nil {
			continue
		}
		cfg.Fonts = append(cfg.Fonts, app.FontSpec{Name: fn.Name, Path: fn.Path, Size: fn.Size, Style: st})
	}
	return cfg
}
