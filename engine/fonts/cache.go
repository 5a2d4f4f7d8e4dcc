// Package fonts caches font recipes by logical name and reconstructs
// short-lived font handles from them on demand.
//
// The cache never stores a native font. A native font is only valid while the
// font subsystem that loaded it is alive, so the cache keeps the parameters
// needed to rebuild it (path, size, style) and every Resolve loads the font
// again through the subsystem the caller passes in. This repeats disk and
// rasterizer work on every call; it is a known cost, not an oversight.
package fonts

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"valewind/engine"
	"valewind/hal"
)

type Style = hal.Style

const (
	StyleNormal        = hal.StyleNormal
	StyleBold          = hal.StyleBold
	StyleItalic        = hal.StyleItalic
	StyleUnderline     = hal.StyleUnderline
	StyleStrikethrough = hal.StyleStrikethrough
)

// ParseStyle parses "normal" or a "|"-separated list of
// bold, italic, underline, strikethrough.
func ParseStyle(s string) (Style, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "normal" {
		return StyleNormal, nil
	}
	var st Style
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(part) {
		case "bold":
			st |= StyleBold
		case "italic":
			st |= StyleItalic
		case "underline":
			st |= StyleUnderline
		case "strikethrough":
			st |= StyleStrikethrough
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnsupportedStyle, part)
		}
	}
	return st, nil
}

// Descriptor is the recipe for a font.
type Descriptor struct {
	Name  string
	Path  string
	Size  int
	Style Style
}

// Cache maps logical font names to descriptors.
//
// It is not safe for concurrent use; the broker hands it out to one
// rendering scope at a time.
type Cache struct {
	root  string
	descs map[string]Descriptor
}

// NewCache returns an empty cache. Relative descriptor paths are resolved
// against assetsRoot when it is not empty.
func NewCache(assetsRoot string) *Cache {
	return &Cache{root: assetsRoot, descs: make(map[string]Descriptor)}
}

// Register validates the recipe by building (and closing) a trial font, then
// stores it under name, replacing any previous descriptor.
func (c *Cache) Register(sys hal.FontSystem, name, path string, size int, style Style) error {
	if name == "" {
		return &RegisterError{Name: name, Path: path, Kind: ErrSourceUnreadable, Err: ErrEmptyName}
	}
	if size <= 0 {
		return &RegisterError{Name: name, Path: path, Kind: ErrSourceUnreadable, Err: fmt.Errorf("%w: %d", ErrInvalidSize, size)}
	}
	d := Descriptor{Name: name, Path: path, Size: size, Style: style}
	f, kind, err := c.construct(sys, d)
	if err != nil {
		return &RegisterError{Name: name, Path: path, Kind: kind, Err: err}
	}
	if err := f.Close(); err != nil {
		engine.Logger().Warn("fonts: closing trial font", "name", name, "err", err)
	}

	if old, ok := c.descs[name]; ok && old != d {
		engine.Logger().Debug("fonts: descriptor replaced", "name", name, "old", old.Path, "new", path)
	}
	c.descs[name] = d
	return nil
}

// Resolve builds a font for name using sys. When name is unknown and path is
// not empty, a descriptor (path, size, normal style) is registered first.
//
// The returned handle is unscoped: the caller must Close it, and it stops
// working once sys is closed.
func (c *Cache) Resolve(sys hal.FontSystem, name, path string, size int) (*Handle, error) {
	d, ok := c.descs[name]
	if !ok {
		if path == "" {
			return nil, &ResolveError{Name: name, Kind: ErrNotRegistered}
		}
		if err := c.Register(sys, name, path, size, StyleNormal); err != nil {
			return nil, &ResolveError{Name: name, Kind: ErrReconstructionFailed, Err: err}
		}
		d = c.descs[name]
	}

	f, kind, err := c.construct(sys, d)
	if err != nil {
		return nil, &ResolveError{Name: name, Kind: ErrReconstructionFailed, Err: fmt.Errorf("%w: %w", kind, err)}
	}
	engine.Logger().Debug("fonts: reconstructed", "name", name, "path", d.Path, "size", d.Size, "style", d.Style)
	return &Handle{desc: d, f: f}, nil
}

// Lookup returns the descriptor registered under name.
func (c *Cache) Lookup(name string) (Descriptor, bool) {
	d, ok := c.descs[name]
	return d, ok
}

// Names returns the registered names in sorted order.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.descs))
	for name := range c.descs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered descriptors.
func (c *Cache) Len() int { return len(c.descs) }

func (c *Cache) path(p string) string {
	if c.root == "" || strings.HasPrefix(p, hal.BuiltinPrefix) || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// construct loads and styles a font for d. On failure kind is
// ErrSourceUnreadable or ErrUnsupportedStyle and err is the native cause. A
// positive size the font cannot provide counts as an unsupported style.
func (c *Cache) construct(sys hal.FontSystem, d Descriptor) (f hal.Font, kind, err error) {
	if sys == nil {
		return nil, ErrSourceUnreadable, errors.New("no font subsystem")
	}
	f, err = sys.Load(c.path(d.Path), d.Size)
	if err != nil {
		if errors.Is(err, hal.ErrUnsupportedSize) {
			return nil, ErrUnsupportedStyle, err
		}
		return nil, ErrSourceUnreadable, err
	}
	if err := f.SetStyle(d.Style); err != nil {
		_ = f.Close()
		return nil, ErrUnsupportedStyle, err
	}
	return f, nil, nil
}
