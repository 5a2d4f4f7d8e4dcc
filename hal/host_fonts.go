//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	ErrUnsupportedStyle = errors.New("unsupported style")
	ErrUnsupportedSize  = errors.New("unsupported size")
	// ErrZeroWidth is returned when text would rasterize to nothing.
	ErrZeroWidth = errors.New("text has zero width")
)

// BuiltinPrefix marks font paths served from compiled-in bitmap fonts
// instead of files, e.g. "builtin:freemono".
const BuiltinPrefix = "builtin:"

const (
	italicShear = 0.2
	maxFontSize = 512
)

type hostFonts struct {
	mu     sync.Mutex
	closed bool
	open   int
}

func newHostFonts() *hostFonts {
	return &hostFonts{}
}

// Load opens the font at path with the given pixel size.
func (s *hostFonts) Load(path string, size int) (Font, error) {
	if size <= 0 || size > maxFontSize {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	var (
		f   Font
		err error
	)
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		f, err = loadBuiltin(s, name, size)
	} else {
		f, err = loadOpenType(s, path, size)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.open++
	s.mu.Unlock()
	return f, nil
}

// Open returns the number of loaded fonts not yet closed.
func (s *hostFonts) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *hostFonts) release() {
	s.mu.Lock()
	s.open--
	s.mu.Unlock()
}

func (s *hostFonts) live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *hostFonts) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type otFont struct {
	sys     *hostFonts
	face    font.Face
	size    int
	style   Style
	ascent  int
	descent int
	closed  bool
}

func loadOpenType(sys *hostFonts, path string, size int) (*otFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face %s@%d: %w", path, size, err)
	}
	m := face.Metrics()
	return &otFont{
		sys:     sys,
		face:    face,
		size:    size,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
	}, nil
}

func (f *otFont) usable() error {
	if f.closed || !f.sys.live() {
		return ErrClosed
	}
	return nil
}

func (f *otFont) SetStyle(s Style) error {
	if err := f.usable(); err != nil {
		return err
	}
	if !s.Known() {
		return fmt.Errorf("%w: %#x", ErrUnsupportedStyle, uint8(s))
	}
	f.style = s
	return nil
}

func (f *otFont) Style() Style { return f.style }

func (f *otFont) Height() int { return f.ascent + f.descent }

func (f *otFont) SizeOf(text string) (int, int, error) {
	if err := f.usable(); err != nil {
		return 0, 0, err
	}
	w := font.MeasureString(f.face, text).Ceil()
	if w <= 0 {
		return 0, 0, ErrZeroWidth
	}
	h := f.Height()
	if f.style&StyleBold != 0 {
		w++
	}
	if f.style&StyleItalic != 0 {
		w += f.shear(0)
	}
	return w, h, nil
}

// shear returns the italic x offset of row y.
func (f *otFont) shear(y int) int {
	return int(math.Round(float64(f.Height()-1-y) * italicShear))
}

func (f *otFont) Render(text string, c color.RGBA) (*image.RGBA, error) {
	w, h, err := f.SizeOf(text)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	src := image.NewUniform(c)

	d := font.Drawer{Dst: img, Src: src, Face: f.face, Dot: fixed.P(0, f.ascent)}
	d.DrawString(text)
	if f.style&StyleBold != 0 {
		d.Dot = fixed.P(1, f.ascent)
		d.DrawString(text)
	}

	if f.style&StyleItalic != 0 {
		slanted := image.NewRGBA(img.Rect)
		for y := 0; y < h; y++ {
			dx := f.shear(y)
			row := image.Rect(dx, y, w, y+1)
			draw.Draw(slanted, row, img, image.Pt(0, y), draw.Src)
		}
		img = slanted
	}

	thick := max(1, f.size/14)
	if f.style&StyleUnderline != 0 {
		y := min(f.ascent+1, h-thick)
		draw.Draw(img, image.Rect(0, y, w, y+thick), src, image.Point{}, draw.Over)
	}
	if f.style&StyleStrikethrough != 0 {
		y := f.ascent - f.ascent/3
		draw.Draw(img, image.Rect(0, y, w, y+thick), src, image.Point{}, draw.Over)
	}
	return img, nil
}

func (f *otFont) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.sys.release()
	return f.face.Close()
}
