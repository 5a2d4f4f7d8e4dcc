//go:build !tinygo

package hal

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/freesans"
)

// builtinVariants holds one face per style, indexed by Regular, Bold, Italic, BoldItalic.
type builtinVariants [4]*tinyfont.Font

var builtinFamilies = map[string]map[int]builtinVariants{
	"freemono": {
		9:  {&freemono.Regular9pt7b, &freemono.Bold9pt7b, &freemono.Oblique9pt7b, &freemono.BoldOblique9pt7b},
		12: {&freemono.Regular12pt7b, &freemono.Bold12pt7b, &freemono.Oblique12pt7b, &freemono.BoldOblique12pt7b},
		18: {&freemono.Regular18pt7b, &freemono.Bold18pt7b, &freemono.Oblique18pt7b, &freemono.BoldOblique18pt7b},
		24: {&freemono.Regular24pt7b, &freemono.Bold24pt7b, &freemono.Oblique24pt7b, &freemono.BoldOblique24pt7b},
	},
	"freesans": {
		9:  {&freesans.Regular9pt7b, &freesans.Bold9pt7b, &freesans.Oblique9pt7b, &freesans.BoldOblique9pt7b},
		12: {&freesans.Regular12pt7b, &freesans.Bold12pt7b, &freesans.Oblique12pt7b, &freesans.BoldOblique12pt7b},
		18: {&freesans.Regular18pt7b, &freesans.Bold18pt7b, &freesans.Oblique18pt7b, &freesans.BoldOblique18pt7b},
		24: {&freesans.Regular24pt7b, &freesans.Bold24pt7b, &freesans.Oblique24pt7b, &freesans.BoldOblique24pt7b},
	},
}

type builtinFont struct {
	sys      *hostFonts
	variants builtinVariants
	cur      *tinyfont.Font
	style    Style
	closed   bool
}

func loadBuiltin(sys *hostFonts, family string, size int) (*builtinFont, error) {
	sizes, ok := builtinFamilies[family]
	if !ok {
		return nil, fmt.Errorf("no builtin font %q", family)
	}
	v, ok := sizes[size]
	if !ok {
		return nil, fmt.Errorf("%w: builtin %s has no %dpt face", ErrUnsupportedSize, family, size)
	}
	return &builtinFont{sys: sys, variants: v, cur: v[0]}, nil
}

func (f *builtinFont) usable() error {
	if f.closed || !f.sys.live() {
		return ErrClosed
	}
	return nil
}

func (f *builtinFont) SetStyle(s Style) error {
	if err := f.usable(); err != nil {
		return err
	}
	if s&^(StyleBold|StyleItalic) != 0 {
		return fmt.Errorf("%w: builtin fonts only support bold and italic", ErrUnsupportedStyle)
	}
	idx := 0
	if s&StyleBold != 0 {
		idx |= 1
	}
	if s&StyleItalic != 0 {
		idx |= 2
	}
	f.cur = f.variants[idx]
	f.style = s
	return nil
}

func (f *builtinFont) Style() Style { return f.style }

func (f *builtinFont) Height() int { return int(f.cur.YAdvance) }

func (f *builtinFont) SizeOf(text string) (int, int, error) {
	if err := f.usable(); err != nil {
		return 0, 0, err
	}
	_, outbox := tinyfont.LineWidth(f.cur, text)
	if outbox == 0 {
		return 0, 0, ErrZeroWidth
	}
	return int(outbox), f.Height(), nil
}

func (f *builtinFont) Render(text string, c color.RGBA) (*image.RGBA, error) {
	w, h, err := f.SizeOf(text)
	if err != nil {
		return nil, err
	}
	if w > math.MaxInt16 || h > math.MaxInt16 {
		return nil, fmt.Errorf("builtin font: text %dx%d exceeds %d", w, h, math.MaxInt16)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	// Adafruit GFX faces draw upwards from the baseline; leave a quarter of
	// the line for descenders.
	baseline := h - h/4
	tinyfont.WriteLine(&rgbaDisplay{img: img}, f.cur, 0, int16(baseline), text, c)
	return img, nil
}

func (f *builtinFont) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.sys.release()
	return nil
}

var _ drivers.Displayer = (*rgbaDisplay)(nil)

// rgbaDisplay lets tinyfont draw into an in-memory image.
type rgbaDisplay struct {
	img *image.RGBA
}

func (d *rgbaDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *rgbaDisplay) SetPixel(x, y int16, c color.RGBA) {
	p := image.Pt(int(x), int(y))
	if !p.In(d.img.Rect) {
		return
	}
	d.img.SetRGBA(p.X, p.Y, c)
}

func (d *rgbaDisplay) Display() error { return nil }
