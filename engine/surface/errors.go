package surface

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfScope is returned when the surface is used outside a rendering scope.
	ErrOutOfScope = errors.New("surface used outside rendering scope")
	// ErrDrawBusy is returned when Draw is entered while another Draw is running.
	ErrDrawBusy = errors.New("surface draw already in progress")

	ErrRasterize     = errors.New("rasterize")
	ErrTextureUpload = errors.New("texture upload")
	ErrComposite     = errors.New("composite")

	errEmptyTexture   = errors.New("empty texture")
	errForeignTexture = errors.New("texture belongs to another surface")
)

// TextRenderError reports which RenderText stage failed. Kind is
// ErrRasterize, ErrTextureUpload or ErrComposite.
type TextRenderError struct {
	Text string
	Kind error
	Err  error
}

func (e *TextRenderError) Error() string {
	return fmt.Sprintf("surface: render text %q: %v: %v", e.Text, e.Kind, e.Err)
}

func (e *TextRenderError) Unwrap() []error { return []error{e.Kind, e.Err} }
