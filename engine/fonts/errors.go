package fonts

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnreadable means the font file could not be opened or parsed.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrUnsupportedStyle means the size/style combination cannot be constructed.
	ErrUnsupportedStyle = errors.New("unsupported style")
	// ErrNotRegistered means no descriptor exists and none could be auto-registered.
	ErrNotRegistered = errors.New("not registered")
	// ErrReconstructionFailed means a registered descriptor could not be turned into a font.
	ErrReconstructionFailed = errors.New("reconstruction failed")
	// ErrExpired is returned when a Scope or Handle is used after its rendering scope ended.
	ErrExpired = errors.New("font scope expired")
	// ErrEmptyName and ErrInvalidSize are causes reported under
	// ErrSourceUnreadable.
	ErrEmptyName   = errors.New("empty font name")
	ErrInvalidSize = errors.New("invalid font size")
)

// RegisterError reports a failed Register. Kind is ErrSourceUnreadable or
// ErrUnsupportedStyle.
type RegisterError struct {
	Name string
	Path string
	Kind error
	Err  error
}

func (e *RegisterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fonts: register %q (%s): %v", e.Name, e.Path, e.Kind)
	}
	return fmt.Sprintf("fonts: register %q (%s): %v: %v", e.Name, e.Path, e.Kind, e.Err)
}

func (e *RegisterError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ResolveError reports a failed Resolve. Kind is ErrNotRegistered or
// ErrReconstructionFailed.
type ResolveError struct {
	Name string
	Kind error
	Err  error
}

func (e *ResolveError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fonts: resolve %q: %v", e.Name, e.Kind)
	}
	return fmt.Sprintf("fonts: resolve %q: %v: %v", e.Name, e.Kind, e.Err)
}

func (e *ResolveError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
