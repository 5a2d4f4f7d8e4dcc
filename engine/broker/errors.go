package broker

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a scope is opened while another one is active.
	ErrBusy = errors.New("broker: scope already active")
	// ErrNotReady is returned when a scope is opened outside the Ready state.
	ErrNotReady = errors.New("broker: not ready")
)

// Stage names a step of broker construction.
type Stage uint8

const (
	StageLibrary Stage = iota
	StageInput
	StageVideo
	StageWindow
	StageFramebuffer
	StageFonts
)

func (s Stage) String() string {
	switch s {
	case StageLibrary:
		return "library"
	case StageInput:
		return "input"
	case StageVideo:
		return "video"
	case StageWindow:
		return "window"
	case StageFramebuffer:
		return "framebuffer"
	case StageFonts:
		return "fonts"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// ContextError reports the construction stage that failed.
type ContextError struct {
	Stage Stage
	Err   error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("broker: init %s: %v", e.Stage, e.Err)
}

func (e *ContextError) Unwrap() error { return e.Err }
