// Package events translates native input into engine events.
package events

import (
	"errors"
	"fmt"
	"iter"

	"valewind/engine"
	"valewind/hal"
	"valewind/kernel"
)

// ErrOutOfScope is returned when the source is polled outside an input scope.
var ErrOutOfScope = errors.New("event source used outside input scope")

// Kind classifies an Event.
type Kind uint8

const (
	Other Kind = iota
	Quit
	KeyPressed
	KeyReleased
)

func (k Kind) String() string {
	switch k {
	case Quit:
		return "quit"
	case KeyPressed:
		return "key-pressed"
	case KeyReleased:
		return "key-released"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event is a single input occurrence. Key is set for key events, Rune for
// text input reported as Other.
type Event struct {
	Kind Kind
	Key  hal.KeyCode
	Rune rune
}

func (e Event) String() string {
	switch e.Kind {
	case KeyPressed, KeyReleased:
		return e.Kind.String() + " " + e.Key.String()
	case Other:
		if e.Rune != 0 {
			return fmt.Sprintf("other %q", e.Rune)
		}
	}
	return e.Kind.String()
}

func translate(ev hal.RawEvent) Event {
	switch ev.Kind {
	case hal.RawQuit:
		return Event{Kind: Quit}
	case hal.RawKeyDown:
		return Event{Kind: KeyPressed, Key: ev.Code}
	case hal.RawKeyUp:
		return Event{Kind: KeyReleased, Key: ev.Code}
	default:
		return Event{Kind: Other, Key: ev.Code, Rune: ev.Rune}
	}
}

// Source is the engine view of the native event pump.
type Source struct {
	pump hal.EventPump
	cap  kernel.Capability
}

// NewSource wraps pump. The source is unusable until Bind hands it a
// capability.
func NewSource(pump hal.EventPump) *Source {
	return &Source{pump: pump}
}

// Bind attaches the capability of the current input scope.
func (s *Source) Bind(cap kernel.Capability) {
	s.cap = cap
}

func (s *Source) check() error {
	if err := s.cap.Check(kernel.RightInput); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfScope, err)
	}
	return nil
}

// Poll returns the events queued since the last poll. It never blocks.
//
// The sequence drains the native queue as it is ranged over, in arrival
// order. Events already yielded are not yielded again, and nothing is yielded
// once the input scope has ended.
func (s *Source) Poll() (iter.Seq[Event], error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	pending := s.pump.Poll(nil)
	grant := s.cap
	engine.Logger().Debug("events: polled", "count", len(pending))
	return func(yield func(Event) bool) {
		for len(pending) > 0 {
			if !grant.Valid() {
				pending = nil
				return
			}
			ev := translate(pending[0])
			pending = pending[1:]
			if !yield(ev) {
				return
			}
		}
	}, nil
}

// Collect drains Poll into a slice.
func (s *Source) Collect() ([]Event, error) {
	seq, err := s.Poll()
	if err != nil {
		return nil, err
	}
	var out []Event
	for ev := range seq {
		out = append(out, ev)
	}
	return out, nil
}
