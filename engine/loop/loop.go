// Package loop drives one tick of the game: input, quit check, update, render.
package loop

import (
	"fmt"

	"valewind/engine"
	"valewind/engine/broker"
	"valewind/engine/events"
	"valewind/engine/fonts"
	"valewind/engine/surface"
	"valewind/hal"
)

// State is the game state driven by the loop.
type State interface {
	// Tick advances the state by one step.
	Tick() error
	// Draw renders one frame. The loop presents afterwards whatever Draw
	// returns; a Draw error is logged and the frame is still shown.
	Draw(s *surface.Surface, fc *fonts.Scope) error
}

// EventHandler is implemented by states that want the events of each tick.
type EventHandler interface {
	HandleEvent(ev events.Event)
}

// Driver runs a State against a Broker.
type Driver struct {
	b     *broker.Broker
	state State
	ticks uint64
}

func New(b *broker.Broker, st State) *Driver {
	return &Driver{b: b, state: st}
}

// Ticks returns the number of completed ticks.
func (d *Driver) Ticks() uint64 { return d.ticks }

// IsQuit reports whether ev ends the loop: a window close or Escape.
func IsQuit(ev events.Event) bool {
	return ev.Kind == events.Quit || (ev.Kind == events.KeyPressed && ev.Key == hal.KeyEscape)
}

// Step runs one tick. It returns hal.ErrStop when a quit event arrived; in
// that case nothing is updated or rendered.
func (d *Driver) Step() error {
	quit := false
	err := d.b.WithInput(func(src *events.Source) error {
		seq, err := src.Poll()
		if err != nil {
			return err
		}
		h, _ := d.state.(EventHandler)
		for ev := range seq {
			if IsQuit(ev) {
				quit = true
			}
			if h != nil {
				h.HandleEvent(ev)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loop: input: %w", err)
	}
	if quit {
		engine.Logger().Info("loop: quit requested", "ticks", d.ticks)
		return hal.ErrStop
	}

	if err := d.state.Tick(); err != nil {
		return fmt.Errorf("loop: tick: %w", err)
	}

	err = d.b.WithRendering(func(s *surface.Surface, fc *fonts.Scope) error {
		if err := d.state.Draw(s, fc); err != nil {
			engine.Logger().Warn("loop: render", "tick", d.ticks, "err", err)
		}
		return s.Present()
	})
	if err != nil {
		return fmt.Errorf("loop: present: %w", err)
	}
	d.ticks++
	return nil
}
