//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64
}

// RunHeadless calls step once per tick without opening a window.
//
// Ticks are separated by a fixed sleep of 1s/Hz; the time step itself takes is
// not subtracted, so the loop drifts under load. It returns nil when step
// returns ErrStop or after cfg.Ticks ticks (0 = unbounded), and ctx.Err() when
// ctx is cancelled.
func RunHeadless(ctx context.Context, step func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	t := time.NewTimer(d)
	defer t.Stop()

	var tick uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if step != nil {
			if err := step(); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
		tick++
		if cfg.Ticks > 0 && tick >= cfg.Ticks {
			return nil
		}

		t.Reset(d)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
