//go:build !tinygo && !cgo

package hal

import "errors"

func configureWindow(string, int, int) {}

func RunWindow(HAL, func() error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
