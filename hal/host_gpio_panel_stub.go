//go:build !linux && !tinygo

package hal

import "fmt"

type gpioPanel struct {
	*hostFramebuffer
}

func newGPIOPanel(fb *hostFramebuffer, pins HUB75Pins) (*gpioPanel, error) {
	_ = fb
	_ = pins
	return nil, fmt.Errorf("gpio panel: %w on this platform", ErrNotImplemented)
}
