//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"
)

func RunWindow(_ HAL, _ string, _ int, _ func(ctx context.Context) error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
