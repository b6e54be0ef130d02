//go:build tinygo

package app

import (
	"fmt"

	"matrixloop/hal"
	"matrixloop/player/storage"
)

func openDir(root string) (storage.Backend, error) {
	return nil, fmt.Errorf("dir %q: %w on device", root, hal.ErrNotImplemented)
}
