//go:build !tinygo

package app

import "matrixloop/player/storage"

func openDir(root string) (storage.Backend, error) {
	return storage.NewDir(root)
}
