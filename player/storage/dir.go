//go:build !tinygo

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir serves resources from a host directory, which stands in for the
// storage root.
type Dir struct {
	root string
}

func NewDir(root string) (*Dir, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("dir %q: %w", root, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("dir %q: not a directory", root)
	}
	return &Dir{root: root}, nil
}

func (d *Dir) Name() string { return "dir" }

func (d *Dir) Open(p string) (Resource, error) {
	full := d.hostPath(p)
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("dir open %s: %w", p, ErrNotFound)
		}
		return nil, fmt.Errorf("dir open %s: %w", p, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("dir stat %s: %w", p, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("dir open %s: is a directory: %w", p, ErrNotFound)
	}
	return newResource(f), nil
}

func (d *Dir) Walk(root string, fn WalkFunc) error {
	base := d.hostPath(root)
	return filepath.WalkDir(base, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == base {
			return nil
		}
		info, err := e.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		return fn("/"+filepath.ToSlash(rel), info)
	})
}

func (d *Dir) hostPath(p string) string {
	p = strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+p)), "/")
	return filepath.Join(d.root, filepath.FromSlash(p))
}
