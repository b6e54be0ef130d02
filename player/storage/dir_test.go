//go:build !tinygo

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirBackend(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "frame0.raw"), []byte{1, 2, 3, 4}, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "frame1.raw"), 0o755))

	d, err := NewDir(root)
	require.NoError(t, err)
	assert.Equal(t, "dir", d.Name())

	r, err := d.Open(ResolvePath(0))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, readAll(t, r))
	require.NoError(t, r.Close())

	_, err = d.Open(ResolvePath(1))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = d.Open(ResolvePath(2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "frames")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.raw"), []byte{1}, 0o644))

	d, err := NewDir(root)
	require.NoError(t, err)
	_, err = d.Open("/../secret.raw")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirWalk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "frame0.raw"), []byte{0}, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	d, err := NewDir(root)
	require.NoError(t, err)

	var paths []string
	require.NoError(t, d.Walk("/", func(p string, _ os.FileInfo) error {
		paths = append(paths, p)
		return nil
	}))
	assert.ElementsMatch(t, []string{"/frame0.raw", "/sub"}, paths)
}

func TestNewDirMissing(t *testing.T) {
	_, err := NewDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
