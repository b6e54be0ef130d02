//go:build !tinygo

package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/fatfs"

	"matrixloop/hal"
	"matrixloop/player/frame"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/frame0.raw", ResolvePath(0))
	assert.Equal(t, "/frame7.raw", ResolvePath(7))
	assert.Equal(t, "/frame39.raw", ResolvePath(39))
	assert.Equal(t, "/frame100.raw", ResolvePath(100))
}

func writeFile(t *testing.T, fs tinyfs.Filesystem, p string, data []byte) {
	t.Helper()
	f, err := fs.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func readAll(t *testing.T, r Resource) []byte {
	t.Helper()
	var out []byte
	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, b)
	}
}

func TestLittleFSBackend(t *testing.T) {
	dev := tinyfs.NewMemoryDevice(256, 4096, 64)
	b, err := MountLittleFS(dev, true)
	require.NoError(t, err)
	assert.True(t, b.Formatted())
	assert.Equal(t, "flash", b.Name())

	payload := make([]byte, 1500)
	for i := range payload {
		payload[i] = byte(i)
	}
	writeFile(t, b.Filesystem(), ResolvePath(0), payload)

	r, err := b.Open(ResolvePath(0))
	require.NoError(t, err)
	assert.Equal(t, payload, readAll(t, r))

	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "Close must be idempotent")
	_, err = r.ReadByte()
	assert.Error(t, err)

	_, err = b.Open(ResolvePath(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLittleFSRemountKeepsFiles(t *testing.T) {
	dev := tinyfs.NewMemoryDevice(256, 4096, 64)
	b, err := MountLittleFS(dev, true)
	require.NoError(t, err)
	writeFile(t, b.Filesystem(), "/frame3.raw", []byte{1, 2, 3})
	require.NoError(t, b.Unmount())

	b, err = MountLittleFS(dev, false)
	require.NoError(t, err)
	assert.False(t, b.Formatted())

	r, err := b.Open("/frame3.raw")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, []byte{1, 2, 3}, readAll(t, r))
}

func TestLittleFSWalk(t *testing.T) {
	dev := tinyfs.NewMemoryDevice(256, 4096, 64)
	b, err := MountLittleFS(dev, true)
	require.NoError(t, err)
	require.NoError(t, b.Filesystem().Mkdir("/extra", 0o777))
	writeFile(t, b.Filesystem(), "/frame0.raw", []byte{0})
	writeFile(t, b.Filesystem(), "/extra/notes.txt", []byte("hi"))

	seen := map[string]bool{}
	err = b.Walk("/", func(p string, info os.FileInfo) error {
		seen[p] = info.IsDir()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"/frame0.raw":      false,
		"/extra":           true,
		"/extra/notes.txt": false,
	}, seen)
}

func TestFlashBackendOverHostImage(t *testing.T) {
	fl, err := hal.CreateFlashImage(filepath.Join(t.TempDir(), "flash.img"), 64*4096)
	require.NoError(t, err)
	defer hal.CloseFlash(fl)

	b, err := NewFlash(fl)
	require.NoError(t, err)
	writeFile(t, b.Filesystem(), "/frame0.raw", []byte{9, 8, 7})

	r, err := b.Open("/frame0.raw")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, []byte{9, 8, 7}, readAll(t, r))
}

func TestFlashDeviceBounds(t *testing.T) {
	fl, err := hal.CreateFlashImage(filepath.Join(t.TempDir(), "flash.img"), 2*4096)
	require.NoError(t, err)
	defer hal.CloseFlash(fl)

	d := NewFlashDevice(fl)
	assert.Equal(t, int64(2*4096), d.Size())
	assert.Equal(t, int64(4096), d.EraseBlockSize())

	_, err = d.ReadAt(make([]byte, 16), 2*4096-8)
	assert.Error(t, err)
	_, err = d.WriteAt([]byte{0}, -1)
	assert.Error(t, err)
	assert.Error(t, d.EraseBlocks(1, 2))
	assert.NoError(t, d.EraseBlocks(1, 1))
}

type countSink struct{ n int }

func (c *countSink) Set(x, y int, r, g, b uint8) bool {
	c.n++
	return true
}

func TestSDBackend(t *testing.T) {
	dev := tinyfs.NewMemoryDevice(512, 512, 4096)
	fat := fatfs.New(dev)
	fat.Configure(&fatfs.Config{SectorSize: fatfs.SectorSize})
	require.NoError(t, fat.Format())
	require.NoError(t, fat.Mount())
	writeFile(t, fat, ResolvePath(1), bytes.Repeat([]byte{0x10, 0x20, 0x30}, 4096)[:12287])
	require.NoError(t, fat.Unmount())

	b, err := NewSD(dev)
	require.NoError(t, err)
	defer b.Unmount()
	assert.Equal(t, "sd", b.Name())
	assert.False(t, b.Formatted())

	_, err = b.Open(ResolvePath(0))
	assert.ErrorIs(t, err, ErrNotFound)

	r, err := b.Open(ResolvePath(1))
	require.NoError(t, err)
	defer r.Close()

	sink := &countSink{}
	res := frame.Decode(r, 64, 64, sink)
	assert.Equal(t, 4095, res.Pixels)
	assert.Equal(t, 4095, sink.n)
	assert.True(t, res.Truncated)
	assert.NoError(t, res.Err)
}

func TestNewSDWithoutCard(t *testing.T) {
	_, err := NewSD(nil)
	assert.Error(t, err)
}

func TestMapFatErr(t *testing.T) {
	assert.ErrorIs(t, mapFatErr("open", "/frame1.raw", fatfs.FileResultNoFile), ErrNotFound)
	assert.ErrorIs(t, mapFatErr("open", "/x/frame1.raw", fatfs.FileResultNoPath), ErrNotFound)
	assert.ErrorIs(t, mapFatErr("mount", "", fatfs.FileResultNoFilesystem), os.ErrInvalid)
	assert.NoError(t, mapFatErr("open", "/a", nil))
}
