// Package storage gives the player read-only, sequential access to frame
// resources on the mounted medium.
package storage

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
)

// ErrNotFound is returned by Open when no resource exists at the path.
var ErrNotFound = errors.New("storage: not found")

// Resource is a forward-only byte stream over one stored file.
type Resource interface {
	// ReadByte returns io.EOF once the stream is exhausted.
	ReadByte() (byte, error)
	// Close may be called more than once.
	Close() error
}

// Backend opens resources on one medium.
type Backend interface {
	Name() string
	Open(path string) (Resource, error)
}

// WalkFunc is called for every entry below the walk root. Returning an error
// stops the walk.
type WalkFunc func(path string, info os.FileInfo) error

// Walker is implemented by backends that can enumerate their tree.
type Walker interface {
	Walk(root string, fn WalkFunc) error
}

// ResolvePath maps a frame index to its resource path.
func ResolvePath(index int) string {
	return "/frame" + strconv.Itoa(index) + ".raw"
}

// Reads from the medium are batched into one sector.
const readBufferBytes = 512

type resource struct {
	c      io.Closer
	r      *bufio.Reader
	closed bool
}

func newResource(rc io.ReadCloser) *resource {
	return &resource{c: rc, r: bufio.NewReaderSize(rc, readBufferBytes)}
}

func (r *resource) ReadByte() (byte, error) {
	if r.closed {
		return 0, os.ErrClosed
	}
	return r.r.ReadByte()
}

func (r *resource) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.c.Close()
}
