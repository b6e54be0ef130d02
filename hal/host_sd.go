//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

const sdSectorBytes = 512

// sdImage is a raw card image (for example one written by mkfs.fat) exposed as
// a sector-addressed block device.
type sdImage struct {
	mu   sync.Mutex
	f    *os.File
	size int64
}

func openSDImage(path string) (*sdImage, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open sd image %q: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat sd image %q: %w", path, err)
	}
	if st.Size() == 0 || st.Size()%sdSectorBytes != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("sd image %q: size %d not a multiple of %d", path, st.Size(), sdSectorBytes)
	}
	return &sdImage{f: f, size: st.Size()}, nil
}

func (d *sdImage) ReadAt(buf []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return 0, ErrNotImplemented
	}
	return d.f.ReadAt(buf, off)
}

func (d *sdImage) WriteAt(buf []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return 0, ErrNotImplemented
	}
	if off+int64(len(buf)) > d.size {
		return 0, fmt.Errorf("sd write off=%d len=%d: %w", off, len(buf), os.ErrInvalid)
	}
	return d.f.WriteAt(buf, off)
}

func (d *sdImage) Size() int64           { return d.size }
func (d *sdImage) WriteBlockSize() int64 { return sdSectorBytes }
func (d *sdImage) EraseBlockSize() int64 { return sdSectorBytes }

// EraseBlocks is a no-op: SD cards manage erasure internally.
func (d *sdImage) EraseBlocks(start, len int64) error {
	_ = start
	_ = len
	return nil
}

func (d *sdImage) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}
