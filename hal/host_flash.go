//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostFlashDefaultPath      = "matrixloop.flash"
	hostFlashDefaultSizeBytes = 2 * 1024 * 1024
	hostFlashEraseBlockBytes  = 4096
)

var ErrFlashWriteRequiresErase = errors.New("flash write requires erase")

type hostFlash struct {
	mu      sync.Mutex
	f       *os.File
	size    uint32
	scratch [hostFlashEraseBlockBytes]byte
}

// OpenFlashImage opens (or creates) a file-backed NOR flash image.
//
// Writes follow NOR semantics: bits can only be cleared until the containing
// erase block is erased back to 0xFF. A new image is created fully erased.
func OpenFlashImage(path string, size uint32) (Flash, error) {
	f, err := openFlashImage(path, size, false)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFlashImage truncates path and returns a fully erased image of size bytes.
func CreateFlashImage(path string, size uint32) (Flash, error) {
	f, err := openFlashImage(path, size, true)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CloseFlash closes a flash image returned by OpenFlashImage or CreateFlashImage.
func CloseFlash(fl Flash) error {
	if hf, ok := fl.(*hostFlash); ok {
		return hf.Close()
	}
	return nil
}

func newHostFlash(path string, size uint32) *hostFlash {
	if path == "" {
		path = os.Getenv("MATRIXLOOP_FLASH_PATH")
	}
	if path == "" {
		path = hostFlashDefaultPath
	}
	f, err := openFlashImage(path, size, false)
	if err != nil {
		return &hostFlash{f: nil}
	}
	return f
}

func openFlashImage(path string, size uint32, truncate bool) (*hostFlash, error) {
	if size == 0 {
		size = hostFlashDefaultSizeBytes
	}
	if size%hostFlashEraseBlockBytes != 0 {
		return nil, fmt.Errorf("flash: size %d not multiple of erase size %d", size, hostFlashEraseBlockBytes)
	}

	flags := os.O_RDWR | os.O_CREATE
	if truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open flash image %q: %w", path, err)
	}

	hf := &hostFlash{f: f, size: size}
	for i := range hf.scratch {
		hf.scratch[i] = 0xFF
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat flash image %q: %w", path, err)
	}
	if st.Size() > 0 {
		if st.Size() > int64(^uint32(0)) {
			_ = f.Close()
			return nil, fmt.Errorf("flash image %q too large: %d", path, st.Size())
		}
		hf.size = uint32(st.Size())
		return hf, nil
	}

	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("truncate flash image %q to %d: %w", path, size, err)
	}
	if err := hf.Erase(0, size); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("erase flash image %q: %w", path, err)
	}
	return hf, nil
}

func (f *hostFlash) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}

func (f *hostFlash) SizeBytes() uint32 { return f.size }
func (f *hostFlash) EraseBlockBytes() uint32 {
	return hostFlashEraseBlockBytes
}

func (f *hostFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *hostFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}

	buf := make([]byte, len(p))
	if _, err := f.f.ReadAt(buf, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if buf[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *hostFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return ErrNotImplemented
	}
	if size == 0 {
		return nil
	}
	if off%hostFlashEraseBlockBytes != 0 || size%hostFlashEraseBlockBytes != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	if off >= f.size || off+size > f.size {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}

	for size > 0 {
		if _, err := f.f.WriteAt(f.scratch[:], int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += hostFlashEraseBlockBytes
		size -= hostFlashEraseBlockBytes
	}
	return nil
}
