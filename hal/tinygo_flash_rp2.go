//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
)

// rp2Flash is the data area TinyGo leaves after the program image. Sizes are
// read once; the partition does not move at run time.
type rp2Flash struct {
	size  uint32
	erase uint32
}

func newRP2Flash() Flash {
	return &rp2Flash{
		size:  clampUint32(machine.Flash.Size()),
		erase: clampUint32(machine.Flash.EraseBlockSize()),
	}
}

func clampUint32(v int64) uint32 {
	if v <= 0 {
		return 0
	}
	if v > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}

func (f *rp2Flash) SizeBytes() uint32       { return f.size }
func (f *rp2Flash) EraseBlockBytes() uint32 { return f.erase }

func (f *rp2Flash) ReadAt(p []byte, off uint32) (int, error) {
	if uint64(off)+uint64(len(p)) > uint64(f.size) {
		return 0, fmt.Errorf("flash read off=%d len=%d: out of range", off, len(p))
	}
	n, err := machine.Flash.ReadAt(p, int64(off))
	if err != nil {
		return n, fmt.Errorf("flash read at %d: %w", off, err)
	}
	return n, nil
}

func (f *rp2Flash) WriteAt(p []byte, off uint32) (int, error) {
	if uint64(off)+uint64(len(p)) > uint64(f.size) {
		return 0, fmt.Errorf("flash write off=%d len=%d: out of range", off, len(p))
	}
	n, err := machine.Flash.WriteAt(p, int64(off))
	if err != nil {
		return n, fmt.Errorf("flash write at %d: %w", off, err)
	}
	return n, nil
}

func (f *rp2Flash) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	if f.erase == 0 {
		return ErrNotImplemented
	}
	if off%f.erase != 0 || size%f.erase != 0 || uint64(off)+uint64(size) > uint64(f.size) {
		return fmt.Errorf("flash erase off=%d size=%d: misaligned or out of range", off, size)
	}
	if err := machine.Flash.EraseBlocks(int64(off/f.erase), int64(size/f.erase)); err != nil {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, err)
	}
	return nil
}
