package storage

import (
	"fmt"

	"matrixloop/hal"
)

// Program granularity used for LittleFS read/prog sizes. RP2 flash programs
// 256-byte pages.
const flashPageBytes = 256

// FlashDevice adapts hal.Flash to tinyfs.BlockDevice.
type FlashDevice struct {
	fl hal.Flash
}

func NewFlashDevice(fl hal.Flash) *FlashDevice {
	return &FlashDevice{fl: fl}
}

func (d *FlashDevice) ReadAt(buf []byte, off int64) (int, error) {
	addr, ok := d.addr(off, len(buf))
	if !ok {
		return 0, fmt.Errorf("flash read off=%d len=%d: out of range", off, len(buf))
	}
	return d.fl.ReadAt(buf, addr)
}

func (d *FlashDevice) WriteAt(buf []byte, off int64) (int, error) {
	addr, ok := d.addr(off, len(buf))
	if !ok {
		return 0, fmt.Errorf("flash write off=%d len=%d: out of range", off, len(buf))
	}
	return d.fl.WriteAt(buf, addr)
}

func (d *FlashDevice) Size() int64           { return int64(d.fl.SizeBytes()) }
func (d *FlashDevice) WriteBlockSize() int64 { return flashPageBytes }
func (d *FlashDevice) EraseBlockSize() int64 { return int64(d.fl.EraseBlockBytes()) }

func (d *FlashDevice) EraseBlocks(start, n int64) error {
	bs := int64(d.fl.EraseBlockBytes())
	if bs == 0 {
		return hal.ErrNotImplemented
	}
	off, ok := d.addr(start*bs, int(n*bs))
	if !ok {
		return fmt.Errorf("flash erase start=%d n=%d: out of range", start, n)
	}
	return d.fl.Erase(off, uint32(n*bs))
}

func (d *FlashDevice) addr(off int64, size int) (uint32, bool) {
	if off < 0 || size < 0 {
		return 0, false
	}
	end := uint64(off) + uint64(size)
	if end > uint64(d.fl.SizeBytes()) {
		return 0, false
	}
	return uint32(off), true
}
