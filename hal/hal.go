package hal

import (
	"errors"
	"io"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb, stored little-endian.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is the active pixel buffer scanned out by the panel driver.
//
// There is no present step: bytes written to Buffer are what the panel shows
// on its next refresh.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
}

// Panel is an LED matrix (or a chain of them) driven from a Framebuffer.
//
// Width reports the whole chained surface: panel width * ChainLength.
type Panel interface {
	Framebuffer
	ChainLength() int
	Brightness() uint8
	SetBrightness(level uint8)
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// BlockDevice is a sector-addressed removable medium (SD card).
//
// The method set matches tinygo.org/x/tinyfs.BlockDevice so that devices can be
// handed to the FAT driver directly.
type BlockDevice interface {
	ReadAt(buf []byte, off int64) (n int, err error)
	WriteAt(buf []byte, off int64) (n int, err error)
	Size() int64
	WriteBlockSize() int64
	EraseBlockSize() int64
	EraseBlocks(start, len int64) error
}

// Network provisions the device's listening socket.
//
// Connections are accepted and dropped; nothing reads from them.
type Network interface {
	Listen(addr string) (io.Closer, error)
}

// HAL provides the only contact point between the player and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Panel() Panel
	Flash() Flash
	// SD returns the card block device, or nil when no card slot is wired.
	SD() BlockDevice
	Network() Network
}

// PanelConfig describes the attached matrix.
type PanelConfig struct {
	Width      int
	Height     int
	Chain      int
	Brightness uint8
	Pins       HUB75Pins
}

// SurfaceWidth is the drawable width across all chained panels.
func (c PanelConfig) SurfaceWidth() int {
	if c.Chain <= 0 {
		return c.Width
	}
	return c.Width * c.Chain
}

// HUB75Pins maps HUB75 signals to GPIO line numbers.
type HUB75Pins struct {
	R1, G1, B1 int
	R2, G2, B2 int
	A, B, C, D int
	E          int
	CLK        int
	LAT        int
	OE         int
}

// Options selects and configures the HAL implementation.
type Options struct {
	Panel PanelConfig

	// PanelDriver is "sim" (memory only) or "gpio" (Linux gpiocdev bit-bang).
	// Ignored on TinyGo targets.
	PanelDriver string

	FlashImage     string
	FlashSizeBytes uint32
	SDImage        string

	// Level is the minimum log level on host ("debug", "info", "warn").
	LogLevel  string
	LogPretty bool
}
