//go:build !tinygo

package hal

import "sync"

type hostFramebuffer struct {
	mu         sync.Mutex
	width      int
	height     int
	chain      int
	stride     int
	brightness uint8
	buf        []byte
}

func newHostFramebuffer(cfg PanelConfig) *hostFramebuffer {
	width := cfg.SurfaceWidth()
	chain := cfg.Chain
	if chain <= 0 {
		chain = 1
	}
	stride := width * 2
	return &hostFramebuffer{
		width:      width,
		height:     cfg.Height,
		chain:      chain,
		stride:     stride,
		brightness: cfg.Brightness,
		buf:        make([]byte, stride*cfg.Height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }
func (f *hostFramebuffer) ChainLength() int    { return f.chain }

func (f *hostFramebuffer) Brightness() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.brightness
}

func (f *hostFramebuffer) SetBrightness(level uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.brightness = level
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fillRGB565(f.buf, r, g, b)
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
