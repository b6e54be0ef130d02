//go:build tinygo && !baremetal

package hal

import (
	"runtime"
	"sync"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	led    *tinyGoHostLED
	panel  *tinyGoHostPanel
	flash  Flash
	net    Network
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping. The panel is memory only and there is no flash or card.
func New(opts Options) HAL {
	l := &tinyGoHostLogger{}
	return &tinyGoHostHAL{
		logger: l,
		led:    &tinyGoHostLED{logger: l},
		panel:  newTinyGoHostPanel(opts.Panel),
		flash:  noFlash{},
		net:    nullNetwork{},
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) LED() LED         { return h.led }
func (h *tinyGoHostHAL) Panel() Panel     { return h.panel }
func (h *tinyGoHostHAL) Flash() Flash     { return h.flash }
func (h *tinyGoHostHAL) SD() BlockDevice  { return nil }
func (h *tinyGoHostHAL) Network() Network { return h.net }

func Close(h HAL) error {
	_ = h
	return nil
}

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	on     bool
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.on = true
	l.logger.WriteLineString("debug: led: HIGH (tinygo/" + runtime.GOOS + ")")
}

func (l *tinyGoHostLED) Low() {
	l.on = false
	l.logger.WriteLineString("debug: led: LOW (tinygo/" + runtime.GOOS + ")")
}

type tinyGoHostPanel struct {
	mu         sync.Mutex
	w          int
	h          int
	chain      int
	stride     int
	brightness uint8
	buf        []byte
}

func newTinyGoHostPanel(cfg PanelConfig) *tinyGoHostPanel {
	w := cfg.SurfaceWidth()
	chain := cfg.Chain
	if chain <= 0 {
		chain = 1
	}
	return &tinyGoHostPanel{
		w:          w,
		h:          cfg.Height,
		chain:      chain,
		stride:     w * 2,
		brightness: cfg.Brightness,
		buf:        make([]byte, w*2*cfg.Height),
	}
}

func (f *tinyGoHostPanel) Width() int          { return f.w }
func (f *tinyGoHostPanel) Height() int         { return f.h }
func (f *tinyGoHostPanel) Format() PixelFormat { return PixelFormatRGB565 }
func (f *tinyGoHostPanel) StrideBytes() int    { return f.stride }
func (f *tinyGoHostPanel) Buffer() []byte      { return f.buf }
func (f *tinyGoHostPanel) ChainLength() int    { return f.chain }

func (f *tinyGoHostPanel) Brightness() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.brightness
}

func (f *tinyGoHostPanel) SetBrightness(level uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.brightness = level
}

func (f *tinyGoHostPanel) ClearRGB(r, g, b uint8) {
	fillRGB565(f.buf, r, g, b)
}

// noFlash reports zero capacity; mounting it fails cleanly.
type noFlash struct{}

func (noFlash) SizeBytes() uint32       { return 0 }
func (noFlash) EraseBlockBytes() uint32 { return 0 }

func (noFlash) ReadAt(p []byte, off uint32) (int, error)  { return 0, ErrNotImplemented }
func (noFlash) WriteAt(p []byte, off uint32) (int, error) { return 0, ErrNotImplemented }
func (noFlash) Erase(off, size uint32) error              { return ErrNotImplemented }
