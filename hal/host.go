//go:build !tinygo

package hal

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	panel  Panel
	flash  *hostFlash
	sd     BlockDevice
	net    Network
}

// New returns a host HAL implementation.
//
// The panel is an in-memory RGB565 surface unless opts.PanelDriver is "gpio",
// in which case the surface is also scanned out to a HUB75 panel over the
// Linux GPIO character device. A failing GPIO panel falls back to memory.
func New(opts Options) HAL {
	logger := newHostLogger(os.Stdout, opts.LogLevel, opts.LogPretty)

	fb := newHostFramebuffer(opts.Panel)
	var panel Panel = fb
	if strings.EqualFold(opts.PanelDriver, "gpio") {
		gp, err := newGPIOPanel(fb, opts.Panel.Pins)
		if err != nil {
			logger.z.Warn().Err(err).Msg("gpio panel unavailable; using memory panel")
		} else {
			panel = gp
		}
	}

	var sd BlockDevice
	if opts.SDImage != "" {
		dev, err := openSDImage(opts.SDImage)
		if err != nil {
			logger.z.Warn().Err(err).Str("path", opts.SDImage).Msg("sd image unavailable")
		} else {
			sd = dev
		}
	}

	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		panel:  panel,
		flash:  newHostFlash(opts.FlashImage, opts.FlashSizeBytes),
		sd:     sd,
		net:    &hostNetwork{logger: logger},
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Panel() Panel     { return h.panel }
func (h *hostHAL) Flash() Flash     { return h.flash }
func (h *hostHAL) SD() BlockDevice  { return h.sd }
func (h *hostHAL) Network() Network { return h.net }

// Close releases host resources (image files, GPIO lines).
func Close(h HAL) error {
	hh, ok := h.(*hostHAL)
	if !ok {
		return nil
	}
	var first error
	if c, ok := hh.panel.(io.Closer); ok {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	if err := hh.flash.Close(); err != nil && first == nil {
		first = err
	}
	if c, ok := hh.sd.(io.Closer); ok {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type hostLogger struct {
	mu sync.Mutex
	z  zerolog.Logger
}

func newHostLogger(w io.Writer, level string, pretty bool) *hostLogger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return &hostLogger{z: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// Zerolog exposes the structured logger behind a host HAL's Logger, so that
// host-only bootstrap code can attach fields.
func Zerolog(l Logger) (zerolog.Logger, bool) {
	hl, ok := l.(*hostLogger)
	if !ok {
		return zerolog.Nop(), false
	}
	return hl.z, true
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lvl, msg := splitLevel(s)
	l.z.WithLevel(lvl).Msg(msg)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

// splitLevel honours the "debug: " / "warn: " prefixes used by the player's
// line logger.
func splitLevel(s string) (zerolog.Level, string) {
	for _, p := range []struct {
		prefix string
		lvl    zerolog.Level
	}{
		{"debug: ", zerolog.DebugLevel},
		{"warn: ", zerolog.WarnLevel},
		{"error: ", zerolog.ErrorLevel},
	} {
		if strings.HasPrefix(s, p.prefix) {
			return p.lvl, strings.TrimPrefix(s, p.prefix)
		}
	}
	return zerolog.InfoLevel, s
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	l.on = true
	l.mu.Unlock()
	l.logger.WriteLineString("debug: led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	l.on = false
	l.mu.Unlock()
	l.logger.WriteLineString("debug: led: LOW")
}
