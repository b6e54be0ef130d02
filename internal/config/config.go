// Package config holds the player's startup configuration.
//
// Values are fixed for the lifetime of the process: nothing here is
// discovered from storage.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"matrixloop/hal"
)

// ErrInvalid reports a configuration value the player cannot run with.
var ErrInvalid = errors.New("invalid config")

// Storage media.
const (
	MediumFlash = "flash"
	MediumSD    = "sd"
	MediumDir   = "dir"
)

type Pins struct {
	R1  int `yaml:"r1"`
	G1  int `yaml:"g1"`
	B1  int `yaml:"b1"`
	R2  int `yaml:"r2"`
	G2  int `yaml:"g2"`
	B2  int `yaml:"b2"`
	A   int `yaml:"a"`
	B   int `yaml:"b"`
	C   int `yaml:"c"`
	D   int `yaml:"d"`
	E   int `yaml:"e"` // -1 when the panel has no E line
	CLK int `yaml:"clk"`
	LAT int `yaml:"lat"`
	OE  int `yaml:"oe"`
}

type Panel struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Chain      int    `yaml:"chain"`
	Brightness uint8  `yaml:"brightness"`
	Driver     string `yaml:"driver"` // "sim" | "gpio"
	Pins       Pins   `yaml:"pins"`
}

type Storage struct {
	Medium     string `yaml:"medium"`
	FlashImage string `yaml:"flash_image"`
	FlashSize  uint32 `yaml:"flash_size"`
	SDImage    string `yaml:"sd_image"`
	Dir        string `yaml:"dir"`
	ListOnBoot bool   `yaml:"list_on_boot"`
}

type Animation struct {
	FrameCount   int `yaml:"frame_count"`
	FrameDelayMs int `yaml:"frame_delay_ms"`
	// MaxFrames stops playback after that many renders; 0 plays forever.
	MaxFrames int `yaml:"max_frames"`
}

type Network struct {
	Listen string `yaml:"listen"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Window struct {
	Enabled bool `yaml:"enabled"`
	Scale   int  `yaml:"scale"`
}

type Config struct {
	Panel     Panel     `yaml:"panel"`
	Storage   Storage   `yaml:"storage"`
	Animation Animation `yaml:"animation"`
	Network   Network   `yaml:"network"`
	Log       Log       `yaml:"log"`
	Window    Window    `yaml:"window"`
}

// Default returns the built-in configuration: one 64x64 panel at brightness
// 155, 40 frames at 100 ms.
func Default() Config {
	return Config{
		Panel: Panel{
			Width:      64,
			Height:     64,
			Chain:      1,
			Brightness: 155,
			Driver:     "sim",
			// Adafruit RGB Matrix Bonnet (BCM numbering).
			Pins: Pins{
				R1: 5, G1: 13, B1: 6,
				R2: 12, G2: 16, B2: 23,
				A: 22, B: 26, C: 27, D: 20, E: 24,
				CLK: 17, LAT: 21, OE: 4,
			},
		},
		Storage: Storage{
			Medium:     defaultMedium,
			FlashSize:  2 * 1024 * 1024,
			Dir:        "frames",
			ListOnBoot: defaultMedium == MediumSD,
		},
		Animation: Animation{
			FrameCount:   40,
			FrameDelayMs: 100,
		},
		Network: Network{Listen: ":80"},
		Log:     Log{Level: "info", Pretty: true},
		Window:  Window{Scale: 8},
	}
}

// FrameDelay is the inter-frame wait.
func (c Config) FrameDelay() time.Duration {
	return time.Duration(c.Animation.FrameDelayMs) * time.Millisecond
}

// FrameBytes is the expected length of one frame resource.
func (c Config) FrameBytes() int {
	return c.Panel.Width * c.chain() * c.Panel.Height * 3
}

func (c Config) chain() int {
	if c.Panel.Chain <= 0 {
		return 1
	}
	return c.Panel.Chain
}

func (c Config) Validate() error {
	if c.Panel.Width <= 0 || c.Panel.Height <= 0 {
		return fmt.Errorf("%w: panel %dx%d", ErrInvalid, c.Panel.Width, c.Panel.Height)
	}
	if c.Panel.Chain < 0 {
		return fmt.Errorf("%w: panel.chain %d", ErrInvalid, c.Panel.Chain)
	}
	switch strings.ToLower(c.Panel.Driver) {
	case "", "sim", "gpio":
	default:
		return fmt.Errorf("%w: panel.driver %q", ErrInvalid, c.Panel.Driver)
	}
	switch c.Storage.Medium {
	case MediumFlash, MediumSD:
	case MediumDir:
		if c.Storage.Dir == "" {
			return fmt.Errorf("%w: storage.dir is empty", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: storage.medium %q", ErrInvalid, c.Storage.Medium)
	}
	if c.Animation.FrameCount <= 0 {
		return fmt.Errorf("%w: animation.frame_count %d", ErrInvalid, c.Animation.FrameCount)
	}
	if c.Animation.FrameDelayMs < 0 {
		return fmt.Errorf("%w: animation.frame_delay_ms %d", ErrInvalid, c.Animation.FrameDelayMs)
	}
	if c.Animation.MaxFrames < 0 {
		return fmt.Errorf("%w: animation.max_frames %d", ErrInvalid, c.Animation.MaxFrames)
	}
	return nil
}

// HALOptions maps the configuration onto HAL construction options.
func (c Config) HALOptions() hal.Options {
	p := c.Panel.Pins
	return hal.Options{
		Panel: hal.PanelConfig{
			Width:      c.Panel.Width,
			Height:     c.Panel.Height,
			Chain:      c.chain(),
			Brightness: c.Panel.Brightness,
			Pins: hal.HUB75Pins{
				R1: p.R1, G1: p.G1, B1: p.B1,
				R2: p.R2, G2: p.G2, B2: p.B2,
				A: p.A, B: p.B, C: p.C, D: p.D, E: p.E,
				CLK: p.CLK, LAT: p.LAT, OE: p.OE,
			},
		},
		PanelDriver:    c.Panel.Driver,
		FlashImage:     c.Storage.FlashImage,
		FlashSizeBytes: c.Storage.FlashSize,
		SDImage:        c.Storage.SDImage,
		LogLevel:       c.Log.Level,
		LogPretty:      c.Log.Pretty,
	}
}
