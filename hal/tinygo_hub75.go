//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"
	"runtime"
	"sync"
	"time"

	"tinygo.org/x/drivers/hub75"
)

// Rows refreshed between two copies of the RGB565 buffer into the driver.
const hub75CopyEvery = 64

// The hub75 driver only drives address lines A..D.
const hub75DriverMaxRowPattern = 16

// hub75EPins wires a 1/32 scan panel for the pin scanner. A..D, CLK, LAT and
// OE share the driver's pins; the colour lines and E are separate.
var hub75EPins = [numHUB75Signals]machine.Pin{
	sigR1: machine.GP2, sigG1: machine.GP3, sigB1: machine.GP4,
	sigR2: machine.GP5, sigG2: machine.GP14, sigB2: machine.GP15,
	sigA: machine.GP6, sigB: machine.GP7, sigC: machine.GP8, sigD: machine.GP9,
	sigE:   machine.GP20,
	sigCLK: machine.GP10, sigLAT: machine.GP12, sigOE: machine.GP13,
}

// hub75Panel owns the RGB565 surface and keeps the panel refreshed from it.
// Up to 1/16 scan it feeds the tinygo hub75 driver over SPI1; taller panels
// are bit-banged on hub75EPins at one bit per channel so that E is driven.
type hub75Panel struct {
	mu         sync.Mutex
	width      int
	height     int
	chain      int
	stride     int
	brightness uint8
	buf        []byte

	dev   *hub75.Device
	frame []byte
}

func newHUB75Panel(cfg PanelConfig) *hub75Panel {
	chain := cfg.Chain
	if chain <= 0 {
		chain = 1
	}
	width := cfg.SurfaceWidth()
	p := &hub75Panel{
		width:      width,
		height:     cfg.Height,
		chain:      chain,
		stride:     width * 2,
		brightness: cfg.Brightness,
		buf:        make([]byte, width*2*cfg.Height),
	}

	if cfg.Height/2 > hub75DriverMaxRowPattern {
		for _, pin := range hub75EPins {
			pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
			pin.Low()
		}
		hub75EPins[sigOE].High()
		p.frame = make([]byte, len(p.buf))
		go p.scanPins()
		return p
	}

	machine.SPI1.Configure(machine.SPIConfig{
		Frequency: 8000000,
		SCK:       machine.GP10,
		SDO:       machine.GP11,
	})
	dev := hub75.New(machine.SPI1, machine.GP12, machine.GP13, machine.GP6, machine.GP7, machine.GP8, machine.GP9)
	dev.Configure(hub75.Config{
		Width:      int16(width),
		Height:     int16(cfg.Height),
		ColorDepth: 4,
		RowPattern: int16(cfg.Height / 2),
		Brightness: cfg.Brightness,
	})
	p.dev = &dev

	go p.refresh()
	return p
}

func (p *hub75Panel) Width() int          { return p.width }
func (p *hub75Panel) Height() int         { return p.height }
func (p *hub75Panel) Format() PixelFormat { return PixelFormatRGB565 }
func (p *hub75Panel) StrideBytes() int    { return p.stride }
func (p *hub75Panel) Buffer() []byte      { return p.buf }
func (p *hub75Panel) ChainLength() int    { return p.chain }

func (p *hub75Panel) Brightness() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.brightness
}

func (p *hub75Panel) SetBrightness(level uint8) {
	p.mu.Lock()
	p.brightness = level
	p.mu.Unlock()
	if p.dev != nil {
		p.dev.SetBrightness(level)
	}
}

func (p *hub75Panel) ClearRGB(r, g, b uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fillRGB565(p.buf, r, g, b)
}

func (p *hub75Panel) refresh() {
	for n := 0; ; n++ {
		if n%hub75CopyEvery == 0 {
			p.copyToDriver()
		}
		_ = p.dev.Display()
		// The scheduler is cooperative; let the player run between rows.
		runtime.Gosched()
	}
}

func (p *hub75Panel) copyToDriver() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for y := 0; y < p.height; y++ {
		row := p.buf[y*p.stride:]
		for x := 0; x < p.width; x++ {
			r, g, b := RGB888(uint16(row[x*2]) | uint16(row[x*2+1])<<8)
			p.dev.SetPixel(int16(x), int16(y), color.RGBA{R: r, G: g, B: b, A: 0xFF})
		}
	}
}

func (p *hub75Panel) scanPins() {
	set := func(sig hub75Signal, v int) {
		if v != 0 {
			hub75EPins[sig].High()
		} else {
			hub75EPins[sig].Low()
		}
	}
	for {
		p.mu.Lock()
		copy(p.frame, p.buf)
		onTime := time.Duration(p.brightness) * 200 * time.Nanosecond
		p.mu.Unlock()

		scanHUB75(p.frame, p.width, p.height, p.stride, set, func() { time.Sleep(onTime) })
		runtime.Gosched()
	}
}
