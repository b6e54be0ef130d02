//go:build linux && !tinygo

package hal

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

const gpioChip = "gpiochip0"

// gpioPanel scans a hostFramebuffer out to a HUB75 panel by bit-banging the
// GPIO character device. Color depth is one bit per channel.
type gpioPanel struct {
	*hostFramebuffer

	pins    HUB75Pins
	sigPins [numHUB75Signals]int
	lines   map[int]*gpiocdev.Line
	frame   []byte

	stop chan struct{}
	wg   sync.WaitGroup
}

func newGPIOPanel(fb *hostFramebuffer, pins HUB75Pins) (*gpioPanel, error) {
	p := &gpioPanel{
		hostFramebuffer: fb,
		pins:            pins,
		sigPins:         pins.signalPins(),
		lines:           make(map[int]*gpiocdev.Line),
		frame:           make([]byte, len(fb.buf)),
		stop:            make(chan struct{}),
	}

	for _, pin := range p.sigPins {
		if pin < 0 {
			continue
		}
		line, err := gpiocdev.RequestLine(gpioChip, pin, gpiocdev.AsOutput(0))
		if err != nil {
			p.releaseLines()
			return nil, fmt.Errorf("gpio panel: request line %d: %w", pin, err)
		}
		p.lines[pin] = line
	}

	p.wg.Add(1)
	go p.refresh()
	return p, nil
}

func (p *gpioPanel) Close() error {
	close(p.stop)
	p.wg.Wait()
	p.releaseLines()
	return nil
}

func (p *gpioPanel) releaseLines() {
	for _, line := range p.lines {
		_ = line.Close()
	}
	p.lines = make(map[int]*gpiocdev.Line)
}

func (p *gpioPanel) set(pin int, v int) {
	if line, ok := p.lines[pin]; ok {
		_ = line.SetValue(v)
	}
}

func (p *gpioPanel) refresh() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.set(p.pins.OE, 1)
			return
		default:
		}
		p.snapshotRGB565(p.frame)
		p.scan()
	}
}

func (p *gpioPanel) scan() {
	onTime := time.Duration(p.Brightness()) * 200 * time.Nanosecond
	scanHUB75(p.frame, p.width, p.height, p.stride,
		func(sig hub75Signal, v int) { p.set(p.sigPins[sig], v) },
		func() { time.Sleep(onTime) })
}
