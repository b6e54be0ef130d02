//go:build tinygo && baremetal

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	panel  *hub75Panel
	flash  Flash
	sd     *sdCard
	net    Network
}

// New returns a Pico (RP2040/RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Panel: HUB75 on SPI1 (GP10 CLK, GP11 data) up to 1/16 scan, bit-banged
// with an E line above that; see tinygo_hub75.go for the pins.
// SD: SPI0 on GP18/GP19/GP16, CS on GP17. The card is probed on first use.
func New(opts Options) HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	logger := newUARTLogger(uart)
	return &tinyGoHAL{
		logger: logger,
		led:    &pinLED{pin: ledPin},
		panel:  newHUB75Panel(opts.Panel),
		flash:  newRP2Flash(),
		sd:     &sdCard{logger: logger},
		net:    nullNetwork{},
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) Panel() Panel     { return h.panel }
func (h *tinyGoHAL) Flash() Flash     { return h.flash }
func (h *tinyGoHAL) Network() Network { return h.net }

func (h *tinyGoHAL) SD() BlockDevice {
	dev := h.sd.device()
	if dev == nil {
		return nil
	}
	return dev
}

// Close is a no-op on the device; peripherals stay configured until reset.
func Close(h HAL) error {
	_ = h
	return nil
}
