//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers/sdcard"
)

type sdCard struct {
	logger Logger
	probed bool
	dev    *sdcard.Device
}

// device configures the card on first call. It returns nil when no card
// answers.
func (c *sdCard) device() *sdcard.Device {
	if c.probed {
		return c.dev
	}
	c.probed = true

	sd := sdcard.New(machine.SPI0, machine.GP18, machine.GP19, machine.GP16, machine.GP17)
	if err := sd.Configure(); err != nil {
		c.logger.WriteLineString("warn: sd: configure: " + err.Error())
		return nil
	}
	c.dev = &sd
	return c.dev
}
