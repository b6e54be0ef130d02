package app

import (
	"image/color"
	"strings"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"matrixloop/hal"
	"matrixloop/player/panel"
)

const haltRepeat = time.Second

var (
	haltTitle = color.RGBA{R: 0xFF, A: 0xFF}
	haltText  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// halt shows err on the panel when one is usable, then logs it once per
// second and toggles the LED forever.
func halt(h hal.HAL, err error) {
	msg := err.Error()
	if p := h.Panel(); p != nil {
		if sink, serr := panel.New(p); serr == nil {
			sink.Clear()
			drawHalt(sink, msg)
		}
	}

	led := h.LED()
	on := false
	for {
		h.Logger().WriteLineString("error: halted: " + msg)
		if led != nil {
			if on {
				led.Low()
			} else {
				led.High()
			}
			on = !on
		}
		time.Sleep(haltRepeat)
	}
}

// drawHalt writes a title and the wrapped message in the Org01 font.
func drawHalt(d drivers.Displayer, msg string) {
	w, h := d.Size()
	font := &tinyfont.Org01
	const lineHeight = 7
	_, charWidth := tinyfont.LineWidth(font, "0")
	if charWidth == 0 {
		charWidth = 6
	}
	cols := int(w) / int(charWidth)
	if cols <= 0 {
		return
	}

	y := int16(lineHeight - 1)
	tinyfont.WriteLine(d, font, 0, y, "HALT", haltTitle)
	for _, line := range wrap(strings.ToUpper(msg), cols) {
		y += lineHeight
		if y > h {
			break
		}
		tinyfont.WriteLine(d, font, 0, y, line, haltText)
	}
	_ = d.Display()
}

// wrap splits s into lines of at most cols characters, breaking on spaces
// where possible.
func wrap(s string, cols int) []string {
	var lines []string
	for len(s) > 0 {
		if len(s) <= cols {
			lines = append(lines, s)
			break
		}
		cut := strings.LastIndexByte(s[:cols+1], ' ')
		if cut <= 0 {
			cut = cols
		}
		lines = append(lines, strings.TrimRight(s[:cut], " "))
		s = strings.TrimLeft(s[cut:], " ")
	}
	return lines
}
