//go:build tinygo && baremetal

package hal

import (
	"machine"
	"strconv"
	"time"
)

// uartLogger prefixes every line with milliseconds since boot.
type uartLogger struct {
	uart  *machine.UART
	start time.Time
}

func newUARTLogger(uart *machine.UART) *uartLogger {
	return &uartLogger{uart: uart, start: time.Now()}
}

func (l *uartLogger) WriteLineString(s string) {
	l.stamp()
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	l.stamp()
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) stamp() {
	ms := strconv.FormatInt(time.Since(l.start).Milliseconds(), 10)
	l.uart.WriteByte('[')
	for i := len(ms); i < 8; i++ {
		l.uart.WriteByte(' ')
	}
	for i := 0; i < len(ms); i++ {
		l.uart.WriteByte(ms[i])
	}
	l.uart.WriteByte(']')
	l.uart.WriteByte(' ')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }
