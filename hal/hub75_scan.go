package hal

// hub75Signal names one line of a HUB75 connector.
type hub75Signal int

const (
	sigR1 hub75Signal = iota
	sigG1
	sigB1
	sigR2
	sigG2
	sigB2
	sigA
	sigB
	sigC
	sigD
	sigE
	sigCLK
	sigLAT
	sigOE
	numHUB75Signals
)

// hub75AddressLines is the number of row address lines (A..E), enough for a
// 1/32 scan.
const hub75AddressLines = 5

// signalPins lays HUB75Pins out in hub75Signal order. Negative entries are
// unwired.
func (p HUB75Pins) signalPins() [numHUB75Signals]int {
	return [numHUB75Signals]int{
		sigR1: p.R1, sigG1: p.G1, sigB1: p.B1,
		sigR2: p.R2, sigG2: p.G2, sigB2: p.B2,
		sigA: p.A, sigB: p.B, sigC: p.C, sigD: p.D, sigE: p.E,
		sigCLK: p.CLK, sigLAT: p.LAT, sigOE: p.OE,
	}
}

// scanHUB75 clocks one 1-bit frame of little-endian RGB565 pixels out through
// set. Rows y and y+height/2 are shifted together and latched on address y,
// then show is called with the outputs enabled.
func scanHUB75(frame []byte, width, height, stride int, set func(hub75Signal, int), show func()) {
	half := height / 2
	if half == 0 || half > 1<<hub75AddressLines {
		return
	}
	for row := 0; row < half; row++ {
		for col := 0; col < width; col++ {
			r1, g1, b1 := pixelBits(frame, stride, col, row)
			r2, g2, b2 := pixelBits(frame, stride, col, row+half)
			set(sigR1, r1)
			set(sigG1, g1)
			set(sigB1, b1)
			set(sigR2, r2)
			set(sigG2, g2)
			set(sigB2, b2)
			set(sigCLK, 1)
			set(sigCLK, 0)
		}

		// Blank while the address lines and latch change.
		set(sigOE, 1)
		for i := 0; i < hub75AddressLines; i++ {
			set(sigA+hub75Signal(i), (row>>i)&1)
		}
		set(sigLAT, 1)
		set(sigLAT, 0)
		set(sigOE, 0)
		show()
	}
	set(sigOE, 1)
}

func pixelBits(frame []byte, stride, x, y int) (r, g, b int) {
	off := y*stride + x*2
	rr, gg, bb := RGB888(uint16(frame[off]) | uint16(frame[off+1])<<8)
	return bit(rr), bit(gg), bit(bb)
}

func bit(c uint8) int {
	if c >= 0x80 {
		return 1
	}
	return 0
}
