package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanRecorder replays the lines scanHUB75 drives and keeps, per latch, the
// row address and the bits clocked into the top and bottom halves.
type scanRecorder struct {
	level   [numHUB75Signals]int
	top     []int
	bottom  []int
	address []int
	rows    [][2][]int
	shown   int
	dark    int
}

func (r *scanRecorder) set(sig hub75Signal, v int) {
	rising := r.level[sig] == 0 && v == 1
	r.level[sig] = v
	switch {
	case sig == sigCLK && rising:
		r.top = append(r.top, r.level[sigR1])
		r.bottom = append(r.bottom, r.level[sigR2])
	case sig == sigLAT && rising:
		addr := 0
		for i := 0; i < hub75AddressLines; i++ {
			addr |= r.level[sigA+hub75Signal(i)] << i
		}
		r.address = append(r.address, addr)
		r.rows = append(r.rows, [2][]int{r.top, r.bottom})
		r.top, r.bottom = nil, nil
	}
}

func (r *scanRecorder) show() {
	if r.level[sigOE] != 0 {
		r.dark++
	}
	r.shown++
}

func TestScanHUB75DrivesRowE(t *testing.T) {
	const w, h, stride = 4, 64, 4 * 2
	buf := make([]byte, stride*h)
	red := RGB565(0xFF, 0, 0)
	for _, xy := range [][2]int{{1, 20}, {2, 52}} {
		off := xy[1]*stride + xy[0]*2
		buf[off] = byte(red)
		buf[off+1] = byte(red >> 8)
	}

	rec := &scanRecorder{}
	scanHUB75(buf, w, h, stride, rec.set, rec.show)

	require.Len(t, rec.address, 32)
	assert.Equal(t, 32, rec.shown)
	assert.Zero(t, rec.dark, "outputs enabled while shown")
	for row, addr := range rec.address {
		assert.Equal(t, row, addr)
	}
	assert.Equal(t, 1, rec.level[sigOE], "blanked after the frame")

	// Row 20 needs E; without it the pixel would land on row 4.
	assert.Equal(t, []int{0, 1, 0, 0}, rec.rows[20][0])
	assert.Equal(t, []int{0, 0, 1, 0}, rec.rows[20][1], "row 52 shares address 20")
	assert.Equal(t, []int{0, 0, 0, 0}, rec.rows[4][0])
	assert.Equal(t, []int{0, 0, 0, 0}, rec.rows[4][1])
}

func TestScanHUB75SkipsUnaddressableHeights(t *testing.T) {
	rec := &scanRecorder{}
	scanHUB75(make([]byte, 2*128), 1, 128, 2, rec.set, rec.show)
	assert.Zero(t, rec.shown)
	scanHUB75(make([]byte, 2), 1, 1, 2, rec.set, rec.show)
	assert.Zero(t, rec.shown)
}
