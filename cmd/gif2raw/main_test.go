//go:build !tinygo

package main

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

var testPalette = color.Palette{
	color.RGBA{0, 0, 0, 0xFF},
	color.RGBA{0xFF, 0, 0, 0xFF},
	color.RGBA{0, 0, 0xFF, 0xFF},
	color.Transparent,
}

func solid(r image.Rectangle, idx uint8) *image.Paletted {
	img := image.NewPaletted(r, testPalette)
	for i := range img.Pix {
		img.Pix[i] = idx
	}
	return img
}

func testGIF() *gif.GIF {
	return &gif.GIF{
		Image: []*image.Paletted{
			solid(image.Rect(0, 0, 2, 2), 1),
			solid(image.Rect(0, 0, 1, 1), 2),
			solid(image.Rect(1, 1, 2, 2), 2),
		},
		Delay:    []int{10, 20, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalBackground, gif.DisposalNone},
		Config:   image.Config{Width: 2, Height: 2, ColorModel: testPalette},
	}
}

func pixel(data []byte, w, x, y int) [3]byte {
	o := (y*w + x) * 3
	return [3]byte{data[o], data[o+1], data[o+2]}
}

func TestConvertCompositesFrames(t *testing.T) {
	frames := convert(testGIF(), 2, 2, draw.NearestNeighbor)
	require.Len(t, frames, 3)
	for _, f := range frames {
		assert.Len(t, f, 2*2*3)
	}

	red, blue, black := [3]byte{0xFF, 0, 0}, [3]byte{0, 0, 0xFF}, [3]byte{}

	assert.Equal(t, red, pixel(frames[0], 2, 1, 1))
	assert.Equal(t, blue, pixel(frames[1], 2, 0, 0))
	assert.Equal(t, red, pixel(frames[1], 2, 1, 0), "partial frame keeps the rest")
	assert.Equal(t, black, pixel(frames[2], 2, 0, 0), "frame 1 disposed to background")
	assert.Equal(t, blue, pixel(frames[2], 2, 1, 1))
}

func TestConvertScalesToSurface(t *testing.T) {
	frames := convert(testGIF(), 8, 4, draw.NearestNeighbor)
	require.Len(t, frames, 3)
	assert.Len(t, frames[0], 8*4*3)
	assert.Equal(t, [3]byte{0xFF, 0, 0}, pixel(frames[0], 8, 7, 3))
}

func TestMedianDelay(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, medianDelay([]int{10, 20, 10}))
	assert.Equal(t, 200*time.Millisecond, medianDelay([]int{20}))
	assert.Equal(t, time.Duration(0), medianDelay(nil))
}

func TestRunWritesFrames(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "anim.gif")
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, testGIF()))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "frames")
	n, delay, err := run(in, out, 4, 4, draw.NearestNeighbor)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 100*time.Millisecond, delay)

	for _, name := range []string{"frame0.raw", "frame1.raw", "frame2.raw"} {
		st, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Equal(t, int64(4*4*3), st.Size())
	}
}
