//go:build !tinygo

// Command gif2raw converts an animated GIF into frame<N>.raw files sized for
// the panel surface.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/image/draw"

	"matrixloop/player/frame"
	"matrixloop/player/storage"
)

func main() {
	var (
		in            string
		out           string
		width, height int
		chain         int
		scaler        string
	)
	flag.StringVar(&in, "in", "", "Animated GIF to convert.")
	flag.StringVar(&out, "out", "frames", "Output directory.")
	flag.IntVar(&width, "width", 64, "Panel width.")
	flag.IntVar(&height, "height", 64, "Panel height.")
	flag.IntVar(&chain, "chain", 1, "Chained panels.")
	flag.StringVar(&scaler, "scaler", "nearest", "Scaler: nearest | bilinear | catmullrom.")
	flag.Parse()

	if in == "" {
		fmt.Fprintln(os.Stderr, "error: -in is required")
		os.Exit(2)
	}
	sc, ok := scalers[scaler]
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown scaler %q\n", scaler)
		os.Exit(2)
	}
	if chain <= 0 {
		chain = 1
	}

	n, delay, err := run(in, out, width*chain, height, sc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d frames to %s\n", n, out)
	fmt.Printf("animation:\n  frame_count: %d\n  frame_delay_ms: %d\n", n, delay.Milliseconds())
}

var scalers = map[string]draw.Scaler{
	"nearest":    draw.NearestNeighbor,
	"bilinear":   draw.BiLinear,
	"catmullrom": draw.CatmullRom,
}

func run(in, out string, width, height int, sc draw.Scaler) (int, time.Duration, error) {
	f, err := os.Open(in)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %q: %w", in, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return 0, 0, err
	}

	frames := convert(g, width, height, sc)
	for i, data := range frames {
		p := filepath.Join(out, filepath.Base(storage.ResolvePath(i)))
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return i, 0, err
		}
	}
	return len(frames), medianDelay(g.Delay), nil
}

// convert composites each GIF frame onto the logical screen, honouring the
// disposal methods, and scales the result to width x height raw RGB.
func convert(g *gif.GIF, width, height int, sc draw.Scaler) [][]byte {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	var saved *image.RGBA

	out := make([][]byte, 0, len(g.Image))
	for i, img := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Draw(saved, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, img.Bounds(), img, img.Bounds().Min, draw.Over)
		sc.Scale(scaled, scaled.Bounds(), canvas, bounds, draw.Src, nil)
		out = append(out, rawRGB(scaled))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if saved != nil {
				draw.Draw(canvas, bounds, saved, bounds.Min, draw.Src)
			}
		}
	}
	return out
}

// rawRGB flattens img to row-major R, G, B bytes. Transparent areas come out
// black.
func rawRGB(img *image.RGBA) []byte {
	b := img.Bounds()
	data := make([]byte, 0, frame.Size(b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			data = append(data, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return data
}

// medianDelay converts GIF delays (hundredths of a second) to a single
// inter-frame delay.
func medianDelay(delays []int) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	d := append([]int(nil), delays...)
	sort.Ints(d)
	return time.Duration(d[len(d)/2]) * 10 * time.Millisecond
}
