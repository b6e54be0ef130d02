//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

type snapshotter interface {
	snapshotRGB565(dst []byte)
}

// RunWindow opens a desktop preview of the panel surface and runs body
// alongside it. It blocks until the window closes or body returns; either way
// body's context is cancelled and its error is returned.
func RunWindow(h HAL, title string, scale int, body func(ctx context.Context) error) error {
	p := h.Panel()
	snap, ok := p.(snapshotter)
	if !ok {
		return errors.New("window: panel has no host surface")
	}
	if scale <= 0 {
		scale = 8
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- body(ctx) }()

	g := &hostGame{panel: p, snap: snap, done: done}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(p.Width()*scale, p.Height()*scale)
	ebiten.SetTPS(60)

	err := ebiten.RunGame(g)
	cancel()
	if g.finished {
		return g.bodyErr
	}
	bodyErr := <-done
	if err != nil {
		return err
	}
	if errors.Is(bodyErr, context.Canceled) {
		return nil
	}
	return bodyErr
}

type hostGame struct {
	panel   Panel
	snap    snapshotter
	done    <-chan error
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte

	finished bool
	bodyErr  error
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.finished = true
		g.bodyErr = err
		return ebiten.Termination
	default:
		return nil
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	w, h := g.panel.Width(), g.panel.Height()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.scratch = make([]byte, w*h*2)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	g.snap.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := RGB888(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.panel.Width(), g.panel.Height()
}
