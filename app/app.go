// Package app wires the HAL, the storage medium and the playback loop
// together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"matrixloop/hal"
	"matrixloop/internal/buildinfo"
	"matrixloop/internal/config"
	"matrixloop/player/panel"
	"matrixloop/player/playback"
	"matrixloop/player/storage"
)

// System is a bootstrapped player, ready to run.
type System struct {
	h        hal.HAL
	cfg      config.Config
	backend  storage.Backend
	sink     *panel.Sink
	loop     *playback.Loop
	listener io.Closer
}

// New performs bootstrap: mount the configured medium, bring up the panel,
// provision the listener, list the medium if asked, and build the loop.
// Medium and panel failures are returned; a listener failure is only logged.
func New(h hal.HAL, cfg config.Config, opts ...playback.Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := h.Logger()
	l.WriteLineString("matrixloop " + buildinfo.Short())

	backend, err := mountMedium(h, cfg)
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", cfg.Storage.Medium, err)
	}
	if fs, ok := backend.(*storage.FS); ok && fs.Formatted() {
		l.WriteLineString("warn: " + backend.Name() + ": no filesystem found, formatted")
	}
	l.WriteLineString(backend.Name() + " mounted")

	s := &System{h: h, cfg: cfg, backend: backend}
	sink, err := initPanel(h, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.sink = sink
	l.WriteLineString(fmt.Sprintf("panel %dx%d (chain %d) brightness %d",
		sink.Width(), sink.Height(), h.Panel().ChainLength(), cfg.Panel.Brightness))

	s.listen()

	if cfg.Storage.ListOnBoot {
		listMedium(l, backend)
	}

	s.loop, err = playback.New(playback.Config{
		Width:      sink.Width(),
		Height:     sink.Height(),
		FrameCount: cfg.Animation.FrameCount,
		Delay:      cfg.FrameDelay(),
	}, backend, sink, l, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}

	if led := h.LED(); led != nil {
		led.High()
	}
	return s, nil
}

func (s *System) Backend() storage.Backend { return s.backend }
func (s *System) Sink() *panel.Sink        { return s.sink }
func (s *System) Loop() *playback.Loop     { return s.loop }

// Run plays until ctx is done or animation.max_frames renders have happened.
func (s *System) Run(ctx context.Context) error {
	return s.loop.Run(ctx, s.cfg.Animation.MaxFrames)
}

func (s *System) Close() error {
	var first error
	if s.listener != nil {
		first = s.listener.Close()
		s.listener = nil
	}
	if fs, ok := s.backend.(*storage.FS); ok {
		if err := fs.Unmount(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Run bootstraps and plays forever. Bootstrap errors halt the device.
func Run(h hal.HAL, cfg config.Config) {
	s, err := New(h, cfg)
	if err != nil {
		halt(h, err)
	}
	_ = s.Run(context.Background())
	select {}
}

func mountMedium(h hal.HAL, cfg config.Config) (storage.Backend, error) {
	switch cfg.Storage.Medium {
	case config.MediumFlash:
		return storage.NewFlash(h.Flash())
	case config.MediumSD:
		return storage.NewSD(h.SD())
	case config.MediumDir:
		return openDir(cfg.Storage.Dir)
	default:
		return nil, fmt.Errorf("%w: medium %q", config.ErrInvalid, cfg.Storage.Medium)
	}
}

func initPanel(h hal.HAL, cfg config.Config) (*panel.Sink, error) {
	p := h.Panel()
	if p == nil {
		return nil, errors.New("panel: not available")
	}
	sink, err := panel.New(p)
	if err != nil {
		return nil, err
	}
	sink.SetBrightness(cfg.Panel.Brightness)
	sink.Clear()
	return sink, nil
}

func (s *System) listen() {
	addr := s.cfg.Network.Listen
	if addr == "" {
		return
	}
	l := s.h.Logger()
	n := s.h.Network()
	if n == nil {
		l.WriteLineString("warn: network: not available")
		return
	}
	c, err := n.Listen(addr)
	if errors.Is(err, hal.ErrNotImplemented) {
		l.WriteLineString("debug: network: listen " + addr + ": " + err.Error())
		return
	}
	if err != nil {
		l.WriteLineString("warn: network: listen " + addr + ": " + err.Error())
		return
	}
	s.listener = c
	l.WriteLineString("listening on " + addr)
}

func listMedium(l hal.Logger, b storage.Backend) {
	w, ok := b.(storage.Walker)
	if !ok {
		return
	}
	l.WriteLineString("listing " + b.Name() + ":")
	err := w.Walk("/", func(p string, info os.FileInfo) error {
		if info.IsDir() {
			l.WriteLineString("  DIR : " + p)
		} else {
			l.WriteLineString(fmt.Sprintf("  FILE: %s  SIZE: %d", p, info.Size()))
		}
		return nil
	})
	if err != nil {
		l.WriteLineString("warn: list " + b.Name() + ": " + err.Error())
	}
}
