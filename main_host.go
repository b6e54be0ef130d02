//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"matrixloop/app"
	"matrixloop/hal"
	"matrixloop/internal/buildinfo"
	"matrixloop/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "matrixloop.yaml", "path to YAML config")
		medium     = flag.String("medium", "", "storage medium: flash | sd | dir")
		dir        = flag.String("dir", "", "frame directory for -medium=dir")
		flashImage = flag.String("flash-image", "", "LittleFS flash image (see cmd/mkflash)")
		sdImage    = flag.String("sd-image", "", "FAT card image for -medium=sd")
		width      = flag.Int("width", 0, "panel width in pixels")
		height     = flag.Int("height", 0, "panel height in pixels")
		chain      = flag.Int("chain", 0, "panels chained in series")
		driver     = flag.String("driver", "", "panel driver: sim | gpio")
		frames     = flag.Int("frames", 0, "frame count")
		delayMs    = flag.Int("delay-ms", -1, "inter-frame delay in milliseconds")
		maxFrames  = flag.Int("max-frames", -1, "stop after N renders (0 = forever)")
		listen     = flag.String("listen", "", "listener address")
		window     = flag.Bool("window", false, "show a preview window")
		scale      = flag.Int("scale", 0, "preview window scale")
		level      = flag.String("log-level", "", "log level: debug | info | warn | error")
		list       = flag.Bool("list", false, "list the medium at boot")
		version    = flag.Bool("version", false, "print build info and exit")
	)
	var brightness brightnessFlag
	flag.Var(&brightness, "brightness", "panel brightness 0..255")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Long())
		return
	}

	cfg, err := config.Load(*configPath)
	missing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !missing {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Flags set on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "medium":
			cfg.Storage.Medium = *medium
		case "dir":
			cfg.Storage.Dir = *dir
		case "flash-image":
			cfg.Storage.FlashImage = *flashImage
		case "sd-image":
			cfg.Storage.SDImage = *sdImage
		case "width":
			cfg.Panel.Width = *width
		case "height":
			cfg.Panel.Height = *height
		case "chain":
			cfg.Panel.Chain = *chain
		case "brightness":
			cfg.Panel.Brightness = uint8(brightness)
		case "driver":
			cfg.Panel.Driver = *driver
		case "frames":
			cfg.Animation.FrameCount = *frames
		case "delay-ms":
			cfg.Animation.FrameDelayMs = *delayMs
		case "max-frames":
			cfg.Animation.MaxFrames = *maxFrames
		case "listen":
			cfg.Network.Listen = *listen
		case "window":
			cfg.Window.Enabled = *window
		case "scale":
			cfg.Window.Scale = *scale
		case "log-level":
			cfg.Log.Level = *level
		case "list":
			cfg.Storage.ListOnBoot = *list
		}
	})

	h := hal.New(cfg.HALOptions())
	log, _ := hal.Zerolog(h.Logger())
	if missing {
		log.Warn().Str("path", *configPath).Msg("config not found; using defaults")
	}
	os.Exit(run(h, cfg, log))
}

func run(h hal.HAL, cfg config.Config, log zerolog.Logger) int {
	defer func() { _ = hal.Close(h) }()

	log.Info().
		Str("medium", cfg.Storage.Medium).
		Int("frames", cfg.Animation.FrameCount).
		Dur("delay", cfg.FrameDelay()).
		Msg("starting")

	sys, err := app.New(h, cfg)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer func() { _ = sys.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Window.Enabled {
		err = hal.RunWindow(h, "matrixloop ("+buildinfo.Short()+")", cfg.Window.Scale, func(wctx context.Context) error {
			runCtx, cancel := context.WithCancel(wctx)
			defer cancel()
			go func() {
				select {
				case <-ctx.Done():
					cancel()
				case <-runCtx.Done():
				}
			}()
			return sys.Run(runCtx)
		})
	} else {
		err = sys.Run(ctx)
	}

	failed := err != nil && !errors.Is(err, context.Canceled)
	st := sys.Loop().Stats()
	ev := log.Info()
	if failed {
		ev = log.Error().Err(err)
	}
	ev.Uint64("renders", st.Renders).
		Uint64("missing", st.Missing).
		Uint64("truncated", st.Truncated).
		Uint64("cycles", st.Cycles).
		Msg("stopped")
	if failed {
		return 1
	}
	return 0
}

// brightnessFlag rejects levels outside 0..255 at parse time.
type brightnessFlag uint8

func (b *brightnessFlag) String() string { return strconv.Itoa(int(*b)) }

func (b *brightnessFlag) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return fmt.Errorf("%q is not a level in 0..255", s)
	}
	*b = brightnessFlag(n)
	return nil
}
