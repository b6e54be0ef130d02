// Package playback runs the frame loop: open the next frame, decode it into
// the panel, wait, advance.
package playback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matrixloop/hal"
	"matrixloop/player/frame"
	"matrixloop/player/storage"
)

type State uint8

const (
	Idle State = iota
	Rendering
	Waiting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Waiting:
		return "waiting"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

type Config struct {
	// Width is the full surface width (panel width times chain length).
	Width      int
	Height     int
	FrameCount int
	Delay      time.Duration
}

// Stats counts render outcomes since the loop was created.
type Stats struct {
	// Renders counts every Rendering step, whatever its outcome.
	Renders   uint64
	Complete  uint64
	Missing   uint64
	Truncated uint64
	Cycles    uint64
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Option func(*Loop)

// WithSleep replaces the inter-frame wait.
func WithSleep(fn SleepFunc) Option {
	return func(l *Loop) { l.sleep = fn }
}

// Loop is single-threaded: Step and Run must not be called concurrently.
type Loop struct {
	cfg     Config
	backend storage.Backend
	sink    frame.Sink
	log     hal.Logger
	sleep   SleepFunc

	state State
	index int
	stats Stats
	cycle Stats
}

func New(cfg Config, backend storage.Backend, sink frame.Sink, log hal.Logger, opts ...Option) (*Loop, error) {
	if backend == nil || sink == nil {
		return nil, errors.New("playback: nil backend or sink")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("playback: invalid surface %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FrameCount <= 0 {
		return nil, fmt.Errorf("playback: invalid frame count %d", cfg.FrameCount)
	}
	l := &Loop{
		cfg:     cfg,
		backend: backend,
		sink:    sink,
		log:     log,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// State returns the current state and the frame index it refers to.
func (l *Loop) State() (State, int) { return l.state, l.index }

func (l *Loop) Stats() Stats { return l.stats }

// Step performs exactly one transition:
//
//	Idle         -> Rendering(0)
//	Rendering(i) -> Waiting(i)                  (renders frame i)
//	Waiting(i)   -> Rendering((i+1) % count)    (after the delay)
//
// The only error is the context's, returned when the wait is interrupted; the
// state is then left unchanged.
func (l *Loop) Step(ctx context.Context) error {
	switch l.state {
	case Idle:
		l.state, l.index = Rendering, 0
	case Rendering:
		l.render(l.index)
		l.state = Waiting
	case Waiting:
		if err := l.sleep(ctx, l.cfg.Delay); err != nil {
			return err
		}
		next := l.index + 1
		if next >= l.cfg.FrameCount {
			next = 0
			l.endCycle()
		}
		l.state, l.index = Rendering, next
	}
	return nil
}

// Run steps until ctx is done or, when maxFrames > 0, until that many frames
// have been rendered. It returns nil in the latter case.
func (l *Loop) Run(ctx context.Context, maxFrames int) error {
	start := l.stats.Renders
	for {
		if maxFrames > 0 && l.stats.Renders-start >= uint64(maxFrames) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Step(ctx); err != nil {
			return err
		}
	}
}

func (l *Loop) render(i int) {
	l.stats.Renders++
	l.cycle.Renders++

	p := storage.ResolvePath(i)
	r, err := l.backend.Open(p)
	if err != nil {
		l.stats.Missing++
		l.cycle.Missing++
		l.logf("warn: frame %s: %v", p, err)
		return
	}
	defer r.Close()

	res := frame.Decode(r, l.cfg.Width, l.cfg.Height, l.sink)
	if res.Truncated {
		l.stats.Truncated++
		l.cycle.Truncated++
		if res.Err != nil {
			l.logf("debug: frame %s: read error after %d pixels: %v", p, res.Pixels, res.Err)
		} else {
			l.logf("debug: frame %s: truncated after %d pixels", p, res.Pixels)
		}
		return
	}
	l.stats.Complete++
	l.cycle.Complete++
}

func (l *Loop) endCycle() {
	l.stats.Cycles++
	l.logf("cycle %d: %d frames, %d complete, %d missing, %d truncated",
		l.stats.Cycles, l.cycle.Renders, l.cycle.Complete, l.cycle.Missing, l.cycle.Truncated)
	l.cycle = Stats{}
}

func (l *Loop) logf(format string, args ...any) {
	if l.log == nil {
		return
	}
	l.log.WriteLineString(fmt.Sprintf(format, args...))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
