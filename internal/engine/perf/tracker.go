// Package perf measures frame rate and decides when to trade shading
// quality for speed.
package perf

import (
	"time"
)

// DefaultInterval is the sampling period.
const DefaultInterval = time.Second

// Tracker counts rendered frames and turns them into an FPS figure once
// per interval. It is driven from the render loop and is not safe for
// concurrent use.
type Tracker struct {
	now      func() time.Time
	interval time.Duration

	running  bool
	frames   int
	last     time.Time
	fps      float64
	onUpdate func(fps float64)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithInterval changes the sampling period.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// NewTracker creates a stopped tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{now: time.Now, interval: DefaultInterval}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OnUpdate registers fn to receive every new FPS sample.
func (t *Tracker) OnUpdate(fn func(fps float64)) {
	t.onUpdate = fn
}

// Start begins a fresh sampling window.
func (t *Tracker) Start() {
	t.running = true
	t.frames = 0
	t.last = t.now()
}

// Stop halts sampling. The last FPS value is kept.
func (t *Tracker) Stop() {
	t.running = false
}

// Running reports whether the tracker is sampling.
func (t *Tracker) Running() bool {
	return t.running
}

// FrameRendered counts one frame.
func (t *Tracker) FrameRendered() {
	if t.running {
		t.frames++
	}
}

// Tick closes the current window: FPS becomes frames / elapsed seconds and
// the counter restarts. When no time has passed the previous FPS is kept.
func (t *Tracker) Tick() {
	now := t.now()
	if elapsed := now.Sub(t.last).Seconds(); elapsed > 0 {
		t.fps = float64(t.frames) / elapsed
	}
	t.frames = 0
	t.last = now

	if t.onUpdate != nil {
		t.onUpdate(t.fps)
	}
}

// Poll ticks when a full interval has passed since the last sample and
// reports whether it did.
func (t *Tracker) Poll() bool {
	if !t.running || t.now().Sub(t.last) < t.interval {
		return false
	}
	t.Tick()
	return true
}

// FPS returns the most recent sample.
func (t *Tracker) FPS() float64 {
	return t.fps
}
