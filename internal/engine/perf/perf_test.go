package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewTracker(WithClock(clock.now)), clock
}

func TestTracker_FPS(t *testing.T) {
	tr, clock := newTestTracker()

	var got []float64
	tr.OnUpdate(func(fps float64) { got = append(got, fps) })
	tr.Start()

	for i := 0; i < 60; i++ {
		tr.FrameRendered()
	}
	clock.advance(2 * time.Second)
	tr.Tick()

	assert.Equal(t, 30.0, tr.FPS())
	assert.Equal(t, []float64{30}, got)
}

func TestTracker_NoFramesIsZero(t *testing.T) {
	tr, clock := newTestTracker()
	tr.Start()

	tr.FrameRendered()
	clock.advance(time.Second)
	tr.Tick()
	assert.Equal(t, 1.0, tr.FPS())

	clock.advance(time.Second)
	tr.Tick()
	assert.Equal(t, 0.0, tr.FPS())
}

func TestTracker_ZeroElapsedKeepsValue(t *testing.T) {
	tr, clock := newTestTracker()
	tr.Start()

	for i := 0; i < 10; i++ {
		tr.FrameRendered()
	}
	clock.advance(time.Second)
	tr.Tick()

	tr.FrameRendered()
	tr.Tick()
	assert.Equal(t, 10.0, tr.FPS())
}

func TestTracker_Poll(t *testing.T) {
	tr, clock := newTestTracker()

	updates := 0
	tr.OnUpdate(func(float64) { updates++ })

	assert.False(t, tr.Poll(), "stopped tracker must not tick")

	tr.Start()
	clock.advance(999 * time.Millisecond)
	assert.False(t, tr.Poll())

	clock.advance(time.Millisecond)
	assert.True(t, tr.Poll())
	assert.Equal(t, 1, updates)

	tr.Stop()
	clock.advance(5 * time.Second)
	assert.False(t, tr.Poll())
	assert.False(t, tr.Running())
}

func TestTracker_FramesIgnoredWhileStopped(t *testing.T) {
	tr, clock := newTestTracker()
	tr.FrameRendered()
	tr.Start()
	clock.advance(time.Second)
	tr.Tick()
	assert.Equal(t, 0.0, tr.FPS())
}

func TestProfile(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"low", 50_000, false},
		{"balanced", 100_000, false},
		{"", 100_000, false},
		{"HIGH", 500_000, false},
		{"ultra", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Profile(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.FullQualityTriangles != tt.want {
				t.Errorf("FullQualityTriangles = %d, want %d", p.FullQualityTriangles, tt.want)
			}
		})
	}

	assert.Equal(t, BalancedTriangles, DefaultPolicy().FullQualityTriangles)
}

func TestPolicy_Decide(t *testing.T) {
	p := Policy{FullQualityTriangles: 1000, MinFPS: 20, RecoverFPS: 40}

	tests := []struct {
		name      string
		triangles int
		fps       float64
		current   Quality
		want      Quality
	}{
		{"small model is always full", 1000, 1, QualityReduced, QualityFull},
		{"slow large model reduces", 1001, 19.9, QualityFull, QualityReduced},
		{"fast large model recovers", 5000, 40, QualityReduced, QualityFull},
		{"hysteresis keeps reduced", 5000, 30, QualityReduced, QualityReduced},
		{"hysteresis keeps full", 5000, 30, QualityFull, QualityFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Decide(tt.triangles, tt.fps, tt.current); got != tt.want {
				t.Errorf("Decide(%d, %v, %v) = %v, want %v", tt.triangles, tt.fps, tt.current, got, tt.want)
			}
		})
	}
}
