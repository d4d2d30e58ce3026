package gfx

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/modelview/internal/engine/model"
)

func TestGuard_RecoversPanic(t *testing.T) {
	err := Guard("upload", func() error {
		panic("driver lost")
	})
	require.Error(t, err)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindEngineUnavailable, gerr.Kind)
	assert.Equal(t, "upload", gerr.Op)
	assert.Contains(t, err.Error(), "driver lost")
}

func TestGuard_PassesErrorsThrough(t *testing.T) {
	want := Errorf(KindInvalidInput, "op", "%w", ErrNoActor)
	got := Guard("op", func() error { return want })

	assert.Same(t, want, got)
	assert.ErrorIs(t, got, ErrNoActor)
	assert.Equal(t, KindInvalidInput, KindOf(got))
	assert.Equal(t, KindEngineUnavailable, KindOf(errors.New("plain")))
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.5, 1},
		{-0.5, 0},
		{0.25, 0.25},
		{0, 0},
		{1, 1},
		{gomath.NaN(), 0},
		{gomath.Inf(1), 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	assert.Equal(t, Color{1, 0, 0.5}, Color{2, -1, 0.5}.Clamped())
}

func TestDefaultFraming_EnclosesBounds(t *testing.T) {
	b := model.Bounds{Min: [3]float64{-2, -1, 0}, Max: [3]float64{2, 1, 3}}
	f := DefaultFraming(b, DefaultViewAngle)

	assert.Equal(t, Vec3(b.Center()), f.FocalPoint)
	assert.Equal(t, Vec3{0, 1, 0}, f.ViewUp)
	assert.Greater(t, f.Position.Z(), b.Max[2])
	assert.Less(t, f.Near, f.Far)

	dist := f.Position.Sub(f.FocalPoint).Len()
	assert.Less(t, f.Near, dist)
	assert.Greater(t, f.Far, dist)
}

func TestDefaultFraming_EmptyBounds(t *testing.T) {
	f := DefaultFraming(model.EmptyBounds(), 0)
	assert.Equal(t, Vec3{0, 0, 0}, f.FocalPoint)
	assert.False(t, gomath.IsNaN(f.Position.Z()))
	assert.Greater(t, f.Position.Z(), 0.0)
}

func TestClippingRange_NearIsPositive(t *testing.T) {
	b := model.Bounds{Min: [3]float64{-1, -1, -1}, Max: [3]float64{1, 1, 1}}
	// Camera inside the box: the nearest corner is behind it.
	near, far := ClippingRange(Vec3{0, 0, 0.5}, Vec3{0, 0, 0}, b)
	assert.Greater(t, near, 0.0)
	assert.Greater(t, far, near)
}
