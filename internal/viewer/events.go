package viewer

import (
	"github.com/Faultbox/modelview/internal/engine/gfx"
)

// Listener receives viewer notifications. Calls happen on the thread that
// drives the viewer.
type Listener interface {
	ModelLoaded(label string)
	LoadFailed(label string, err error)
	RenderModeChanged(mode RenderMode)
	PerformanceUpdated(fps float64)
	LoadingProgress(percent int, message string)
}

// NopListener ignores every notification. Embed it to implement only the
// callbacks you need.
type NopListener struct{}

func (NopListener) ModelLoaded(string) {}
func (NopListener) LoadFailed(string, error) {}
func (NopListener) RenderModeChanged(RenderMode) {}
func (NopListener) PerformanceUpdated(float64) {}
func (NopListener) LoadingProgress(int, string) {}

// MaterialManager applies named materials to the model actor.
type MaterialManager interface {
	ApplyMaterial(name string, actor gfx.Actor) error
}
