// Package memgfx is an in-memory gfx.Engine. It keeps all scene state in
// plain structs and draws nothing, which makes it suitable for tests and
// headless runs.
package memgfx

import (
	"fmt"

	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/model"
)

// Engine is an in-memory engine.
type Engine struct {
	renderer *Renderer
	threads  int
	closed   bool

	// ActorErr, when set, is returned by the next NewActor call.
	ActorErr error
	// PanicOnActor makes NewActor panic, mimicking a crashing native engine.
	PanicOnActor bool
}

// New creates an engine with a renderer and an active camera.
func New() *Engine {
	return &Engine{
		renderer: NewRenderer(),
	}
}

// Renderer returns the engine's renderer.
func (e *Engine) Renderer() gfx.Renderer {
	return e.renderer
}

// Mem returns the concrete renderer for inspection.
func (e *Engine) Mem() *Renderer {
	return e.renderer
}

// NewActor wraps mesh in an actor.
func (e *Engine) NewActor(mesh *model.Mesh) (gfx.Actor, error) {
	var actor gfx.Actor
	err := gfx.Guard("memgfx.NewActor", func() error {
		if e.closed {
			return gfx.ErrClosed
		}
		if e.PanicOnActor {
			panic("actor allocation failed")
		}
		if e.ActorErr != nil {
			err := e.ActorErr
			e.ActorErr = nil
			return err
		}
		if mesh == nil {
			return gfx.Errorf(gfx.KindInvalidInput, "memgfx.NewActor", "%w", gfx.ErrNoMesh)
		}
		actor = NewMeshActor(mesh)
		return nil
	})
	return actor, err
}

// NewLight creates a light of the given kind.
func (e *Engine) NewLight(kind gfx.LightKind) (gfx.Light, error) {
	if e.closed {
		return nil, gfx.ErrClosed
	}
	return NewSceneLight(kind), nil
}

// SetThreadCount records the hint.
func (e *Engine) SetThreadCount(n int) error {
	if n < 1 {
		return gfx.Errorf(gfx.KindInvalidInput, "memgfx.SetThreadCount", "thread count %d", n)
	}
	e.threads = n
	return nil
}

// ThreadCount returns the last accepted thread hint.
func (e *Engine) ThreadCount() int {
	return e.threads
}

// Close releases the renderer. Calls after Close fail with gfx.ErrClosed.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.renderer.Close()
	return nil
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	return e.closed
}

// Renderer is an in-memory gfx.Renderer.
type Renderer struct {
	actors []gfx.Actor
	lights []gfx.Light
	camera *Camera
	closed bool

	// NoCamera makes ActiveCamera fail.
	NoCamera bool

	Background     [2]gfx.Color
	RenderCount    int
	ResetCount     int
	ClipResetCount int
}

// NewRenderer returns an empty renderer with a default camera.
func NewRenderer() *Renderer {
	return &Renderer{camera: newCamera()}
}

// Close makes every later call fail with gfx.ErrClosed.
func (r *Renderer) Close() {
	r.closed = true
}

// Closed reports whether Close was called.
func (r *Renderer) Closed() bool {
	return r.closed
}

// AddActor appends a to the scene. Adding an actor twice is an error.
func (r *Renderer) AddActor(a gfx.Actor) error {
	if r.closed {
		return gfx.ErrClosed
	}
	if a == nil {
		return gfx.Errorf(gfx.KindInvalidInput, "memgfx.AddActor", "%w", gfx.ErrNoActor)
	}
	for _, existing := range r.actors {
		if existing == a {
			return gfx.Errorf(gfx.KindInvalidInput, "memgfx.AddActor", "actor already in scene")
		}
	}
	r.actors = append(r.actors, a)
	return nil
}

// RemoveActor removes a. Removing an actor that is not present is a no-op.
func (r *Renderer) RemoveActor(a gfx.Actor) error {
	if r.closed {
		return gfx.ErrClosed
	}
	for i, existing := range r.actors {
		if existing == a {
			r.actors = append(r.actors[:i], r.actors[i+1:]...)
			return nil
		}
	}
	return nil
}

// Actors returns a copy of the actor list.
func (r *Renderer) Actors() []gfx.Actor {
	return append([]gfx.Actor(nil), r.actors...)
}

// AddLight appends l to the scene.
func (r *Renderer) AddLight(l gfx.Light) error {
	if r.closed {
		return gfx.ErrClosed
	}
	if l == nil {
		return gfx.Errorf(gfx.KindInvalidInput, "memgfx.AddLight", "nil light")
	}
	r.lights = append(r.lights, l)
	return nil
}

// Lights returns a copy of the light list.
func (r *Renderer) Lights() []gfx.Light {
	return append([]gfx.Light(nil), r.lights...)
}

// ActiveCamera returns the camera.
func (r *Renderer) ActiveCamera() (gfx.Camera, error) {
	if r.closed {
		return nil, gfx.ErrClosed
	}
	if r.NoCamera {
		return nil, gfx.Errorf(gfx.KindEngineUnavailable, "memgfx.ActiveCamera", "%w", gfx.ErrNoCamera)
	}
	return r.camera, nil
}

// Camera returns the concrete camera for inspection.
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// SetBackground stores the gradient colours.
func (r *Renderer) SetBackground(bottom, top gfx.Color) error {
	if r.closed {
		return gfx.ErrClosed
	}
	r.Background = [2]gfx.Color{bottom, top}
	return nil
}

// ResetCamera frames the visible actors.
func (r *Renderer) ResetCamera() error {
	if r.closed {
		return gfx.ErrClosed
	}
	gfx.DefaultFraming(r.visibleBounds(), r.camera.viewAngle).Apply(r.camera)
	r.ResetCount++
	return nil
}

// ResetCameraClippingRange fits the clipping planes to the visible actors.
func (r *Renderer) ResetCameraClippingRange() error {
	if r.closed {
		return gfx.ErrClosed
	}
	near, far := gfx.ClippingRange(r.camera.position, r.camera.focal, r.visibleBounds())
	r.camera.SetClippingRange(near, far)
	r.ClipResetCount++
	return nil
}

// Render counts the frame.
func (r *Renderer) Render() error {
	if r.closed {
		return gfx.ErrClosed
	}
	r.RenderCount++
	return nil
}

func (r *Renderer) visibleBounds() model.Bounds {
	b := model.EmptyBounds()
	for _, a := range r.actors {
		if a.Visible() {
			b = b.Union(a.Bounds())
		}
	}
	return b
}

// String summarises the scene for test failure messages.
func (r *Renderer) String() string {
	return fmt.Sprintf("memgfx.Renderer{actors: %d, lights: %d, renders: %d}",
		len(r.actors), len(r.lights), r.RenderCount)
}
