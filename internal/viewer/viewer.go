// Package viewer is the facade the UI talks to. It owns the scene, camera
// and performance tracker and sequences model loads through them.
package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/engine/perf"
	"github.com/Faultbox/modelview/internal/engine/scene"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/internal/theme"
)

var (
	// ErrNoModel is returned by operations that need a loaded model.
	ErrNoModel = errors.New("no model loaded")
	// ErrNoMaterials is returned by ApplyMaterial without a MaterialManager.
	ErrNoMaterials = errors.New("no material manager")
)

// State is the viewer's load state.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Viewer.
type Options struct {
	Scene      scene.Config
	Camera     camera.Options
	Policy     perf.Policy
	Adaptive   bool
	RenderMode RenderMode

	// Tracker defaults to a wall-clock tracker.
	Tracker   *perf.Tracker
	Materials MaterialManager
	Listener  Listener
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Scene:      scene.DefaultConfig(),
		Camera:     camera.DefaultOptions(),
		Policy:     perf.DefaultPolicy(),
		Adaptive:   true,
		RenderMode: RenderSolid,
	}
}

// Viewer sequences model loads: build, attach, fit, notify.
type Viewer struct {
	engine   gfx.Engine
	renderer gfx.Renderer
	composer *scene.Composer
	camera   *camera.Controller
	tracker  *perf.Tracker

	policy    perf.Policy
	adaptive  bool
	materials MaterialManager
	listener  Listener

	state    State
	mode     RenderMode
	quality  perf.Quality
	material gfx.Material

	current *model.Model
	mesh    *model.Mesh
	actor   gfx.Actor

	closed bool
	log    *zap.Logger
}

// New sets up the scene on e and starts the performance tracker.
func New(e gfx.Engine, colors theme.ColorProvider, opts Options) (*Viewer, error) {
	if !opts.RenderMode.Valid() {
		opts.RenderMode = RenderSolid
	}
	if opts.Tracker == nil {
		opts.Tracker = perf.NewTracker()
	}
	if opts.Listener == nil {
		opts.Listener = NopListener{}
	}

	v := &Viewer{
		engine:    e,
		renderer:  e.Renderer(),
		composer:  scene.New(e, colors, opts.Scene),
		camera:    camera.New(e.Renderer(), opts.Camera),
		tracker:   opts.Tracker,
		policy:    opts.Policy,
		adaptive:  opts.Adaptive,
		materials: opts.Materials,
		listener:  opts.Listener,
		mode:      opts.RenderMode,
		material:  gfx.DefaultMaterial(),
		log:       logger.Named("viewer"),
	}

	if err := v.composer.Setup(); err != nil {
		return nil, fmt.Errorf("scene setup: %w", err)
	}

	v.camera.OnMove(v.cameraMoved)
	v.tracker.OnUpdate(v.performanceUpdated)
	v.tracker.Start()

	return v, nil
}

// State returns the load state.
func (v *Viewer) State() State {
	return v.state
}

// Model returns the loaded model, or nil.
func (v *Viewer) Model() *model.Model {
	return v.current
}

// Actor returns the model actor, or nil.
func (v *Viewer) Actor() gfx.Actor {
	return v.actor
}

// RenderMode returns the mode applied to loaded models.
func (v *Viewer) RenderMode() RenderMode {
	return v.mode
}

// Quality returns the shading level currently applied.
func (v *Viewer) Quality() perf.Quality {
	return v.quality
}

// Scene exposes the composer.
func (v *Viewer) Scene() *scene.Composer {
	return v.composer
}

// Camera exposes the camera controller.
func (v *Viewer) Camera() *camera.Controller {
	return v.camera
}

// Label is the human-readable name used in notifications.
func Label(m *model.Model) string {
	if m == nil {
		return "<nil>"
	}
	name := m.Name
	if name == "" {
		name = "untitled"
	}
	return fmt.Sprintf("%s (%d triangles)", name, m.TriangleCount())
}

// LoadModel replaces the displayed model with m and frames it from the
// default front view. On failure the scene is left empty, LoadFailed is
// emitted and false is returned.
func (v *Viewer) LoadModel(m *model.Model) bool {
	return v.loadModel(m, false)
}

// ReloadModel is LoadModel for a replacement of the model on screen: the
// user's view direction and view-up are kept and only the distance is
// refitted. With nothing loaded it frames like LoadModel.
func (v *Viewer) ReloadModel(m *model.Model) bool {
	return v.loadModel(m, true)
}

func (v *Viewer) loadModel(m *model.Model, keepView bool) bool {
	label := Label(m)
	keepView = keepView && v.state == StateLoaded
	if v.closed {
		v.fail(label, gfx.ErrClosed)
		return false
	}

	v.state = StateLoading
	err := gfx.Guard("viewer.LoadModel", func() error {
		return v.load(m, keepView)
	})
	if err != nil {
		v.fail(label, err)
		return false
	}

	v.state = StateLoaded
	v.log.Info("model loaded",
		zap.String("model", label),
		zap.Int("points", len(v.mesh.Points)),
		zap.Stringer("mode", v.mode),
	)
	v.listener.ModelLoaded(label)
	return true
}

func (v *Viewer) load(m *model.Model, keepView bool) error {
	if err := v.detach(); err != nil {
		return err
	}

	mesh, err := model.BuildMesh(m, v.listener.LoadingProgress)
	if err != nil {
		return fmt.Errorf("building mesh: %w", err)
	}

	actor, err := v.engine.NewActor(mesh)
	if err != nil {
		return fmt.Errorf("creating actor: %w", err)
	}
	v.material = gfx.DefaultMaterial()
	v.quality = perf.QualityFull
	actor.SetMaterial(v.material)
	actor.SetInterpolation(gfx.InterpolationGouraud)
	rep, _ := v.mode.Representation()
	actor.SetRepresentation(rep)

	if err := v.composer.Attach(actor); err != nil {
		return err
	}
	v.actor, v.mesh, v.current = actor, mesh, m

	if err := v.composer.Surround(mesh.Bounds); err != nil {
		v.log.Warn("grid and ground not updated", zap.Error(err))
	}
	if keepView {
		v.camera.FitPreservingOrientation(mesh.Bounds)
	} else {
		v.camera.FitToModel(mesh.Bounds)
	}
	return nil
}

func (v *Viewer) fail(label string, err error) {
	if v.actor != nil {
		if derr := v.detach(); derr != nil {
			err = multierr.Append(err, derr)
		}
	}
	v.state = StateEmpty
	v.log.Error("model load failed", zap.String("model", label), zap.Error(err))
	v.listener.LoadFailed(label, err)
}

// detach drops the model actor and every reference to the model.
func (v *Viewer) detach() error {
	if err := v.composer.Detach(); err != nil {
		return err
	}
	v.actor, v.mesh, v.current = nil, nil, nil
	return nil
}

// ResetView frames the loaded model, or lets the engine frame the scene.
func (v *Viewer) ResetView() {
	if v.state == StateLoaded && v.mesh != nil {
		v.camera.FitToModel(v.mesh.Bounds)
		return
	}
	v.camera.Reset()
}

// ReframeView fits the loaded model without changing the view direction.
// It reports false when nothing is loaded.
func (v *Viewer) ReframeView() bool {
	if v.state != StateLoaded || v.mesh == nil {
		return false
	}
	v.camera.FitPreservingOrientation(v.mesh.Bounds)
	return true
}

// SetRenderMode applies mode to the model actor, if any, and keeps it for
// later loads. Unknown modes are rejected with a warning.
func (v *Viewer) SetRenderMode(mode RenderMode) bool {
	rep, ok := mode.Representation()
	if !ok {
		v.log.Warn("render mode rejected", zap.Int("mode", int(mode)))
		return false
	}

	v.mode = mode
	if v.actor != nil {
		v.actor.SetRepresentation(rep)
	}
	v.listener.RenderModeChanged(mode)
	v.requestRender()
	return true
}

// SetRenderModeName parses name and applies it.
func (v *Viewer) SetRenderModeName(name string) bool {
	mode, err := ParseRenderMode(name)
	if err != nil {
		v.log.Warn("render mode rejected", zap.Error(err))
		return false
	}
	return v.SetRenderMode(mode)
}

// RotateView rolls the camera about its view axis.
func (v *Viewer) RotateView(degrees float64) {
	v.camera.RotateAroundViewAxis(degrees)
}

// Orbit drags the camera around the focal point by a pixel delta.
func (v *Viewer) Orbit(dx, dy float64) {
	v.camera.Drag(dx, dy)
}

// Zoom moves the camera toward the focal point (factor > 1) or away.
func (v *Viewer) Zoom(factor float64) {
	v.camera.Dolly(factor)
}

// ToggleGrid flips grid visibility and returns the new state.
func (v *Viewer) ToggleGrid() bool {
	on := v.composer.ToggleGrid()
	v.requestRender()
	return on
}

// SetGroundVisible shows or hides the ground plane.
func (v *Viewer) SetGroundVisible(on bool) {
	v.composer.SetGroundVisible(on)
	v.requestRender()
}

// SetHeadlightIntensity clamps and applies the headlight intensity.
func (v *Viewer) SetHeadlightIntensity(value float64) float64 {
	applied := v.composer.SetHeadlightIntensity(value)
	v.requestRender()
	return applied
}

// SetHeadlightColor applies a clamped headlight colour.
func (v *Viewer) SetHeadlightColor(r, g, b float64) {
	v.composer.SetHeadlightColor(r, g, b)
	v.requestRender()
}

// ResetHeadlightColor drops the user colour in favour of the theme's.
func (v *Viewer) ResetHeadlightColor() {
	v.composer.ResetHeadlightColor()
	v.requestRender()
}

// SetHeadlightEnabled switches the headlight.
func (v *Viewer) SetHeadlightEnabled(on bool) {
	v.composer.SetHeadlightEnabled(on)
	v.requestRender()
}

// ApplyMaterial hands the model actor to the material manager.
func (v *Viewer) ApplyMaterial(name string) error {
	if v.materials == nil {
		return ErrNoMaterials
	}
	if v.actor == nil {
		return ErrNoModel
	}
	if err := v.materials.ApplyMaterial(name, v.actor); err != nil {
		v.log.Warn("material not applied", zap.String("material", name), zap.Error(err))
		return err
	}

	v.material = v.actor.Material()
	if v.quality == perf.QualityReduced {
		v.applyQuality(perf.QualityReduced)
	}
	v.requestRender()
	return nil
}

// CameraInteracted is called by the UI after it moved the camera directly.
func (v *Viewer) CameraInteracted() {
	v.cameraMoved()
}

// UpdateThemeColors re-tints the scene from the colour provider.
func (v *Viewer) UpdateThemeColors() {
	if err := v.composer.UpdateThemeColors(); err != nil {
		v.log.Warn("theme colours not applied", zap.Error(err))
	}
	v.requestRender()
}

// ClearScene removes the model. Grid, ground and lights stay.
func (v *Viewer) ClearScene() {
	if err := v.detach(); err != nil {
		v.log.Warn("clear failed", zap.Error(err))
		return
	}
	v.state = StateEmpty
	v.requestRender()
}

// Render draws a frame and counts it.
func (v *Viewer) Render() error {
	if err := v.renderer.Render(); err != nil {
		return err
	}
	v.tracker.FrameRendered()
	return nil
}

// Poll drives the performance tracker from the render loop.
func (v *Viewer) Poll() {
	v.tracker.Poll()
}

// FPS returns the last measured frame rate.
func (v *Viewer) FPS() float64 {
	return v.tracker.FPS()
}

// Close stops the tracker, removes the viewer's actors and releases the
// engine, in that order.
func (v *Viewer) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.tracker.Stop()

	err := v.composer.Close()
	v.actor, v.mesh, v.current = nil, nil, nil
	v.state = StateEmpty

	return multierr.Append(err, v.engine.Close())
}

func (v *Viewer) cameraMoved() {
	if err := v.composer.UpdateHeadlightPosition(); err != nil {
		v.log.Debug("headlight not updated", zap.Error(err))
	}
	v.requestRender()
}

// requestRender redraws after a state change. These frames are not shown
// by a render loop, so the tracker does not count them.
func (v *Viewer) requestRender() {
	if v.closed {
		return
	}
	if err := v.renderer.Render(); err != nil {
		v.log.Debug("render failed", zap.Error(err))
	}
}

func (v *Viewer) performanceUpdated(fps float64) {
	v.listener.PerformanceUpdated(fps)
	if !v.adaptive || v.actor == nil || v.mesh == nil {
		return
	}

	next := v.policy.Decide(v.mesh.TriangleCount(), fps, v.quality)
	if next == v.quality {
		return
	}
	v.log.Info("render quality changed",
		zap.Stringer("quality", next),
		zap.Float64("fps", fps),
		zap.Int("triangles", v.mesh.TriangleCount()),
	)
	v.applyQuality(next)
	v.requestRender()
}

// applyQuality derives the actor's material from the base material.
func (v *Viewer) applyQuality(q perf.Quality) {
	v.quality = q
	if v.actor == nil {
		return
	}

	mat := v.material
	interp := gfx.InterpolationGouraud
	if q == perf.QualityReduced {
		mat.Specular = 0
		interp = gfx.InterpolationFlat
	}
	v.actor.SetMaterial(mat)
	v.actor.SetInterpolation(interp)
}
