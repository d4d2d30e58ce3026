package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/app"
	"github.com/Faultbox/modelview/internal/config"
	"github.com/Faultbox/modelview/internal/engine/input"
	"github.com/Faultbox/modelview/internal/engine/renderer"
	"github.com/Faultbox/modelview/internal/engine/snapshot"
	"github.com/Faultbox/modelview/internal/engine/window"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/internal/theme"
	"github.com/Faultbox/modelview/internal/viewer"
)

const (
	rotateStep = 15.0
	zoomStep   = 1.1
)

type viewerApp struct {
	cfg     *config.Config
	running bool

	window  *window.Window
	engine  *renderer.Engine
	input   *input.Input
	viewer  *viewer.Viewer
	store   *theme.Store
	watcher *theme.Watcher
	shots   *snapshot.Writer
	capture bool

	log *zap.Logger
}

// titleListener keeps the window title in sync with viewer events.
type titleListener struct {
	viewer.NopListener
	app *viewerApp

	label string
	mode  viewer.RenderMode
}

func (l *titleListener) ModelLoaded(label string) {
	l.label = label
	l.app.log.Info("model loaded", zap.String("model", label))
	l.update(0)
}

func (l *titleListener) LoadFailed(label string, err error) {
	l.label = ""
	l.app.log.Error("model load failed", zap.String("model", label), zap.Error(err))
	l.update(0)
}

func (l *titleListener) RenderModeChanged(m viewer.RenderMode) {
	l.mode = m
	l.update(0)
}

func (l *titleListener) PerformanceUpdated(fps float64) {
	l.update(fps)
}

func (l *titleListener) LoadingProgress(percent int, message string) {
	l.app.log.Debug("loading", zap.Int("percent", percent), zap.String("step", message))
}

func (l *titleListener) update(fps float64) {
	if l.app.window == nil {
		return
	}
	title := l.app.cfg.Window.Title
	if l.label != "" {
		title = fmt.Sprintf("%s - %s [%s]", title, l.label, l.mode)
	}
	if fps > 0 {
		title = fmt.Sprintf("%s %.0f FPS", title, fps)
	}
	l.app.window.SetTitle(title)
}

func newApp(cfg *config.Config) (*viewerApp, error) {
	a := &viewerApp{
		cfg:   cfg,
		input: input.New(),
		shots: snapshot.NewWriter("screenshots", "modelview"),
		log:   logger.Named("app"),
	}

	opts, err := app.ViewerOptions(cfg)
	if err != nil {
		a.log.Warn("invalid settings replaced by defaults", zap.Error(err))
	}

	palette, err := app.Palette(cfg.Theme)
	if err != nil {
		a.log.Warn("palette unavailable, using dark", zap.Error(err))
		palette = theme.Dark()
	}
	a.store = theme.NewStore(palette)

	a.window, err = window.New(window.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The GL engine needs the window's context.
	w, h := a.window.DrawableSize()
	a.engine, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	listener := &titleListener{app: a, mode: opts.RenderMode}
	opts.Listener = listener
	a.viewer, err = viewer.New(a.engine, a.store, opts)
	if err != nil {
		a.engine.Close()
		a.window.Close()
		return nil, fmt.Errorf("failed to create viewer: %w", err)
	}
	if !cfg.Viewer.Headlight {
		a.viewer.SetHeadlightEnabled(false)
	}

	if cfg.Theme.Watch && cfg.Theme.File != "" {
		a.watcher, err = theme.Watch(cfg.Theme.File)
		if err != nil {
			a.log.Warn("palette watch disabled", zap.Error(err))
		}
	}

	a.loadConfiguredModel()
	return a, nil
}

func (a *viewerApp) loadConfiguredModel() {
	m, err := app.Model(a.cfg.Viewer.Model)
	if err != nil {
		a.log.Warn("startup model skipped", zap.Error(err))
		return
	}
	a.viewer.LoadModel(m)
}

// reloadConfiguredModel rebuilds the model and keeps the current view angle.
func (a *viewerApp) reloadConfiguredModel() {
	m, err := app.Model(a.cfg.Viewer.Model)
	if err != nil {
		a.log.Warn("reload skipped", zap.Error(err))
		return
	}
	a.viewer.ReloadModel(m)
}

// Run drives the event loop until the window closes.
func (a *viewerApp) Run() error {
	a.running = true
	a.log.Info("starting render loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			a.handle(ev)
		}
		a.applyPalette()

		if err := a.viewer.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if a.capture {
			a.capture = false
			a.screenshot()
		}
		a.window.SwapBuffers()
		a.viewer.Poll()
	}
	return nil
}

func (a *viewerApp) handle(ev input.Event) {
	switch ev.Type {
	case input.EventResize:
		a.engine.Resize(a.window.DrawableSize())
	case input.EventDrag:
		a.viewer.Orbit(ev.DX, ev.DY)
	case input.EventDragEnd:
		a.viewer.CameraInteracted()
	case input.EventWheel:
		if ev.Wheel > 0 {
			a.viewer.Zoom(zoomStep)
		} else {
			a.viewer.Zoom(1 / zoomStep)
		}
	case input.EventKeyDown:
		a.key(ev.Key)
	}
}

func (a *viewerApp) key(k sdl.Keycode) {
	switch k {
	case sdl.K_ESCAPE:
		a.running = false
	case sdl.K_1:
		a.viewer.SetRenderMode(viewer.RenderSolid)
	case sdl.K_2:
		a.viewer.SetRenderMode(viewer.RenderWireframe)
	case sdl.K_3:
		a.viewer.SetRenderMode(viewer.RenderPoints)
	case sdl.K_g:
		a.viewer.ToggleGrid()
	case sdl.K_l:
		a.cfg.Viewer.Headlight = !a.cfg.Viewer.Headlight
		a.viewer.SetHeadlightEnabled(a.cfg.Viewer.Headlight)
	case sdl.K_r:
		a.viewer.ResetView()
	case sdl.K_q:
		a.viewer.RotateView(-rotateStep)
	case sdl.K_e:
		a.viewer.RotateView(rotateStep)
	case sdl.K_c:
		a.viewer.ClearScene()
	case sdl.K_m:
		a.reloadConfiguredModel()
	case sdl.K_f:
		a.viewer.ReframeView()
	case sdl.K_p:
		a.capture = true
	}
}

func (a *viewerApp) screenshot() {
	name, err := a.shots.Save(a.engine.ReadPixels())
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

// applyPalette picks up a re-read palette file without blocking.
func (a *viewerApp) applyPalette() {
	if a.watcher == nil {
		return
	}
	select {
	case p := <-a.watcher.Updates():
		a.store.Swap(p)
		a.viewer.UpdateThemeColors()
		a.log.Info("palette reloaded", zap.String("palette", p.Name))
	default:
	}
}

// Close releases the viewer, the engine and the window in that order.
func (a *viewerApp) Close() {
	a.log.Info("closing viewer")

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing palette watcher", zap.Error(err))
		}
	}
	if a.viewer != nil {
		if err := a.viewer.Close(); err != nil {
			a.log.Warn("closing viewer", zap.Error(err))
		}
	}
	if a.window != nil {
		a.window.Close()
	}
}
