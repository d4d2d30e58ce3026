package viewer

import (
	"errors"
	gomath "math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/gfx/memgfx"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/engine/perf"
	"github.com/Faultbox/modelview/internal/theme"
)

type recorder struct {
	NopListener
	loaded   []string
	failed   []string
	errs     []error
	modes    []RenderMode
	fps      []float64
	progress []int
}

func (r *recorder) ModelLoaded(label string) { r.loaded = append(r.loaded, label) }

func (r *recorder) LoadFailed(label string, err error) {
	r.failed = append(r.failed, label)
	r.errs = append(r.errs, err)
}

func (r *recorder) RenderModeChanged(m RenderMode) { r.modes = append(r.modes, m) }

func (r *recorder) PerformanceUpdated(fps float64) { r.fps = append(r.fps, fps) }

func (r *recorder) LoadingProgress(p int, _ string) { r.progress = append(r.progress, p) }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type fixture struct {
	engine *memgfx.Engine
	viewer *Viewer
	events *recorder
	clock  *clock
}

func newFixture(t *testing.T, tweak func(*Options)) *fixture {
	t.Helper()

	f := &fixture{
		engine: memgfx.New(),
		events: &recorder{},
		clock:  &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
	opts := DefaultOptions()
	opts.Listener = f.events
	opts.Tracker = perf.NewTracker(perf.WithClock(f.clock.now))
	if tweak != nil {
		tweak(&opts)
	}

	v, err := New(f.engine, theme.Dark(), opts)
	require.NoError(t, err)
	f.viewer = v
	return f
}

func (f *fixture) modelActors() []gfx.Actor {
	var out []gfx.Actor
	for _, a := range f.engine.Renderer().Actors() {
		if a != f.viewer.Scene().Grid() && a != f.viewer.Scene().Ground() {
			out = append(out, a)
		}
	}
	return out
}

func TestNew_SetsUpScene(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, StateEmpty, f.viewer.State())
	assert.Len(t, f.engine.Renderer().Lights(), 3)
	assert.Equal(t, RenderSolid, f.viewer.RenderMode())
}

func TestLoadModel_CubeCorner(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer

	require.True(t, v.LoadModel(model.CubeCorner()))

	assert.Equal(t, StateLoaded, v.State())
	assert.Equal(t, []string{"Cube corner (2 triangles)"}, f.events.loaded)
	assert.Empty(t, f.events.failed)
	require.NotEmpty(t, f.events.progress)
	assert.Equal(t, 100, f.events.progress[len(f.events.progress)-1])

	actors := f.modelActors()
	require.Len(t, actors, 1)
	a := actors[0]
	assert.Same(t, v.Actor(), a)
	assert.Equal(t, gfx.DefaultMaterial(), a.Material())
	assert.Equal(t, gfx.RepresentationSurface, a.Representation())
	assert.Equal(t, 2, a.Mesh().TriangleCount())

	// Camera looks at the model from +Z.
	cam := f.engine.Mem().Camera()
	focal := cam.FocalPoint()
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5}, focal[:], 1e-6)
	assert.Greater(t, cam.Position().Z(), 0.5+1.0-1e-9)

	// The headlight rides with the camera.
	head := v.Scene().Headlight().Light()
	assert.Equal(t, cam.Position(), head.Position())
	assert.Equal(t, cam.FocalPoint(), head.FocalPoint())

	assert.NotNil(t, v.Scene().Grid())
	assert.NotNil(t, v.Scene().Ground())
}

func TestLoadModel_AppliesCurrentRenderMode(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.RenderMode = RenderPoints })
	require.True(t, f.viewer.LoadModel(model.Box("crate", 1, 2, 3)))
	assert.Equal(t, gfx.RepresentationPoints, f.viewer.Actor().Representation())
}

func TestLoadModel_ReloadKeepsOneActor(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer

	require.True(t, v.LoadModel(model.CubeCorner()))
	first := v.Actor()
	require.True(t, v.LoadModel(model.Box("crate", 2, 2, 2)))

	actors := f.modelActors()
	require.Len(t, actors, 1)
	assert.NotSame(t, first, actors[0])
	assert.Len(t, f.engine.Renderer().Actors(), 3, "model, grid and ground")
	assert.Equal(t, "crate", v.Model().Name)
}

func TestLoadModel_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*memgfx.Engine)
		model *model.Model
		check func(*testing.T, error)
	}{
		{
			name:  "engine error",
			setup: func(e *memgfx.Engine) { e.ActorErr = errors.New("out of handles") },
			model: model.CubeCorner(),
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "out of handles")
			},
		},
		{
			name:  "engine panic",
			setup: func(e *memgfx.Engine) { e.PanicOnActor = true },
			model: model.CubeCorner(),
			check: func(t *testing.T, err error) {
				assert.Equal(t, gfx.KindEngineUnavailable, gfx.KindOf(err))
			},
		},
		{
			name:  "empty model",
			setup: func(*memgfx.Engine) {},
			model: &model.Model{Name: "nothing"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, model.ErrEmptyModel)
			},
		},
		{
			name:  "nil model",
			setup: func(*memgfx.Engine) {},
			model: nil,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, model.ErrEmptyModel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			v := f.viewer
			require.True(t, v.LoadModel(model.Box("previous", 1, 1, 1)))

			tt.setup(f.engine)
			var ok bool
			require.NotPanics(t, func() { ok = v.LoadModel(tt.model) })

			assert.False(t, ok)
			assert.Equal(t, StateEmpty, v.State())
			assert.Nil(t, v.Actor())
			assert.Empty(t, f.modelActors(), "old actor is removed before the load")
			require.Len(t, f.events.errs, 1)
			assert.Equal(t, []string{Label(tt.model)}, f.events.failed)
			tt.check(t, f.events.errs[0])
		})
	}
}

func TestSetRenderMode(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer
	require.True(t, v.LoadModel(model.CubeCorner()))

	assert.True(t, v.SetRenderModeName("Wireframe"))
	assert.Equal(t, gfx.RepresentationWireframe, v.Actor().Representation())
	assert.Equal(t, []RenderMode{RenderWireframe}, f.events.modes)

	assert.False(t, v.SetRenderModeName("hologram"))
	assert.False(t, v.SetRenderMode(RenderMode(42)))
	assert.Equal(t, RenderWireframe, v.RenderMode())
	assert.Equal(t, gfx.RepresentationWireframe, v.Actor().Representation())
	assert.Len(t, f.events.modes, 1)

	// Without a model the mode is remembered for the next load.
	v.ClearScene()
	assert.True(t, v.SetRenderMode(RenderPoints))
	assert.Nil(t, v.Actor())
	assert.Equal(t, RenderPoints, v.RenderMode())
	assert.Equal(t, []RenderMode{RenderWireframe, RenderPoints}, f.events.modes)
	require.True(t, v.LoadModel(model.CubeCorner()))
	assert.Equal(t, gfx.RepresentationPoints, v.Actor().Representation())
}

func TestClearScene(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer
	require.True(t, v.LoadModel(model.CubeCorner()))
	grid, ground := v.Scene().Grid(), v.Scene().Ground()

	v.ClearScene()

	assert.Equal(t, StateEmpty, v.State())
	assert.Nil(t, v.Actor())
	assert.Nil(t, v.Model())
	assert.Empty(t, f.modelActors())
	assert.ElementsMatch(t, []gfx.Actor{grid, ground}, f.engine.Renderer().Actors())
	assert.Len(t, f.engine.Renderer().Lights(), 3)
}

func TestResetView(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer

	v.ResetView()
	assert.Equal(t, 1, f.engine.Mem().ResetCount, "empty viewer uses the engine reset")

	require.True(t, v.LoadModel(model.CubeCorner()))
	cam := f.engine.Mem().Camera()
	fitted := cam.Position()

	v.Orbit(120, -40)
	v.RotateView(30)
	assert.NotEqual(t, fitted, cam.Position())

	v.ResetView()
	reset := cam.Position()
	assert.InDeltaSlice(t, fitted[:], reset[:], 1e-9)
	assert.Equal(t, gfx.Vec3{0, 1, 0}, cam.ViewUp())
	assert.Equal(t, 1, f.engine.Mem().ResetCount)
}

func viewDir(cam gfx.Camera) gfx.Vec3 {
	return cam.FocalPoint().Sub(cam.Position()).Normalize()
}

func TestReloadModel_KeepsOrientation(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer
	cam := f.engine.Mem().Camera()

	require.True(t, v.LoadModel(model.CubeCorner()))
	v.Orbit(40, 20)
	v.RotateView(30)
	dir, up := viewDir(cam), cam.ViewUp()

	require.True(t, v.ReloadModel(model.Box("crate", 2, 2, 2)))
	got := viewDir(cam)
	assert.InDeltaSlice(t, dir[:], got[:], 1e-9)
	assert.Equal(t, up, cam.ViewUp())
	focal := cam.FocalPoint()
	assert.InDeltaSlice(t, []float64{1, 1, 1}, focal[:], 1e-9)
	assert.Equal(t, []string{"Cube corner (2 triangles)", "crate (12 triangles)"}, f.events.loaded)
	assert.Len(t, f.modelActors(), 1)

	// A plain load goes back to the front view.
	require.True(t, v.LoadModel(model.Box("crate", 2, 2, 2)))
	assert.Equal(t, gfx.Vec3{0, 1, 0}, cam.ViewUp())
	got = viewDir(cam)
	assert.InDeltaSlice(t, []float64{0, 0, -1}, got[:], 1e-9)
}

func TestReloadModel_EmptyViewerUsesDefaultFit(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.engine.Mem().Camera()
	cam.SetPosition(gfx.Vec3{5, 0, 0})

	require.True(t, f.viewer.ReloadModel(model.CubeCorner()))
	got := viewDir(cam)
	assert.InDeltaSlice(t, []float64{0, 0, -1}, got[:], 1e-9)
}

func TestReframeView(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer
	assert.False(t, v.ReframeView())

	require.True(t, v.LoadModel(model.CubeCorner()))
	cam := f.engine.Mem().Camera()
	v.Orbit(-30, 15)
	dir := viewDir(cam)
	v.Zoom(3)

	require.True(t, v.ReframeView())
	got := viewDir(cam)
	assert.InDeltaSlice(t, dir[:], got[:], 1e-9)

	st, err := v.Camera().State()
	require.NoError(t, err)
	_, r, err := camera.BoundingSphere(v.Actor().Mesh().Bounds)
	require.NoError(t, err)
	assert.InDelta(t, r/gomath.Tan(gomath.Pi/12)*1.2, st.Distance(), 1e-9)
}

func TestLoadModel_MalformedArraysLabel(t *testing.T) {
	f := newFixture(t, nil)
	m := model.CubeCorner()
	m.Vertices = m.Vertices[:5]
	m.Normals = m.Normals[:5]

	require.True(t, f.viewer.LoadModel(m))
	assert.Equal(t, []string{"Cube corner (2 triangles)"}, f.events.loaded)
	assert.Equal(t, 2, f.viewer.Actor().Mesh().TriangleCount())
}

func TestHeadlightColor_SurvivesThemeChange(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer

	v.SetHeadlightColor(1, 0, 0)
	v.UpdateThemeColors()
	assert.Equal(t, gfx.Color{1, 0, 0}, v.Scene().Headlight().Color())

	v.ResetHeadlightColor()
	assert.Equal(t, theme.Dark().Colors[theme.Headlight], v.Scene().Headlight().Color())
}

func TestHeadlightFollowsInteraction(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer
	require.True(t, v.LoadModel(model.Box("crate", 1, 1, 1)))

	cam := f.engine.Mem().Camera()
	head := v.Scene().Headlight().Light()

	v.Orbit(25, 10)
	assert.Equal(t, cam.Position(), head.Position())

	// A camera moved behind the controller's back is picked up on request.
	cam.SetPosition(gfx.Vec3{9, 9, 9})
	v.CameraInteracted()
	assert.Equal(t, gfx.Vec3{9, 9, 9}, head.Position())
}

func TestHeadlightPassthrough(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer

	assert.Equal(t, 1.0, v.SetHeadlightIntensity(7))
	assert.Equal(t, 0.0, v.SetHeadlightIntensity(-7))

	v.SetHeadlightEnabled(false)
	assert.False(t, v.Scene().Headlight().Enabled())

	v.SetHeadlightColor(0.2, 0.4, 1.6)
	assert.Equal(t, gfx.Color{0.2, 0.4, 1}, v.Scene().Headlight().Color())
}

func TestToggleGrid(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer
	require.True(t, v.LoadModel(model.CubeCorner()))

	assert.False(t, v.ToggleGrid())
	assert.False(t, v.Scene().Grid().Visible())
	assert.True(t, v.ToggleGrid())
}

func TestApplyMaterial(t *testing.T) {
	f := newFixture(t, nil)
	assert.ErrorIs(t, f.viewer.ApplyMaterial("glossy"), ErrNoMaterials)

	f = newFixture(t, func(o *Options) { o.Materials = DefaultMaterials() })
	v := f.viewer
	assert.ErrorIs(t, v.ApplyMaterial("glossy"), ErrNoModel)

	require.True(t, v.LoadModel(model.CubeCorner()))
	require.NoError(t, v.ApplyMaterial("glossy"))
	assert.Equal(t, DefaultMaterials()["glossy"], v.Actor().Material())

	assert.Error(t, v.ApplyMaterial("chrome"))
	assert.Equal(t, DefaultMaterials()["glossy"], v.Actor().Material())
}

func TestAdaptiveQuality(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Policy = perf.Policy{FullQualityTriangles: 10, MinFPS: 20, RecoverFPS: 40}
	})
	v := f.viewer
	require.True(t, v.LoadModel(model.Box("crate", 1, 1, 1)))

	// A slow second: only the load's own frames were drawn.
	f.clock.t = f.clock.t.Add(time.Second)
	v.Poll()
	require.Len(t, f.events.fps, 1)
	assert.Less(t, f.events.fps[0], 20.0)
	assert.Equal(t, perf.QualityReduced, v.Quality())
	assert.Equal(t, gfx.InterpolationFlat, v.Actor().Interpolation())
	assert.Zero(t, v.Actor().Material().Specular)

	// A fast second restores full quality.
	for i := 0; i < 60; i++ {
		require.NoError(t, v.Render())
	}
	f.clock.t = f.clock.t.Add(time.Second)
	v.Poll()
	assert.Equal(t, perf.QualityFull, v.Quality())
	assert.Equal(t, gfx.InterpolationGouraud, v.Actor().Interpolation())
	assert.Equal(t, gfx.DefaultMaterial(), v.Actor().Material())
	assert.GreaterOrEqual(t, v.FPS(), 60.0)
}

func TestAdaptiveQuality_SmallModelStaysFull(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer
	require.True(t, v.LoadModel(model.CubeCorner()))

	f.clock.t = f.clock.t.Add(time.Second)
	v.Poll()
	assert.Equal(t, perf.QualityFull, v.Quality())
	assert.Equal(t, gfx.DefaultMaterial(), v.Actor().Material())
}

func TestRenderCountsFrames(t *testing.T) {
	f := newFixture(t, nil)
	before := f.engine.Mem().RenderCount
	require.NoError(t, f.viewer.Render())
	assert.Equal(t, before+1, f.engine.Mem().RenderCount)
}

func TestClose(t *testing.T) {
	f := newFixture(t, nil)
	v := f.viewer
	tracker := perf.NewTracker()
	v.tracker = tracker
	tracker.Start()
	require.True(t, v.LoadModel(model.CubeCorner()))

	require.NoError(t, v.Close())

	assert.False(t, tracker.Running())
	assert.Empty(t, f.engine.Renderer().Actors())
	assert.True(t, f.engine.Closed())
	assert.Equal(t, StateEmpty, v.State())

	require.NoError(t, v.Close())
	assert.False(t, v.LoadModel(model.CubeCorner()))
	assert.ErrorIs(t, f.events.errs[len(f.events.errs)-1], gfx.ErrClosed)
}

func TestParseRenderMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RenderMode
		wantErr bool
	}{
		{"solid", RenderSolid, false},
		{" WIREFRAME ", RenderWireframe, false},
		{"points", RenderPoints, false},
		{"surface", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseRenderMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownRenderMode) {
				t.Errorf("ParseRenderMode(%q) error = %v, want ErrUnknownRenderMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRenderMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	assert.Equal(t, "RenderMode(9)", RenderMode(9).String())
	assert.False(t, RenderMode(-1).Valid())
}
