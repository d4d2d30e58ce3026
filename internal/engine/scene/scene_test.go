package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/gfx/memgfx"
	"github.com/Faultbox/modelview/internal/engine/lighting"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/theme"
)

func newComposer(t *testing.T) (*memgfx.Engine, *Composer) {
	t.Helper()
	e := memgfx.New()
	c := New(e, theme.Dark(), DefaultConfig())
	require.NoError(t, c.Setup())
	return e, c
}

func TestSetup_InstallsThreeLights(t *testing.T) {
	e, c := newComposer(t)

	lights := e.Renderer().Lights()
	require.Len(t, lights, lighting.LightCount)

	for i, want := range lighting.FixedLights {
		l := lights[i]
		assert.Equal(t, gfx.LightDirectional, l.Kind())
		assert.Equal(t, want.Position, l.Position())
		assert.Equal(t, want.Intensity, l.Intensity())
		assert.True(t, l.Switch())
	}

	head := lights[2]
	assert.Equal(t, gfx.LightPoint, head.Kind())
	assert.Equal(t, 0.6, head.Intensity())
	assert.True(t, head.Switch())
	assert.Equal(t, lights, c.Lights())

	assert.GreaterOrEqual(t, e.ThreadCount(), 2)
}

func TestSetup_Idempotent(t *testing.T) {
	e, c := newComposer(t)
	require.NoError(t, c.Setup())
	require.NoError(t, c.Setup())
	assert.Len(t, e.Renderer().Lights(), 3)
}

func TestSetup_Background(t *testing.T) {
	e, _ := newComposer(t)
	dark := theme.Dark()
	assert.Equal(t, dark.Colors[theme.BackgroundBottom], e.Mem().Background[0])
	assert.Equal(t, dark.Colors[theme.BackgroundTop], e.Mem().Background[1])
}

func TestSetup_ClosedEngine(t *testing.T) {
	e := memgfx.New()
	require.NoError(t, e.Close())

	c := New(e, nil, DefaultConfig())
	err := c.Setup()
	require.Error(t, err)
	assert.True(t, errors.Is(err, gfx.ErrClosed))
	assert.Nil(t, c.Lights())
}

func TestHeadlightFollowsCamera(t *testing.T) {
	e, c := newComposer(t)

	ctrl := camera.New(e.Renderer(), camera.DefaultOptions())
	ctrl.FitToModel(model.Bounds{Min: [3]float64{0, 0, 0}, Max: [3]float64{2, 3, 4}})
	require.NoError(t, c.UpdateHeadlightPosition())

	cam := e.Mem().Camera()
	head := c.Headlight().Light()
	assert.Equal(t, cam.Position(), head.Position())
	assert.Equal(t, cam.FocalPoint(), head.FocalPoint())
}

func TestUpdateHeadlightPosition_NoCamera(t *testing.T) {
	e, c := newComposer(t)
	e.Mem().NoCamera = true
	assert.ErrorIs(t, c.UpdateHeadlightPosition(), gfx.ErrNoCamera)
}

func TestHeadlightSetters(t *testing.T) {
	_, c := newComposer(t)

	tests := []struct {
		in, want float64
	}{
		{1.5, 1},
		{-0.2, 0},
		{0.35, 0.35},
	}
	for _, tt := range tests {
		if got := c.SetHeadlightIntensity(tt.in); got != tt.want {
			t.Errorf("SetHeadlightIntensity(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got := c.Headlight().Light().Intensity(); got != tt.want {
			t.Errorf("light intensity = %v, want %v", got, tt.want)
		}
	}

	c.SetHeadlightColor(2, 0.5, -1)
	assert.Equal(t, gfx.Color{1, 0.5, 0}, c.Headlight().Light().Color())

	c.SetHeadlightEnabled(false)
	assert.False(t, c.Headlight().Light().Switch())
}

func TestUpdateGrid_ReplacesActor(t *testing.T) {
	e, c := newComposer(t)

	require.NoError(t, c.UpdateGrid(2, gfx.Vec3{1, 1, 0}))
	first := c.Grid()
	require.NotNil(t, first)
	assert.Equal(t, gfx.RepresentationWireframe, first.Representation())
	assert.Equal(t, [3]float64{-1, -1, 0}, first.Bounds().Min)
	assert.Equal(t, [3]float64{3, 3, 0}, first.Bounds().Max)
	assert.Equal(t, 20*20*2, first.Mesh().TriangleCount())

	require.NoError(t, c.UpdateGrid(5, gfx.Vec3{}))
	actors := e.Renderer().Actors()
	require.Len(t, actors, 1)
	assert.NotSame(t, first, actors[0])
	assert.Equal(t, c.Grid(), actors[0])
}

func TestToggleGrid(t *testing.T) {
	_, c := newComposer(t)

	// Toggling before the grid exists only flips the flag.
	assert.False(t, c.ToggleGrid())
	require.NoError(t, c.UpdateGrid(1, gfx.Vec3{}))
	assert.False(t, c.Grid().Visible())

	assert.True(t, c.ToggleGrid())
	assert.True(t, c.Grid().Visible())
	assert.True(t, c.GridVisible())
}

func TestCreateGroundPlane(t *testing.T) {
	e, c := newComposer(t)

	require.NoError(t, c.CreateGroundPlane(4, gfx.Vec3{0, 0, 9}, -0.5))
	ground := c.Ground()
	require.NotNil(t, ground)
	assert.Equal(t, GroundOpacity, ground.Opacity())
	assert.Equal(t, gfx.RepresentationSurface, ground.Representation())
	assert.InDelta(t, -0.5, ground.Bounds().Min[2], 1e-6)
	assert.InDelta(t, -0.5, ground.Bounds().Max[2], 1e-6)

	require.NoError(t, c.CreateGroundPlane(4, gfx.Vec3{}, 0))
	assert.Len(t, e.Renderer().Actors(), 1)

	c.SetGroundVisible(false)
	assert.False(t, c.Ground().Visible())
}

func TestSurround(t *testing.T) {
	_, c := newComposer(t)

	b := model.Bounds{Min: [3]float64{0, 0, 0}, Max: [3]float64{3, 4, 0}}
	require.NoError(t, c.Surround(b))

	// Radius of a 3x4 plate is 2.5.
	assert.InDelta(t, 2.5*2, c.Grid().Bounds().Size()[0], 1e-5)
	assert.InDelta(t, -0.025, c.Ground().Bounds().Min[2], 1e-6)

	assert.ErrorIs(t, c.Surround(model.EmptyBounds()), camera.ErrInvalidBounds)
}

func TestAttachDetach(t *testing.T) {
	e, c := newComposer(t)

	mesh, err := model.BuildMesh(model.CubeCorner(), nil)
	require.NoError(t, err)

	a1, err := e.NewActor(mesh)
	require.NoError(t, err)
	a2, err := e.NewActor(mesh)
	require.NoError(t, err)

	require.NoError(t, c.Attach(a1))
	require.NoError(t, c.Attach(a2))
	assert.Equal(t, []gfx.Actor{a2}, e.Renderer().Actors())
	assert.Equal(t, theme.Dark().Colors[theme.Model], a2.Color())

	require.NoError(t, c.Detach())
	require.NoError(t, c.Detach())
	assert.Empty(t, e.Renderer().Actors())
	assert.Nil(t, c.Model())
}

func TestUpdateThemeColors(t *testing.T) {
	e := memgfx.New()
	store := theme.NewStore(theme.Dark())
	c := New(e, store, DefaultConfig())
	require.NoError(t, c.Setup())
	require.NoError(t, c.Surround(model.Bounds{Max: [3]float64{1, 1, 1}}))

	mesh, err := model.BuildMesh(model.CubeCorner(), nil)
	require.NoError(t, err)
	a, err := e.NewActor(mesh)
	require.NoError(t, err)
	require.NoError(t, c.Attach(a))

	grid := c.Grid()
	store.Swap(theme.Light())
	require.NoError(t, c.UpdateThemeColors())

	light := theme.Light()
	assert.Same(t, grid, c.Grid(), "re-tint must not rebuild geometry")
	assert.Equal(t, light.Colors[theme.Grid], c.Grid().Color())
	assert.Equal(t, light.Colors[theme.Ground], c.Ground().Color())
	assert.Equal(t, light.Colors[theme.Model], a.Color())
	assert.Equal(t, light.Colors[theme.Edge], a.EdgeColor())
	assert.Equal(t, light.Colors[theme.Headlight], c.Headlight().Color())
	assert.Equal(t, light.Colors[theme.BackgroundTop], e.Mem().Background[1])
}

func TestUpdateThemeColors_KeepsUserHeadlightColor(t *testing.T) {
	e := memgfx.New()
	store := theme.NewStore(theme.Dark())
	c := New(e, store, DefaultConfig())
	require.NoError(t, c.Setup())

	c.SetHeadlightColor(1, 0, 0)
	store.Swap(theme.Light())
	require.NoError(t, c.UpdateThemeColors())
	require.NoError(t, c.Setup())

	assert.Equal(t, gfx.Color{1, 0, 0}, c.Headlight().Color())
	assert.Equal(t, gfx.Color{1, 0, 0}, c.Headlight().Light().Color())
	// Other elements still follow the theme.
	assert.Equal(t, theme.Light().Colors[theme.BackgroundTop], e.Mem().Background[1])

	c.ResetHeadlightColor()
	assert.Equal(t, theme.Light().Colors[theme.Headlight], c.Headlight().Color())
}

func TestClose(t *testing.T) {
	e, c := newComposer(t)
	require.NoError(t, c.Surround(model.Bounds{Max: [3]float64{1, 1, 1}}))
	require.NoError(t, c.Close())
	assert.Empty(t, e.Renderer().Actors())
	assert.Len(t, e.Renderer().Lights(), 3)
}

func TestPlaneMesh(t *testing.T) {
	m := PlaneMesh(1, 0, 0, 2, 4)

	assert.Len(t, m.Points, 25)
	assert.Len(t, m.Triangles, 32)
	assert.Len(t, m.Normals, 25)
	assert.Len(t, m.UVs, 25)
	assert.Equal(t, [3]float64{-1, -1, 2}, m.Bounds.Min)
	assert.Equal(t, [3]float64{1, 1, 2}, m.Bounds.Max)

	for _, tri := range m.Triangles {
		for _, idx := range tri {
			if int(idx) >= len(m.Points) {
				t.Fatalf("index %d out of range", idx)
			}
		}
		n := model.FaceNormal(m.Points[tri[0]], m.Points[tri[1]], m.Points[tri[2]])
		if n != [3]float32{0, 0, 1} {
			t.Errorf("triangle %v faces %v, want +Z", tri, n)
		}
	}

	if got := PlaneMesh(1, 0, 0, 0, 0); len(got.Triangles) != 2 {
		t.Errorf("zero divisions should clamp to one cell, got %d triangles", len(got.Triangles))
	}
}
