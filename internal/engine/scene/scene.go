// Package scene composes everything around the model: lights, background,
// reference grid and ground plane.
package scene

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/lighting"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/internal/theme"
)

const (
	// DefaultGridDivisions is the number of cells along each side of the grid.
	DefaultGridDivisions = 20
	// GroundOpacity is the ground plane's fixed opacity.
	GroundOpacity = 0.3
	// GroundOffset places the ground this fraction of the radius below the model.
	GroundOffset = 0.01

	minThreads = 2
)

// Config contains composer options.
type Config struct {
	GridDivisions      int
	GridVisible        bool
	GroundVisible      bool
	HeadlightIntensity float64
}

// DefaultConfig returns the stock composer configuration.
func DefaultConfig() Config {
	return Config{
		GridDivisions:      DefaultGridDivisions,
		GridVisible:        true,
		GroundVisible:      true,
		HeadlightIntensity: lighting.DefaultHeadlightIntensity,
	}
}

// Composer owns the scene furniture. The model actor is attached through it
// so that re-tinting reaches the model too.
type Composer struct {
	engine   gfx.Engine
	renderer gfx.Renderer
	colors   theme.ColorProvider
	config   Config

	rig   *lighting.Rig
	ready bool

	grid   gfx.Actor
	ground gfx.Actor
	model  gfx.Actor

	gridVisible   bool
	groundVisible bool

	log *zap.Logger
}

// New creates a composer. Nothing touches the engine until Setup.
func New(e gfx.Engine, colors theme.ColorProvider, cfg Config) *Composer {
	if cfg.GridDivisions < 1 {
		cfg.GridDivisions = DefaultGridDivisions
	}
	return &Composer{
		engine:        e,
		renderer:      e.Renderer(),
		colors:        colors,
		config:        cfg,
		gridVisible:   cfg.GridVisible,
		groundVisible: cfg.GroundVisible,
		log:           logger.Named("scene"),
	}
}

// Setup installs the light rig and background. Calling it again does nothing.
func (c *Composer) Setup() error {
	if c.ready {
		return nil
	}

	threads := max(minThreads, runtime.NumCPU())
	if err := c.engine.SetThreadCount(threads); err != nil {
		c.log.Debug("thread count hint rejected", zap.Int("threads", threads), zap.Error(err))
	}

	if c.rig == nil {
		rig, err := lighting.NewRig(c.engine, c.config.HeadlightIntensity)
		if err != nil {
			return fmt.Errorf("creating light rig: %w", err)
		}
		if err := rig.Install(c.renderer); err != nil {
			return fmt.Errorf("installing light rig: %w", err)
		}
		c.rig = rig
	}

	c.tintHeadlight()
	if err := c.applyBackground(); err != nil {
		return err
	}

	c.ready = true
	c.log.Debug("scene ready", zap.Int("lights", len(c.rig.Lights())), zap.Int("threads", threads))
	return nil
}

// Renderer returns the renderer the composer draws into.
func (c *Composer) Renderer() gfx.Renderer {
	return c.renderer
}

// Lights returns the rig's lights, or nil before Setup.
func (c *Composer) Lights() []gfx.Light {
	if c.rig == nil {
		return nil
	}
	return c.rig.Lights()
}

// Headlight returns the camera-following light, or nil before Setup.
func (c *Composer) Headlight() *lighting.Headlight {
	if c.rig == nil {
		return nil
	}
	return c.rig.Headlight()
}

// Attach makes a the model actor. A previous model actor is detached first.
func (c *Composer) Attach(a gfx.Actor) error {
	if err := c.Detach(); err != nil {
		return err
	}
	if err := c.renderer.AddActor(a); err != nil {
		return fmt.Errorf("attaching model: %w", err)
	}
	c.model = a
	c.tintModel()
	return nil
}

// Detach removes the model actor, if any.
func (c *Composer) Detach() error {
	if c.model == nil {
		return nil
	}
	if err := c.renderer.RemoveActor(c.model); err != nil {
		return fmt.Errorf("detaching model: %w", err)
	}
	c.model = nil
	return nil
}

// Model returns the attached model actor, or nil.
func (c *Composer) Model() gfx.Actor {
	return c.model
}

// Grid returns the grid actor, or nil before the first UpdateGrid.
func (c *Composer) Grid() gfx.Actor {
	return c.grid
}

// Ground returns the ground actor, or nil before the first CreateGroundPlane.
func (c *Composer) Ground() gfx.Actor {
	return c.ground
}

// ToggleGrid flips grid visibility and returns the new state.
func (c *Composer) ToggleGrid() bool {
	c.gridVisible = !c.gridVisible
	if c.grid != nil {
		c.grid.SetVisible(c.gridVisible)
	}
	return c.gridVisible
}

// GridVisible reports whether the grid is shown.
func (c *Composer) GridVisible() bool {
	return c.gridVisible
}

// UpdateGrid rebuilds the grid as a wireframe square of side 2·radius
// centred on center, in the plane z = center.Z.
func (c *Composer) UpdateGrid(radius float64, center gfx.Vec3) error {
	mesh := PlaneMesh(radius, center.X(), center.Y(), center.Z(), c.config.GridDivisions)
	grid, err := c.engine.NewActor(mesh)
	if err != nil {
		return fmt.Errorf("creating grid: %w", err)
	}
	grid.SetRepresentation(gfx.RepresentationWireframe)
	grid.SetColor(c.tint(theme.Grid))
	grid.SetVisible(c.gridVisible)

	if err := c.swap(&c.grid, grid); err != nil {
		return fmt.Errorf("replacing grid: %w", err)
	}
	c.log.Debug("grid rebuilt", zap.Float64("radius", radius), zap.Int("divisions", c.config.GridDivisions))
	return nil
}

// CreateGroundPlane rebuilds the translucent ground square at height z.
func (c *Composer) CreateGroundPlane(radius float64, center gfx.Vec3, z float64) error {
	mesh := PlaneMesh(radius, center.X(), center.Y(), z, 1)
	ground, err := c.engine.NewActor(mesh)
	if err != nil {
		return fmt.Errorf("creating ground: %w", err)
	}
	ground.SetRepresentation(gfx.RepresentationSurface)
	ground.SetColor(c.tint(theme.Ground))
	ground.SetOpacity(GroundOpacity)
	ground.SetVisible(c.groundVisible)

	if err := c.swap(&c.ground, ground); err != nil {
		return fmt.Errorf("replacing ground: %w", err)
	}
	return nil
}

// SetGroundVisible shows or hides the ground plane.
func (c *Composer) SetGroundVisible(on bool) {
	c.groundVisible = on
	if c.ground != nil {
		c.ground.SetVisible(on)
	}
}

// Surround regenerates grid and ground for model bounds b. The grid goes
// through the model's centre; the ground sits just under its lowest point.
func (c *Composer) Surround(b model.Bounds) error {
	center, radius, err := camera.BoundingSphere(b)
	if err != nil {
		return err
	}
	if err := c.UpdateGrid(radius, center); err != nil {
		return err
	}
	return c.CreateGroundPlane(radius, center, b.Min[2]-GroundOffset*radius)
}

// SetHeadlightIntensity clamps v to [0,1] and returns the applied value.
func (c *Composer) SetHeadlightIntensity(v float64) float64 {
	if c.rig == nil {
		return gfx.Clamp01(v)
	}
	return c.rig.Headlight().SetIntensity(v)
}

// SetHeadlightColor sets the headlight colour with channels clamped to [0,1].
func (c *Composer) SetHeadlightColor(r, g, b float64) {
	if c.rig != nil {
		c.rig.Headlight().SetColor(r, g, b)
	}
}

// ResetHeadlightColor returns the headlight to the theme colour.
func (c *Composer) ResetHeadlightColor() {
	if c.rig != nil {
		c.rig.Headlight().ResetColor(c.tint(theme.Headlight))
	}
}

// SetHeadlightEnabled switches the headlight.
func (c *Composer) SetHeadlightEnabled(on bool) {
	if c.rig != nil {
		c.rig.Headlight().SetEnabled(on)
	}
}

// UpdateHeadlightPosition moves the headlight onto the active camera.
func (c *Composer) UpdateHeadlightPosition() error {
	if c.rig == nil {
		return nil
	}
	cam, err := c.renderer.ActiveCamera()
	if err != nil {
		return fmt.Errorf("headlight update: %w", err)
	}
	c.rig.Headlight().Track(cam)
	return nil
}

// UpdateThemeColors re-reads every colour from the provider. Geometry is
// left alone.
func (c *Composer) UpdateThemeColors() error {
	if c.grid != nil {
		c.grid.SetColor(c.tint(theme.Grid))
	}
	if c.ground != nil {
		c.ground.SetColor(c.tint(theme.Ground))
	}
	c.tintHeadlight()
	c.tintModel()
	return c.applyBackground()
}

// Close removes grid, ground and model actors. Lights stay with the renderer.
func (c *Composer) Close() error {
	var firstErr error
	for _, slot := range []*gfx.Actor{&c.model, &c.grid, &c.ground} {
		if *slot == nil {
			continue
		}
		if err := c.renderer.RemoveActor(*slot); err != nil && firstErr == nil {
			firstErr = err
		}
		*slot = nil
	}
	return firstErr
}

// swap detaches the actor in slot, then attaches next in its place.
func (c *Composer) swap(slot *gfx.Actor, next gfx.Actor) error {
	if *slot != nil {
		if err := c.renderer.RemoveActor(*slot); err != nil {
			return err
		}
		*slot = nil
	}
	if err := c.renderer.AddActor(next); err != nil {
		return err
	}
	*slot = next
	return nil
}

func (c *Composer) applyBackground() error {
	bottom := theme.Lookup(c.colors, theme.BackgroundBottom)
	top := theme.Lookup(c.colors, theme.BackgroundTop)
	if err := c.renderer.SetBackground(bottom, top); err != nil {
		return fmt.Errorf("setting background: %w", err)
	}
	return nil
}

func (c *Composer) tintModel() {
	if c.model == nil {
		return
	}
	c.model.SetColor(c.tint(theme.Model))
	c.model.SetEdgeColor(c.tint(theme.Edge))
}

func (c *Composer) tintHeadlight() {
	if c.rig == nil {
		return
	}
	c.rig.Headlight().Tint(c.tint(theme.Headlight))
}

func (c *Composer) tint(name string) gfx.Color {
	return theme.Lookup(c.colors, name)
}
