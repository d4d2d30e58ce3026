// Package camera frames models with the renderer's active camera.
package camera

import (
	"errors"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/logger"
)

// ErrInvalidBounds is reported when bounds are empty or not finite.
var ErrInvalidBounds = errors.New("invalid bounds")

const (
	minExtent         = 1e-6
	minRadius         = 1e-3
	fitDistanceFactor = 2.2
	minFitDistance    = 1.0
	clipRadiusFactor  = 4.0
	minNear           = 0.001
	fitMargin         = 1.2
	minAxisLength     = 1e-6

	// DefaultFitFOV is the vertical field of view assumed by
	// FitPreservingOrientation, in degrees.
	DefaultFitFOV = 30.0
)

// State is a snapshot of the camera.
type State struct {
	Position   gfx.Vec3
	FocalPoint gfx.Vec3
	ViewUp     gfx.Vec3
	Near, Far  float64
}

// Distance returns the distance from position to focal point.
func (s State) Distance() float64 {
	return s.FocalPoint.Sub(s.Position).Len()
}

// Options tune the controller.
type Options struct {
	// FitFOV is the field of view used to compute the orientation-preserving
	// fit distance. Zero means DefaultFitFOV.
	FitFOV float64
	// UseViewAngle makes the orientation-preserving fit read the camera's
	// own view angle instead of FitFOV.
	UseViewAngle bool
	// DragSensitivity converts drag pixels to orbit degrees.
	DragSensitivity float64
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		FitFOV:          DefaultFitFOV,
		DragSensitivity: 0.4,
	}
}

// Controller is the only component that moves the camera.
type Controller struct {
	renderer gfx.Renderer
	opts     Options
	onMove   func()
	log      *zap.Logger
}

// New creates a controller for the renderer's active camera.
func New(r gfx.Renderer, opts Options) *Controller {
	if opts.FitFOV <= 0 || opts.FitFOV >= 180 {
		opts.FitFOV = DefaultFitFOV
	}
	if opts.DragSensitivity <= 0 {
		opts.DragSensitivity = DefaultOptions().DragSensitivity
	}
	return &Controller{
		renderer: r,
		opts:     opts,
		log:      logger.Named("camera"),
	}
}

// OnMove registers fn to run after every camera change. The viewer uses it to
// pull the headlight along and request a frame.
func (c *Controller) OnMove(fn func()) {
	c.onMove = fn
}

// State returns the current camera state.
func (c *Controller) State() (State, error) {
	cam, err := c.renderer.ActiveCamera()
	if err != nil {
		return State{}, err
	}
	return stateOf(cam), nil
}

// BoundingSphere approximates the sphere around b by half the box diagonal.
// Each extent is floored at 1e-6 and the radius at 1e-3.
func BoundingSphere(b model.Bounds) (center gfx.Vec3, radius float64, err error) {
	if b.Empty() {
		return gfx.Vec3{}, 0, gfx.Errorf(gfx.KindInvalidInput, "camera.BoundingSphere", "%w", ErrInvalidBounds)
	}

	size := b.Size()
	dx := gomath.Max(size[0], minExtent)
	dy := gomath.Max(size[1], minExtent)
	dz := gomath.Max(size[2], minExtent)

	radius = gomath.Max(0.5*gomath.Sqrt(dx*dx+dy*dy+dz*dz), minRadius)
	return gfx.Vec3(b.Center()), radius, nil
}

// FitDistance is the default-fit camera distance for a sphere of radius r.
func FitDistance(radius float64) float64 {
	return gomath.Max(fitDistanceFactor*radius, minFitDistance)
}

// ClippingRange returns near/far planes for a camera at distance from the
// center of a sphere of radius.
func ClippingRange(distance, radius float64) (near, far float64) {
	near = gomath.Max(minNear, distance-clipRadiusFactor*radius)
	far = distance + clipRadiusFactor*radius
	if far <= near {
		far = near * 10
	}
	return near, far
}

// FitToModel places the camera in front of the model along +Z, looking at
// its center with +Y up. Prior camera state is ignored.
func (c *Controller) FitToModel(b model.Bounds) State {
	cam, err := c.renderer.ActiveCamera()
	if err != nil {
		return c.fallback("fit", err)
	}
	center, radius, err := BoundingSphere(b)
	if err != nil {
		return c.fallback("fit", err)
	}

	distance := FitDistance(radius)
	cam.SetFocalPoint(center)
	cam.SetPosition(center.Add(gfx.Vec3{0, 0, distance}))
	cam.SetViewUp(gfx.Vec3{0, 1, 0})
	cam.SetClippingRange(ClippingRange(distance, radius))

	c.log.Debug("camera fitted",
		zap.Float64("radius", radius),
		zap.Float64("distance", distance),
	)
	c.moved()
	return stateOf(cam)
}

// FitPreservingOrientation reframes b while keeping the current view
// direction and view-up. A degenerate view direction leaves the camera alone.
func (c *Controller) FitPreservingOrientation(b model.Bounds) State {
	cam, err := c.renderer.ActiveCamera()
	if err != nil {
		return c.fallback("refit", err)
	}
	center, radius, err := BoundingSphere(b)
	if err != nil {
		return c.fallback("refit", err)
	}

	dir := cam.FocalPoint().Sub(cam.Position())
	if dir.Len() < minAxisLength {
		c.log.Warn("view direction is degenerate, keeping camera")
		return stateOf(cam)
	}
	dir = dir.Normalize()

	fov := c.fitFOV(cam)
	distance := radius / gomath.Tan(mgl64.DegToRad(fov)/2) * fitMargin

	cam.SetFocalPoint(center)
	cam.SetPosition(center.Sub(dir.Mul(distance)))
	cam.SetClippingRange(ClippingRange(distance, radius))

	c.log.Debug("camera refitted",
		zap.Float64("radius", radius),
		zap.Float64("distance", distance),
		zap.Float64("fov", fov),
	)
	c.moved()
	return stateOf(cam)
}

// Reset asks the engine to frame everything visible.
func (c *Controller) Reset() {
	if err := c.renderer.ResetCamera(); err != nil {
		c.log.Warn("camera reset failed", zap.Error(err))
		return
	}
	c.moved()
}

// RotateAroundViewAxis rolls the camera: the view-up vector is rotated about
// the view axis by degrees.
func (c *Controller) RotateAroundViewAxis(degrees float64) {
	cam, err := c.renderer.ActiveCamera()
	if err != nil {
		c.log.Warn("rotate skipped", zap.Error(err))
		return
	}

	axis := cam.FocalPoint().Sub(cam.Position())
	if axis.Len() < minAxisLength {
		c.log.Warn("rotate skipped, view axis is degenerate")
		return
	}

	up := Rotate(cam.ViewUp(), axis.Normalize(), mgl64.DegToRad(degrees))
	cam.SetViewUp(up)
	c.moved()
}

// Orbit swings the camera around its focal point: azimuth about the view-up
// vector, then elevation about the camera's right vector. Angles in degrees.
func (c *Controller) Orbit(azimuth, elevation float64) {
	cam, err := c.renderer.ActiveCamera()
	if err != nil {
		c.log.Warn("orbit skipped", zap.Error(err))
		return
	}

	focal := cam.FocalPoint()
	offset := cam.Position().Sub(focal)
	up := cam.ViewUp()
	if offset.Len() < minAxisLength || up.Len() < minAxisLength {
		return
	}
	up = up.Normalize()

	offset = Rotate(offset, up, mgl64.DegToRad(azimuth))

	right := offset.Mul(-1).Cross(up)
	if right.Len() >= minAxisLength {
		right = right.Normalize()
		offset = Rotate(offset, right, mgl64.DegToRad(elevation))
		up = Rotate(up, right, mgl64.DegToRad(elevation))
	}

	cam.SetPosition(focal.Add(offset))
	cam.SetViewUp(orthogonalize(up, offset.Mul(-1)))
	if err := c.renderer.ResetCameraClippingRange(); err != nil {
		c.log.Debug("clipping range reset failed", zap.Error(err))
	}
	c.moved()
}

// Drag orbits by a mouse drag delta in pixels.
func (c *Controller) Drag(dx, dy float64) {
	c.Orbit(-dx*c.opts.DragSensitivity, dy*c.opts.DragSensitivity)
}

// Dolly moves the camera toward the focal point by factor (>1 moves closer).
func (c *Controller) Dolly(factor float64) {
	if factor <= 0 {
		return
	}
	cam, err := c.renderer.ActiveCamera()
	if err != nil {
		c.log.Warn("dolly skipped", zap.Error(err))
		return
	}

	focal := cam.FocalPoint()
	offset := cam.Position().Sub(focal)
	if offset.Len() < minAxisLength {
		return
	}
	cam.SetPosition(focal.Add(offset.Mul(1 / factor)))
	if err := c.renderer.ResetCameraClippingRange(); err != nil {
		c.log.Debug("clipping range reset failed", zap.Error(err))
	}
	c.moved()
}

// Rotate rotates v about the unit axis k by theta radians using Rodrigues'
// formula: v cosθ + (k×v) sinθ + k (k·v)(1−cosθ).
func Rotate(v, k gfx.Vec3, theta float64) gfx.Vec3 {
	cos, sin := gomath.Cos(theta), gomath.Sin(theta)
	return v.Mul(cos).
		Add(k.Cross(v).Mul(sin)).
		Add(k.Mul(k.Dot(v) * (1 - cos)))
}

// orthogonalize removes the component of up along the view direction.
func orthogonalize(up, view gfx.Vec3) gfx.Vec3 {
	if view.Len() < minAxisLength {
		return up
	}
	v := view.Normalize()
	out := up.Sub(v.Mul(up.Dot(v)))
	if out.Len() < minAxisLength {
		return up
	}
	return out.Normalize()
}

func (c *Controller) fitFOV(cam gfx.Camera) float64 {
	if c.opts.UseViewAngle {
		if a := cam.ViewAngle(); a > 0 && a < 180 {
			return a
		}
	}
	return c.opts.FitFOV
}

// fallback frames with the engine default when precise framing failed.
func (c *Controller) fallback(op string, cause error) State {
	c.log.Warn("camera "+op+" failed, using engine auto-frame", zap.Error(cause))

	if err := c.renderer.ResetCamera(); err != nil {
		c.log.Warn("engine auto-frame failed", zap.Error(err))
		return State{}
	}
	c.moved()

	st, err := c.State()
	if err != nil {
		return State{}
	}
	return st
}

func (c *Controller) moved() {
	if c.onMove != nil {
		c.onMove()
	}
}

func stateOf(cam gfx.Camera) State {
	near, far := cam.ClippingRange()
	return State{
		Position:   cam.Position(),
		FocalPoint: cam.FocalPoint(),
		ViewUp:     cam.ViewUp(),
		Near:       near,
		Far:        far,
	}
}
