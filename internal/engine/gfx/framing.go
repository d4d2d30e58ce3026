package gfx

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/modelview/internal/engine/model"
)

// DefaultViewAngle is the vertical field of view cameras start with, in degrees.
const DefaultViewAngle = 30.0

// nearPlaneTolerance keeps the near plane a fixed fraction of the far plane.
const nearPlaneTolerance = 0.001

// Framing is a complete camera placement.
type Framing struct {
	Position   Vec3
	FocalPoint Vec3
	ViewUp     Vec3
	Near, Far  float64
}

// Apply writes the framing into cam.
func (f Framing) Apply(cam Camera) {
	cam.SetFocalPoint(f.FocalPoint)
	cam.SetPosition(f.Position)
	cam.SetViewUp(f.ViewUp)
	cam.SetClippingRange(f.Near, f.Far)
}

// DefaultFraming is the engine's own auto-frame: look down -Z at the
// center of b from far enough that the bounding sphere fills the view angle.
// Empty bounds frame the unit cube around the origin.
func DefaultFraming(b model.Bounds, viewAngle float64) Framing {
	if b.Empty() {
		b = model.Bounds{Min: [3]float64{-1, -1, -1}, Max: [3]float64{1, 1, 1}}
	}
	if viewAngle <= 0 || viewAngle >= 180 {
		viewAngle = DefaultViewAngle
	}

	size := b.Size()
	radius := 0.5 * gomath.Sqrt(size[0]*size[0]+size[1]*size[1]+size[2]*size[2])
	if radius == 0 {
		radius = 0.5
	}
	distance := radius / gomath.Sin(mgl64.DegToRad(viewAngle)/2)

	focal := Vec3(b.Center())
	pos := focal.Add(Vec3{0, 0, distance})
	near, far := ClippingRange(pos, focal, b)

	return Framing{
		Position:   pos,
		FocalPoint: focal,
		ViewUp:     Vec3{0, 1, 0},
		Near:       near,
		Far:        far,
	}
}

// ClippingRange returns near and far planes that enclose every corner of b
// for a camera at pos looking at focal.
func ClippingRange(pos, focal Vec3, b model.Bounds) (near, far float64) {
	if b.Empty() {
		return 0.1, 1000
	}

	dir := focal.Sub(pos)
	if dir.Len() < 1e-12 {
		dir = Vec3{0, 0, -1}
	} else {
		dir = dir.Normalize()
	}

	near, far = gomath.Inf(1), gomath.Inf(-1)
	for i := 0; i < 8; i++ {
		corner := Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		d := corner.Sub(pos).Dot(dir)
		near = gomath.Min(near, d)
		far = gomath.Max(far, d)
	}

	near *= 0.99
	far *= 1.01
	if far <= 0 {
		far = 1
	}
	if near < far*nearPlaneTolerance {
		near = far * nearPlaneTolerance
	}
	return near, far
}
