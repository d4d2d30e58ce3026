package memgfx

import (
	"github.com/Faultbox/modelview/internal/engine/gfx"
	"github.com/Faultbox/modelview/internal/engine/model"
)

// Actor is an in-memory gfx.Actor.
type Actor struct {
	mesh           *model.Mesh
	representation gfx.Representation
	material       gfx.Material
	interpolation  gfx.Interpolation
	color          gfx.Color
	edgeColor      gfx.Color
	opacity        float64
	visible        bool
}

// NewMeshActor returns a visible, opaque white actor for mesh.
func NewMeshActor(mesh *model.Mesh) *Actor {
	return &Actor{
		mesh:     mesh,
		material: gfx.Material{Ambient: 0, Diffuse: 1, Specular: 0, SpecularPower: 1, Lighting: true},
		color:    gfx.Color{1, 1, 1},
		opacity:  1,
		visible:  true,
	}
}

func (a *Actor) Mesh() *model.Mesh { return a.mesh }

func (a *Actor) Bounds() model.Bounds {
	if a.mesh == nil {
		return model.EmptyBounds()
	}
	return a.mesh.Bounds
}

func (a *Actor) Representation() gfx.Representation { return a.representation }
func (a *Actor) SetRepresentation(r gfx.Representation) { a.representation = r }
func (a *Actor) Material() gfx.Material { return a.material }
func (a *Actor) SetMaterial(m gfx.Material) { a.material = m }
func (a *Actor) Interpolation() gfx.Interpolation { return a.interpolation }
func (a *Actor) SetInterpolation(i gfx.Interpolation) { a.interpolation = i }
func (a *Actor) Color() gfx.Color { return a.color }
func (a *Actor) SetColor(c gfx.Color) { a.color = c.Clamped() }
func (a *Actor) EdgeColor() gfx.Color { return a.edgeColor }
func (a *Actor) SetEdgeColor(c gfx.Color) { a.edgeColor = c.Clamped() }
func (a *Actor) Opacity() float64 { return a.opacity }
func (a *Actor) SetOpacity(v float64) { a.opacity = gfx.Clamp01(v) }
func (a *Actor) Visible() bool { return a.visible }
func (a *Actor) SetVisible(v bool) { a.visible = v }

// Light is an in-memory gfx.Light.
type Light struct {
	kind      gfx.LightKind
	position  gfx.Vec3
	focal     gfx.Vec3
	intensity float64
	color     gfx.Color
	on        bool
}

// NewSceneLight returns a switched-on white light of full intensity.
func NewSceneLight(kind gfx.LightKind) *Light {
	return &Light{kind: kind, intensity: 1, color: gfx.Color{1, 1, 1}, on: true}
}

func (l *Light) Kind() gfx.LightKind { return l.kind }
func (l *Light) Position() gfx.Vec3 { return l.position }
func (l *Light) SetPosition(p gfx.Vec3) { l.position = p }
func (l *Light) FocalPoint() gfx.Vec3 { return l.focal }
func (l *Light) SetFocalPoint(p gfx.Vec3) { l.focal = p }
func (l *Light) Intensity() float64 { return l.intensity }
func (l *Light) SetIntensity(v float64) { l.intensity = v }
func (l *Light) Color() gfx.Color { return l.color }
func (l *Light) SetColor(c gfx.Color) { l.color = c }
func (l *Light) Switch() bool { return l.on }
func (l *Light) SetSwitch(on bool) { l.on = on }

// Camera is an in-memory gfx.Camera.
type Camera struct {
	position  gfx.Vec3
	focal     gfx.Vec3
	viewUp    gfx.Vec3
	near, far float64
	viewAngle float64
}

func newCamera() *Camera {
	return &Camera{
		position:  gfx.Vec3{0, 0, 1},
		viewUp:    gfx.Vec3{0, 1, 0},
		near:      0.01,
		far:       1000,
		viewAngle: gfx.DefaultViewAngle,
	}
}

func (c *Camera) Position() gfx.Vec3 { return c.position }
func (c *Camera) SetPosition(p gfx.Vec3) { c.position = p }
func (c *Camera) FocalPoint() gfx.Vec3 { return c.focal }
func (c *Camera) SetFocalPoint(p gfx.Vec3) { c.focal = p }
func (c *Camera) ViewUp() gfx.Vec3 { return c.viewUp }
func (c *Camera) SetViewUp(v gfx.Vec3) { c.viewUp = v }
func (c *Camera) ViewAngle() float64 { return c.viewAngle }

// SetViewAngle changes the vertical field of view in degrees.
func (c *Camera) SetViewAngle(deg float64) { c.viewAngle = deg }

func (c *Camera) ClippingRange() (near, far float64) { return c.near, c.far }

func (c *Camera) SetClippingRange(near, far float64) {
	c.near, c.far = near, far
}
