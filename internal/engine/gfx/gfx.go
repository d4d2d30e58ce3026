// Package gfx defines the boundary between the viewer core and a 3D
// graphics engine. Everything above this package talks to the engine only
// through these interfaces; adapters below it translate engine failures
// into error values.
package gfx

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/modelview/internal/engine/model"
)

// Vec3 is the vector type used across the boundary.
type Vec3 = mgl64.Vec3

// Color is a linear RGB triple in [0,1].
type Color [3]float64

// Clamped returns c with every channel clamped to [0,1].
func (c Color) Clamped() Color {
	for i := range c {
		c[i] = Clamp01(c[i])
	}
	return c
}

// Clamp01 clamps v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v >= 0 {
		return v
	}
	return 0
}

// Representation is how an actor's surface is drawn.
type Representation int

const (
	RepresentationSurface Representation = iota
	RepresentationWireframe
	RepresentationPoints
)

func (r Representation) String() string {
	switch r {
	case RepresentationSurface:
		return "surface"
	case RepresentationWireframe:
		return "wireframe"
	case RepresentationPoints:
		return "points"
	default:
		return "unknown"
	}
}

// Interpolation selects per-vertex or per-face shading.
type Interpolation int

const (
	InterpolationGouraud Interpolation = iota
	InterpolationFlat
)

// LightKind is fixed when a light is created.
type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
)

func (k LightKind) String() string {
	if k == LightPoint {
		return "point"
	}
	return "directional"
}

// Material holds the scalar surface properties of an actor.
type Material struct {
	Ambient       float64
	Diffuse       float64
	Specular      float64
	SpecularPower float64
	Lighting      bool
}

// DefaultMaterial is applied to every freshly loaded model.
func DefaultMaterial() Material {
	return Material{
		Ambient:       0.3,
		Diffuse:       0.7,
		Specular:      0.4,
		SpecularPower: 20,
		Lighting:      true,
	}
}

// Actor is a mesh placed in the scene with its render state.
type Actor interface {
	Mesh() *model.Mesh
	Bounds() model.Bounds

	Representation() Representation
	SetRepresentation(r Representation)
	Material() Material
	SetMaterial(m Material)
	Interpolation() Interpolation
	SetInterpolation(i Interpolation)

	Color() Color
	SetColor(c Color)
	EdgeColor() Color
	SetEdgeColor(c Color)
	Opacity() float64
	SetOpacity(v float64)
	Visible() bool
	SetVisible(v bool)
}

// Light is a scene light. Its kind cannot change after creation.
type Light interface {
	Kind() LightKind

	Position() Vec3
	SetPosition(p Vec3)
	FocalPoint() Vec3
	SetFocalPoint(p Vec3)
	Intensity() float64
	SetIntensity(v float64)
	Color() Color
	SetColor(c Color)
	Switch() bool
	SetSwitch(on bool)
}

// Camera is the active viewpoint of a renderer.
type Camera interface {
	Position() Vec3
	SetPosition(p Vec3)
	FocalPoint() Vec3
	SetFocalPoint(p Vec3)
	ViewUp() Vec3
	SetViewUp(v Vec3)
	ClippingRange() (near, far float64)
	SetClippingRange(near, far float64)
	// ViewAngle is the vertical field of view in degrees.
	ViewAngle() float64
}

// Renderer composes actors, lights and a camera into frames.
type Renderer interface {
	AddActor(a Actor) error
	RemoveActor(a Actor) error
	Actors() []Actor
	AddLight(l Light) error
	Lights() []Light
	ActiveCamera() (Camera, error)
	SetBackground(bottom, top Color) error
	// ResetCamera frames every visible actor using the engine's own policy.
	ResetCamera() error
	ResetCameraClippingRange() error
	Render() error
}

// Engine creates engine-side objects and owns the renderer.
type Engine interface {
	Renderer() Renderer
	NewActor(mesh *model.Mesh) (Actor, error)
	NewLight(kind LightKind) (Light, error)
	// SetThreadCount is a performance hint; engines may ignore it.
	SetThreadCount(n int) error
	Close() error
}
