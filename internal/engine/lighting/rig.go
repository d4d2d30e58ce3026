// Package lighting builds the viewer's light rig: two fixed directional
// lights and a headlight that follows the camera.
package lighting

import (
	"fmt"

	"github.com/Faultbox/modelview/internal/engine/gfx"
)

// FixedLight describes one of the rig's static directional lights.
type FixedLight struct {
	Position  gfx.Vec3
	Intensity float64
}

// FixedLights are the key and fill lights. They never change.
var FixedLights = [2]FixedLight{
	{Position: gfx.Vec3{100, 100, 100}, Intensity: 0.8},
	{Position: gfx.Vec3{-100, -100, 100}, Intensity: 0.5},
}

// LightCount is the number of lights a rig installs.
const LightCount = len(FixedLights) + 1

// Rig owns the fixed lights and the headlight.
type Rig struct {
	fixed     [2]gfx.Light
	headlight *Headlight
}

// NewRig creates the rig's lights on e. Nothing is added to a renderer yet.
func NewRig(e gfx.Engine, headlightIntensity float64) (*Rig, error) {
	r := &Rig{}

	for i, spec := range FixedLights {
		l, err := e.NewLight(gfx.LightDirectional)
		if err != nil {
			return nil, fmt.Errorf("creating fixed light %d: %w", i, err)
		}
		l.SetPosition(spec.Position)
		l.SetFocalPoint(gfx.Vec3{})
		l.SetIntensity(spec.Intensity)
		l.SetSwitch(true)
		r.fixed[i] = l
	}

	l, err := e.NewLight(gfx.LightPoint)
	if err != nil {
		return nil, fmt.Errorf("creating headlight: %w", err)
	}
	r.headlight = newHeadlight(l, headlightIntensity)

	return r, nil
}

// Install adds every light of the rig to renderer.
func (r *Rig) Install(renderer gfx.Renderer) error {
	for _, l := range r.Lights() {
		if err := renderer.AddLight(l); err != nil {
			return fmt.Errorf("adding %s light: %w", l.Kind(), err)
		}
	}
	return nil
}

// Lights returns the fixed lights followed by the headlight.
func (r *Rig) Lights() []gfx.Light {
	return []gfx.Light{r.fixed[0], r.fixed[1], r.headlight.light}
}

// Headlight returns the camera-following light.
func (r *Rig) Headlight() *Headlight {
	return r.headlight
}
