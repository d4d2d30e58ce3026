package lighting

import (
	"github.com/Faultbox/modelview/internal/engine/gfx"
)

// DefaultHeadlightIntensity is the headlight's starting intensity.
const DefaultHeadlightIntensity = 0.6

// Headlight is a point light pinned to the camera.
type Headlight struct {
	light     gfx.Light
	intensity float64
	color     gfx.Color
	enabled   bool
	// custom is set once the user picks a colour; theme tints stop applying.
	custom bool
}

func newHeadlight(l gfx.Light, intensity float64) *Headlight {
	h := &Headlight{light: l}
	h.SetIntensity(intensity)
	h.setColor(gfx.Color{1, 1, 1})
	h.SetEnabled(true)
	return h
}

// Light returns the engine light.
func (h *Headlight) Light() gfx.Light {
	return h.light
}

// SetIntensity stores v clamped to [0,1] and returns the stored value.
func (h *Headlight) SetIntensity(v float64) float64 {
	h.intensity = gfx.Clamp01(v)
	h.light.SetIntensity(h.intensity)
	return h.intensity
}

// Intensity returns the stored intensity.
func (h *Headlight) Intensity() float64 {
	return h.intensity
}

// SetColor sets a user colour; channels are clamped to [0,1]. It wins over
// later theme tints until ResetColor.
func (h *Headlight) SetColor(r, g, b float64) {
	h.custom = true
	h.setColor(gfx.Color{r, g, b})
}

// Tint applies a theme colour unless the user has set one.
func (h *Headlight) Tint(c gfx.Color) bool {
	if h.custom {
		return false
	}
	h.setColor(c)
	return true
}

// ResetColor drops the user colour and applies c.
func (h *Headlight) ResetColor(c gfx.Color) {
	h.custom = false
	h.setColor(c)
}

// CustomColor reports whether a user colour is in effect.
func (h *Headlight) CustomColor() bool {
	return h.custom
}

func (h *Headlight) setColor(c gfx.Color) {
	h.color = c.Clamped()
	h.light.SetColor(h.color)
}

// Color returns the stored colour.
func (h *Headlight) Color() gfx.Color {
	return h.color
}

// SetEnabled switches the light on or off.
func (h *Headlight) SetEnabled(on bool) {
	h.enabled = on
	h.light.SetSwitch(on)
}

// Enabled reports whether the light is on.
func (h *Headlight) Enabled() bool {
	return h.enabled
}

// Track copies the camera's position and focal point onto the light.
func (h *Headlight) Track(cam gfx.Camera) {
	h.light.SetPosition(cam.Position())
	h.light.SetFocalPoint(cam.FocalPoint())
}
