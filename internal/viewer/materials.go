package viewer

import (
	"fmt"
	"sort"

	"github.com/Faultbox/modelview/internal/engine/gfx"
)

// MaterialTable is a MaterialManager backed by fixed presets.
type MaterialTable map[string]gfx.Material

// DefaultMaterials returns the built-in presets.
func DefaultMaterials() MaterialTable {
	return MaterialTable{
		"default": gfx.DefaultMaterial(),
		"matte":   {Ambient: 0.35, Diffuse: 0.8, Specular: 0, SpecularPower: 1, Lighting: true},
		"glossy":  {Ambient: 0.2, Diffuse: 0.6, Specular: 0.9, SpecularPower: 60, Lighting: true},
		"unlit":   {Ambient: 1, Diffuse: 0, Specular: 0, SpecularPower: 1, Lighting: false},
	}
}

// ApplyMaterial implements MaterialManager.
func (t MaterialTable) ApplyMaterial(name string, actor gfx.Actor) error {
	m, ok := t[name]
	if !ok {
		return fmt.Errorf("unknown material %q", name)
	}
	actor.SetMaterial(m)
	return nil
}

// Names lists the presets in sorted order.
func (t MaterialTable) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
