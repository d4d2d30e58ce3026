// Package theme maps symbolic colour names to RGB values for the scene.
package theme

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/modelview/internal/engine/gfx"
)

// Symbolic colour names looked up by the scene.
const (
	BackgroundBottom = "viewer.background.bottom"
	BackgroundTop    = "viewer.background.top"
	Grid             = "viewer.grid"
	Ground           = "viewer.ground"
	Headlight        = "viewer.headlight"
	Edge             = "viewer.edge"
	Model            = "viewer.model"
)

// ColorProvider resolves symbolic colour names.
type ColorProvider interface {
	Color(name string) (gfx.Color, bool)
}

// Palette is a named set of colours.
type Palette struct {
	Name   string
	Colors map[string]gfx.Color
}

// Color implements ColorProvider.
func (p *Palette) Color(name string) (gfx.Color, bool) {
	if p == nil {
		return gfx.Color{}, false
	}
	c, ok := p.Colors[name]
	return c, ok
}

// Names returns the palette's colour names in sorted order.
func (p *Palette) Names() []string {
	names := make([]string, 0, len(p.Colors))
	for n := range p.Colors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dark is the built-in palette and the fallback for missing names.
func Dark() *Palette {
	return &Palette{
		Name: "dark",
		Colors: map[string]gfx.Color{
			BackgroundBottom: {0.11, 0.11, 0.13},
			BackgroundTop:    {0.27, 0.29, 0.33},
			Grid:             {0.45, 0.47, 0.50},
			Ground:           {0.35, 0.30, 0.25},
			Headlight:        {1.00, 0.98, 0.94},
			Edge:             {0.10, 0.10, 0.10},
			Model:            {0.80, 0.66, 0.48},
		},
	}
}

// Light is a built-in palette for light UI themes.
func Light() *Palette {
	return &Palette{
		Name: "light",
		Colors: map[string]gfx.Color{
			BackgroundBottom: {0.78, 0.80, 0.84},
			BackgroundTop:    {0.98, 0.98, 1.00},
			Grid:             {0.55, 0.57, 0.60},
			Ground:           {0.70, 0.65, 0.58},
			Headlight:        {1.00, 1.00, 1.00},
			Edge:             {0.25, 0.25, 0.25},
			Model:            {0.76, 0.60, 0.42},
		},
	}
}

// Builtin returns a built-in palette by name.
func Builtin(name string) (*Palette, bool) {
	switch strings.ToLower(name) {
	case "", "dark":
		return Dark(), true
	case "light":
		return Light(), true
	default:
		return nil, false
	}
}

// Lookup resolves name through p, falling back to the dark palette.
func Lookup(p ColorProvider, name string) gfx.Color {
	if p != nil {
		if c, ok := p.Color(name); ok {
			return c
		}
	}
	c, _ := Dark().Color(name)
	return c
}

// Store is a ColorProvider whose palette can be swapped at runtime.
// Swap must be called from the thread that renders.
type Store struct {
	palette *Palette
}

// NewStore creates a store holding p.
func NewStore(p *Palette) *Store {
	return &Store{palette: p}
}

// Color implements ColorProvider.
func (s *Store) Color(name string) (gfx.Color, bool) {
	return s.palette.Color(name)
}

// Swap replaces the palette.
func (s *Store) Swap(p *Palette) {
	s.palette = p
}

// Palette returns the current palette.
func (s *Store) Palette() *Palette {
	return s.palette
}

type paletteFile struct {
	Name   string            `yaml:"name"`
	Base   string            `yaml:"base"`
	Colors map[string]string `yaml:"colors"`
}

// LoadPalette reads a YAML palette file. Entries override the file's base
// palette (dark by default). Colours may be #rgb, #rrggbb or SVG colour names.
func LoadPalette(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePalette(data)
}

// ParsePalette parses palette YAML.
func ParsePalette(data []byte) (*Palette, error) {
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing palette: %w", err)
	}

	p, ok := Builtin(f.Base)
	if !ok {
		return nil, fmt.Errorf("unknown base palette %q", f.Base)
	}
	if f.Name != "" {
		p.Name = f.Name
	}

	for name, value := range f.Colors {
		c, err := ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("colour %s: %w", name, err)
		}
		p.Colors[name] = c
	}
	return p, nil
}

// ParseColor parses #rgb, #rrggbb or an SVG colour name.
func ParseColor(s string) (gfx.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return gfx.Color{}, fmt.Errorf("bad hex colour %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return gfx.Color{}, fmt.Errorf("bad hex colour %q: %w", s, err)
		}
		return gfx.Color{
			float64(v>>16&0xff) / 255,
			float64(v>>8&0xff) / 255,
			float64(v&0xff) / 255,
		}, nil
	}

	if named, ok := colornames.Map[s]; ok {
		return gfx.Color{
			float64(named.R) / 255,
			float64(named.G) / 255,
			float64(named.B) / 255,
		}, nil
	}
	return gfx.Color{}, fmt.Errorf("unknown colour %q", s)
}
