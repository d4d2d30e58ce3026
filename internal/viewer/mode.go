package viewer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/modelview/internal/engine/gfx"
)

// ErrUnknownRenderMode is returned for render modes outside the closed set.
var ErrUnknownRenderMode = errors.New("unknown render mode")

// RenderMode is how the model surface is drawn.
type RenderMode int

const (
	RenderSolid RenderMode = iota
	RenderWireframe
	RenderPoints
)

var representations = map[RenderMode]gfx.Representation{
	RenderSolid:     gfx.RepresentationSurface,
	RenderWireframe: gfx.RepresentationWireframe,
	RenderPoints:    gfx.RepresentationPoints,
}

var modeNames = map[RenderMode]string{
	RenderSolid:     "solid",
	RenderWireframe: "wireframe",
	RenderPoints:    "points",
}

func (m RenderMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("RenderMode(%d)", int(m))
}

// Valid reports whether m is one of the known modes.
func (m RenderMode) Valid() bool {
	_, ok := representations[m]
	return ok
}

// Representation maps m onto the engine's surface representation.
func (m RenderMode) Representation() (gfx.Representation, bool) {
	r, ok := representations[m]
	return r, ok
}

// ParseRenderMode accepts solid, wireframe or points in any case.
func ParseRenderMode(s string) (RenderMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for mode, n := range modeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRenderMode, s)
}
