// Package app maps configuration onto the viewer and picks the startup
// model and palette. It has no windowing dependencies.
package app

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/modelview/internal/config"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/engine/perf"
	"github.com/Faultbox/modelview/internal/theme"
	"github.com/Faultbox/modelview/internal/viewer"
)

// ViewerOptions converts cfg to viewer options. Every invalid setting is
// reported; the returned options fall back to defaults for those.
func ViewerOptions(cfg *config.Config) (viewer.Options, error) {
	opts := viewer.DefaultOptions()
	var errs error

	opts.Scene.GridDivisions = cfg.Scene.GridDivisions
	opts.Scene.GridVisible = cfg.Viewer.ShowGrid
	opts.Scene.GroundVisible = cfg.Viewer.ShowGround
	opts.Scene.HeadlightIntensity = cfg.Viewer.HeadlightIntensity

	opts.Camera.FitFOV = cfg.Camera.FitFOV
	opts.Camera.UseViewAngle = cfg.Camera.UseViewAngle
	opts.Camera.DragSensitivity = cfg.Camera.DragSensitivity

	mode, err := viewer.ParseRenderMode(cfg.Viewer.RenderMode)
	if err != nil {
		errs = multierr.Append(errs, err)
		mode = viewer.RenderSolid
	}
	opts.RenderMode = mode

	policy, err := perf.Profile(cfg.Quality.Profile)
	if err != nil {
		errs = multierr.Append(errs, err)
		policy = perf.DefaultPolicy()
	}
	if cfg.Quality.FullQualityTriangles > 0 {
		policy.FullQualityTriangles = cfg.Quality.FullQualityTriangles
	}
	if cfg.Quality.MinFPS > 0 {
		policy.MinFPS = cfg.Quality.MinFPS
	}
	if cfg.Quality.RecoverFPS > 0 {
		policy.RecoverFPS = cfg.Quality.RecoverFPS
	}
	if policy.RecoverFPS < policy.MinFPS {
		errs = multierr.Append(errs, fmt.Errorf("recover_fps %.1f is below min_fps %.1f", policy.RecoverFPS, policy.MinFPS))
		policy.RecoverFPS = policy.MinFPS
	}
	opts.Policy = policy
	opts.Adaptive = cfg.Quality.Adaptive

	opts.Materials = viewer.DefaultMaterials()
	return opts, errs
}

var models = map[string]func() *model.Model{
	"corner": model.CubeCorner,
	"box": func() *model.Model {
		return model.Box("Box", 1, 1, 1)
	},
	"slab": func() *model.Model {
		return model.Box("Slab", 3, 4, 0.2)
	},
}

// Model returns a fresh procedural model by name.
func Model(name string) (*model.Model, error) {
	build, ok := models[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (have %s)", name, strings.Join(ModelNames(), ", "))
	}
	return build(), nil
}

// ModelNames lists the procedural models, sorted.
func ModelNames() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Palette resolves the configured palette. A palette file wins over the
// built-in name.
func Palette(cfg config.ThemeConfig) (*theme.Palette, error) {
	if cfg.File != "" {
		p, err := theme.LoadPalette(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("loading palette %s: %w", cfg.File, err)
		}
		return p, nil
	}
	p, ok := theme.Builtin(cfg.Palette)
	if !ok {
		return nil, fmt.Errorf("unknown palette %q", cfg.Palette)
	}
	return p, nil
}
