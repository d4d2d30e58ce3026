package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagMode    = flag.String("mode", "", "Render mode: solid, wireframe or points")
	flagProfile = flag.String("profile", "", "Quality profile: low, balanced or high")
	flagTheme   = flag.String("theme", "", "Built-in palette name or palette file")
	flagModel   = flag.String("model", "", "Procedural model to show: corner or box")
	flagWidth   = flag.Int("width", 0, "Window width")
	flagHeight  = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMode != "" {
		cfg.Viewer.RenderMode = *flagMode
	}
	if *flagProfile != "" {
		cfg.Quality.Profile = *flagProfile
	}
	if *flagTheme != "" {
		if isPaletteFile(*flagTheme) {
			cfg.Theme.File = *flagTheme
		} else {
			cfg.Theme.Palette = *flagTheme
			cfg.Theme.File = ""
		}
	}
	if *flagModel != "" {
		cfg.Viewer.Model = *flagModel
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
