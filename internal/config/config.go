// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Camera  CameraConfig  `yaml:"camera"`
	Quality QualityConfig `yaml:"quality"`
	Scene   SceneConfig   `yaml:"scene"`
	Theme   ThemeConfig   `yaml:"theme"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// ViewerConfig holds the viewer's startup state.
type ViewerConfig struct {
	RenderMode         string  `yaml:"render_mode"` // solid, wireframe or points
	ShowGrid           bool    `yaml:"show_grid"`
	ShowGround         bool    `yaml:"show_ground"`
	Headlight          bool    `yaml:"headlight"`
	HeadlightIntensity float64 `yaml:"headlight_intensity"`
	Model              string  `yaml:"model"` // procedural model loaded at startup
}

// CameraConfig holds framing settings.
type CameraConfig struct {
	FitFOV          float64 `yaml:"fit_fov_degrees"`
	UseViewAngle    bool    `yaml:"use_view_angle"` // fit with the camera's own view angle
	DragSensitivity float64 `yaml:"drag_sensitivity"`
}

// QualityConfig holds adaptive quality settings.
type QualityConfig struct {
	Adaptive bool   `yaml:"adaptive"`
	Profile  string `yaml:"profile"` // low, balanced or high
	// FullQualityTriangles overrides the profile's budget when non-zero.
	FullQualityTriangles int     `yaml:"full_quality_triangles"`
	MinFPS               float64 `yaml:"min_fps"`
	RecoverFPS           float64 `yaml:"recover_fps"`
}

// SceneConfig holds scene furniture settings.
type SceneConfig struct {
	GridDivisions int `yaml:"grid_divisions"`
}

// ThemeConfig selects the colour palette.
type ThemeConfig struct {
	Palette string `yaml:"palette"` // built-in palette name
	File    string `yaml:"file"`    // palette file, overrides Palette
	Watch   bool   `yaml:"watch"`   // reload File when it changes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Model Viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Viewer: ViewerConfig{
			RenderMode:         "solid",
			ShowGrid:           true,
			ShowGround:         true,
			Headlight:          true,
			HeadlightIntensity: 0.6,
			Model:              "corner",
		},
		Camera: CameraConfig{
			FitFOV:          30,
			UseViewAngle:    false,
			DragSensitivity: 0.4,
		},
		Quality: QualityConfig{
			Adaptive:   true,
			Profile:    "balanced",
			MinFPS:     24,
			RecoverFPS: 45,
		},
		Scene: SceneConfig{
			GridDivisions: 20,
		},
		Theme: ThemeConfig{
			Palette: "dark",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
