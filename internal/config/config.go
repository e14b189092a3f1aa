// Package config handles simulator configuration loading and management.
package config

// Config holds all simulator settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Scene      SceneConfig      `yaml:"scene"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds solver stepping settings.
type SimulationConfig struct {
	TimeStep       float64    `yaml:"time_step"`
	Steps          int        `yaml:"steps"`
	Iterations     int        `yaml:"iterations"`
	Gravity        [2]float64 `yaml:"gravity"`
	TelemetryEvery int        `yaml:"telemetry_every"` // steps between telemetry logs, 0 disables
}

// SceneConfig selects the scene document and its runtime behaviour.
type SceneConfig struct {
	Path    string `yaml:"path"`
	Prefab  string `yaml:"prefab"`
	Watch   bool   `yaml:"watch"`
	Scripts bool   `yaml:"scripts"`
}

// ViewerConfig holds debug window settings.
type ViewerConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
	VSync          bool    `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TimeStep:       1.0 / 60.0,
			Steps:          600,
			Iterations:     10,
			Gravity:        [2]float64{0, -9.81},
			TelemetryEvery: 60,
		},
		Scene: SceneConfig{
			Path:    "scene.yaml",
			Watch:   false,
			Scripts: true,
		},
		Viewer: ViewerConfig{
			Width:          1280,
			Height:         720,
			PixelsPerMeter: 60,
			VSync:          true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
