package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagScene    = flag.String("scene", "", "Path to scene file")
	flagPrefab   = flag.String("prefab", "", "Reference scene used for delta saves")
	flagWatch    = flag.Bool("watch", false, "Reload joint settings when the scene file changes")
	flagSteps    = flag.Int("steps", 0, "Number of simulation steps")
	flagNoScript = flag.Bool("no-scripts", false, "Disable joint drive scripts")
	flagSave     = flag.String("save", "", "Write the scene to this path when the run ends")
	flagDelta    = flag.Bool("delta", false, "With -save, write joint settings as overrides of the prefab")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SavePath returns the -save output path, or "" when not saving.
func SavePath() string {
	return *flagSave
}

// SaveDelta reports whether -save should write a delta against the prefab.
func SaveDelta() bool {
	return *flagDelta
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagPrefab != "" {
		cfg.Scene.Prefab = *flagPrefab
	}
	if *flagWatch {
		cfg.Scene.Watch = true
	}
	if *flagSteps > 0 {
		cfg.Simulation.Steps = *flagSteps
	}
	if *flagNoScript {
		cfg.Scene.Scripts = false
	}
}
