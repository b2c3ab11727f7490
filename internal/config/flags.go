package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagScript   = flag.String("script", "", "Edit script to apply")
	flagMaxDepth = flag.Int("max-depth", 0, "Maximum subdivision depth")
	flagWorkers  = flag.Int("workers", 0, "Mesh extraction workers")
	flagSerial   = flag.Bool("serial", false, "Extract the mesh on one goroutine")
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
	if *flagScript != "" {
		cfg.Edit.Script = *flagScript
	}
	if *flagMaxDepth > 0 {
		cfg.World.MaxDepth = *flagMaxDepth
	}
	if *flagWorkers > 0 {
		cfg.Mesh.Workers = *flagWorkers
		cfg.Mesh.Parallel = true
	}
	if *flagSerial {
		cfg.Mesh.Parallel = false
	}
}
