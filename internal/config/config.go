// Package config handles world editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Edit    EditConfig    `yaml:"edit"`
	Logging LoggingConfig `yaml:"logging"`
}

// WorldConfig describes the world tree created at startup.
type WorldConfig struct {
	Center     [3]float32 `yaml:"center"`
	HalfExtent float32    `yaml:"half_extent"`
	MaxDepth   int        `yaml:"max_depth"`
	BaseColor  string     `yaml:"base_color"` // hex, e.g. "#b4b2ac"
}

// MeshConfig holds mesh extraction settings.
type MeshConfig struct {
	Parallel bool `yaml:"parallel"`
	Workers  int  `yaml:"workers"` // 0 = GOMAXPROCS
}

// EditConfig holds edit script settings.
type EditConfig struct {
	Script string `yaml:"script"` // Path to a YAML edit script
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			HalfExtent: 64,
			MaxDepth:   6,
			BaseColor:  "#b4b2ac",
		},
		Mesh: MeshConfig{
			Parallel: true,
			Workers:  0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
