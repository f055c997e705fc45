// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Export ExportConfig `toml:"export"`
	Review ReviewConfig `toml:"review"`
}

// ExportConfig maps downsampling settings for trainable export.
type ExportConfig struct {
	IntervalMs    *float64 `toml:"interval-ms"`
	MinDistancePx *float64 `toml:"min-distance-px"`
}

// ReviewConfig maps review TUI settings.
type ReviewConfig struct {
	HebrewKeys *bool `toml:"hebrew-keys"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
