// Package config provides configuration helpers and config file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session" yaml:"session"`
	Input   InputConfig   `toml:"input" yaml:"input"`
}

// SessionConfig maps trial timing settings. Durations use Go syntax ("2s", "750ms").
type SessionConfig struct {
	Trials      *int    `toml:"trials" yaml:"trials"`
	MinDelay    *string `toml:"min-delay" yaml:"min-delay"`
	MaxDelay    *string `toml:"max-delay" yaml:"max-delay"`
	MinVisible  *string `toml:"min-visible" yaml:"min-visible"`
	MaxVisible  *string `toml:"max-visible" yaml:"max-visible"`
	FinishPause *string `toml:"finish-pause" yaml:"finish-pause"`
	Seed        *int64  `toml:"seed" yaml:"seed"`
}

// InputConfig maps response key settings.
type InputConfig struct {
	Key        *string `toml:"key" yaml:"key"`
	Release    *string `toml:"release" yaml:"release"`
	ReleaseGap *string `toml:"release-gap" yaml:"release-gap"`
}

// LoadConfig reads a TOML or YAML config from the given path, chosen by
// extension. Missing file is not an error.
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err := os.ReadFile(path)
		if err != nil {
			return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}

// ParseDuration parses an optional duration value from the config file.
func ParseDuration(key string, value *string) (*time.Duration, error) {
	if value == nil {
		return nil, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, *value, err)
	}
	return &d, nil
}
