// Package config loads the optional ~/.habitline.yaml file. Every field has
// a sensible default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = ".habitline.yaml"

type Config struct {
	// DatabasePath overrides the default ~/.habitline.db (the HABITLINE_DB
	// environment variable wins over both).
	DatabasePath string `yaml:"database_path"`
	// DefaultTimezone is assigned to new profiles created without an
	// explicit timezone.
	DefaultTimezone string `yaml:"default_timezone"`
	// LevelCurve shapes leveling: the XP threshold for level L is
	// coefficient * L^exponent.
	LevelCurve LevelCurveConfig `yaml:"level_curve"`
	// MilestoneTargets are the global streak lengths that award a bonus.
	MilestoneTargets []int `yaml:"milestone_targets"`
}

type LevelCurveConfig struct {
	Coefficient float64 `yaml:"coefficient"`
	Exponent    float64 `yaml:"exponent"`
}

func Default() Config {
	return Config{
		DefaultTimezone:  "UTC",
		LevelCurve:       LevelCurveConfig{Coefficient: 10, Exponent: 2},
		MilestoneTargets: []int{3, 7, 14, 30},
	}
}

// Path returns the config file location: HABITLINE_CONFIG, or
// ~/.habitline.yaml.
func Path() (string, error) {
	if env := os.Getenv("HABITLINE_CONFIG"); env != "" {
		return env, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, configFile), nil
}

// Load reads the config file, falling back to defaults when it is absent.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	if cfg.LevelCurve.Coefficient <= 0 {
		cfg.LevelCurve = Default().LevelCurve
	}
	if len(cfg.MilestoneTargets) == 0 {
		cfg.MilestoneTargets = Default().MilestoneTargets
	}
	return cfg, nil
}
