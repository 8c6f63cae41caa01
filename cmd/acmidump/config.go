package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the acmidump demonstration CLI's YAML configuration.
type Config struct {
	InputPath          string   `yaml:"input_path"`
	GeoidPath          string   `yaml:"geoid_path"`
	SampleRate         float64  `yaml:"sample_rate"`
	EmulateOrientation bool     `yaml:"emulate_orientation"`
	ExcludeTypes       []string `yaml:"exclude_types"`
}

// Load reads and validates a Config from path, applying defaults
// afterward.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.InputPath == "" {
		return Config{}, fmt.Errorf("input_path is required")
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 1
	}

	return cfg, nil
}
