package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the optional settings file. Directories default per mode
// when left empty, and empty column maps fall back to the built-in
// identifier columns.
type Config struct {
	InputDir   string            `yaml:"input_dir"`
	OutputDir  string            `yaml:"output_dir"`
	Sanitize   map[string]string `yaml:"sanitize_columns"`
	Desanitize map[string]string `yaml:"desanitize_columns"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
