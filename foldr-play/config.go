package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the playground configuration, read from a YAML file.
type Config struct {
	Addr string `yaml:"addr"`
	DB   string `yaml:"db"`
	// Wall clock budget of a single run.
	RunTimeout     time.Duration `yaml:"run_timeout"`
	MaxSourceBytes int           `yaml:"max_source_bytes"`
	MaxOutputBytes int           `yaml:"max_output_bytes"`
	// Runs older than this are soft-deleted by the clean job.
	Retention     time.Duration `yaml:"retention"`
	CleanInterval time.Duration `yaml:"clean_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:           "localhost:8080",
		DB:             "foldr-play.db",
		RunTimeout:     5 * time.Second,
		MaxSourceBytes: 64 * 1024,
		MaxOutputBytes: 1024 * 1024,
		Retention:      24 * time.Hour,
		CleanInterval:  5 * time.Minute,
	}
}

// LoadConfig overlays the file at path onto the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("addr must not be empty")
	case c.DB == "":
		return fmt.Errorf("db must not be empty")
	case c.RunTimeout <= 0:
		return fmt.Errorf("run_timeout must be positive")
	case c.MaxSourceBytes <= 0:
		return fmt.Errorf("max_source_bytes must be positive")
	case c.MaxOutputBytes <= 0:
		return fmt.Errorf("max_output_bytes must be positive")
	case c.Retention <= 0:
		return fmt.Errorf("retention must be positive")
	case c.CleanInterval <= 0:
		return fmt.Errorf("clean_interval must be positive")
	}
	return nil
}
