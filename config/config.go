// Package config loads config.yaml. Every setting has a default, so the
// file is optional.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultModelPath is where the model artifact is expected, relative to the
// working directory.
const DefaultModelPath = "heart_disease_knn.json"

type Config struct {
	Http struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"http"`
	Model struct {
		Type      string `yaml:"type"`
		Path      string `yaml:"path"`
		CacheSize int    `yaml:"cache_size"`
		Watch     bool   `yaml:"watch"`
	} `yaml:"model"`
	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Http.Port = 8080
	cfg.Http.ReadTimeout = 15 * time.Second
	cfg.Http.WriteTimeout = 15 * time.Second
	cfg.Model.Path = DefaultModelPath
	cfg.Model.CacheSize = 256
	cfg.Model.Watch = true
	cfg.Log = LogConfig{
		Level:      "info",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
	return cfg
}

// Load overlays the YAML file at path on the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.Http.Port)
	}
	if c.Http.ReadTimeout < 0 || c.Http.WriteTimeout < 0 {
		return errors.New("http timeouts must not be negative")
	}
	if c.Model.Path == "" {
		return errors.New("model.path is required")
	}
	switch c.Model.Type {
	case "", "knn", "decision_tree":
	default:
		return fmt.Errorf("unsupported model.type %q", c.Model.Type)
	}
	if c.Model.CacheSize < 0 {
		return errors.New("model.cache_size must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log.level %q", c.Log.Level)
	}
	return nil
}
