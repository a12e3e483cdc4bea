// Package config loads the engine configuration used by the vine CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "vine.yaml"

// Memory selects where computer-mode side-effects are merged.
type Memory struct {
	Kind     string `yaml:"kind" json:"kind"` // "memory" or "redis"
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Config is the engine configuration file.
type Config struct {
	LogLevel      string `yaml:"log_level" json:"log_level"`
	LogFormat     string `yaml:"log_format" json:"log_format"`
	Mode          string `yaml:"mode" json:"mode"`
	Workers       int    `yaml:"workers" json:"workers"`
	MaxSupersteps int    `yaml:"max_supersteps" json:"max_supersteps"`
	// Graph is a YAML or JSON graph file; empty means the MODERN toy graph.
	Graph        string `yaml:"graph" json:"graph"`
	Memory       Memory `yaml:"memory" json:"memory"`
	OTLPEndpoint string `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	MetricsAddr  string `yaml:"metrics_addr" json:"metrics_addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel:      "info",
		LogFormat:     string(logging.FormatText),
		Mode:          "standard",
		Workers:       4,
		MaxSupersteps: 1000,
		Memory:        Memory{Kind: "memory", Prefix: "vine:memory:"},
		MetricsAddr:   ":8080",
	}
}

// Load reads path over the defaults. A missing file yields the defaults
// unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Parse(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes data into cfg, keeping the fields the document omits.
func Parse(data []byte, ext string, cfg *Config) error {
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if _, ok := domain.ParseMode(c.Mode); !ok {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.MaxSupersteps < 1 {
		errs = append(errs, fmt.Errorf("max_supersteps must be positive, got %d", c.MaxSupersteps))
	}
	switch c.Memory.Kind {
	case "", "memory":
	case "redis":
		if c.Memory.Addr == "" {
			errs = append(errs, errors.New("memory.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown memory kind %q", c.Memory.Kind))
	}
	return errors.Join(errs...)
}

// ExecutionMode returns the parsed mode. Call Validate first.
func (c Config) ExecutionMode() domain.Mode {
	m, _ := domain.ParseMode(c.Mode)
	return m
}
