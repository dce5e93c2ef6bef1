package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings read from the YAML config file.
type Config struct {
	Adapter string       `yaml:"adapter"` // Label only, scans use the default adapter
	Demo    bool         `yaml:"demo"`
	FPS     int          `yaml:"fps"`
	Timeout string       `yaml:"operation_timeout"` // e.g. "15s"
	GATT    GATTConfig   `yaml:"gatt"`
	Logger  LoggerConfig `yaml:"logger"`
}

// GATTConfig pre-fills the service/characteristic form.
type GATTConfig struct {
	Service        string `yaml:"service"`
	Characteristic string `yaml:"characteristic"`
	Payload        string `yaml:"payload"`
}

// LoggerConfig holds diagnostic log settings. The terminal belongs to the UI,
// so diagnostics always go to a file.
type LoggerConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Adapter: "hci0",
		FPS:     TargetFPS,
		Timeout: OperationTimeout.String(),
		Logger: LoggerConfig{
			Level:      "info",
			File:       "gatt-radar.log",
			MaxSizeMB:  1,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the YAML file at path on top of Defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for values the app cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.FPS < 1 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps must be in [1, 240], got %d", c.FPS))
	}
	if _, err := c.OperationTimeout(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logger.level: unknown level %q", c.Logger.Level))
	}
	if c.Logger.File == "" {
		errs = append(errs, errors.New("logger.file must not be empty"))
	}
	return errors.Join(errs...)
}

// OperationTimeout parses Timeout.
func (c *Config) OperationTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("operation_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("operation_timeout must be positive, got %s", d)
	}
	return d, nil
}

// FrameInterval is the delay between two radar frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
