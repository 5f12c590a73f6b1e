package config

import (
	"fmt"

	"github.com/davidemerli/polimi-progetto-api-2019/errors"
)

// StdStream is the input/output path meaning the standard stream.
const StdStream = "-"

// Config represents the complete tracker configuration
type Config struct {
	Version string        `json:"version,omitempty" yaml:"version,omitempty"`
	Input   InputConfig   `json:"input" yaml:"input"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// InputConfig selects the command stream source
type InputConfig struct {
	Path string `json:"path" yaml:"path"` // file path, or "-" for stdin
}

// OutputConfig selects the report stream destination
type OutputConfig struct {
	Path       string `json:"path" yaml:"path"`               // file path, or "-" for stdout
	BufferSize int    `json:"buffer_size" yaml:"buffer_size"` // write buffer in bytes, 0 = default
}

// MetricsConfig controls the optional prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port" yaml:"port"`
	Path    string `json:"path" yaml:"path"`
}

// LogConfig controls structured logging on stderr
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// DefaultConfig returns the zero-configuration defaults: stdin to stdout,
// metrics disabled, info-level text logs.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{Path: StdStream},
		Output: OutputConfig{
			Path: StdStream,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
			"input path cannot be empty")
	}
	if c.Output.Path == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
			"output path cannot be empty")
	}
	if c.Output.BufferSize < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"output buffer_size cannot be negative")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				fmt.Sprintf("invalid metrics port: %d", c.Metrics.Port))
		}
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("invalid log level: %s", c.Log.Level))
	}

	switch c.Log.Format {
	case "", "json", "text":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("invalid log format: %s", c.Log.Format))
	}

	return nil
}
