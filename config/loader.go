package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davidemerli/polimi-progetto-api-2019/errors"
)

// Loader reads configuration files. Format is selected by extension:
// .yaml/.yml parse as YAML, everything else as JSON.
type Loader struct{}

// NewLoader creates a config loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile loads configuration from path on top of DefaultConfig, so
// partial files only override what they mention.
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapInvalid(errors.ErrConfigNotFound, "Loader", "LoadFile", path)
		}
		return nil, errors.WrapFatal(err, "Loader", "LoadFile", "read config file")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return l.LoadYAML(data)
	default:
		return l.LoadJSON(data)
	}
}

// LoadJSON parses JSON config bytes on top of DefaultConfig.
func (l *Loader) LoadJSON(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "LoadJSON", "parse JSON config")
	}
	return cfg, nil
}

// LoadYAML parses YAML config bytes on top of DefaultConfig.
func (l *Loader) LoadYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "LoadYAML", "parse YAML config")
	}
	return cfg, nil
}
