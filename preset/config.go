package preset

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config selects and tunes the extensions a preset loads.
//
//	[extensions.bold]
//	enabled = true
//	[extensions.bold.options]
//	tag = "b"
//
//	[extensions.heading]
//	priority = 10
//	[extensions.heading.options]
//	levels = [1, 2, 3]
//
// Extensions absent from the config load with their defaults.
type Config struct {
	Extensions map[string]ExtensionConfig `toml:"extensions"`
}

// ExtensionConfig tunes one extension.
type ExtensionConfig struct {
	// Enabled excludes the extension when false. Nil means enabled.
	Enabled *bool `toml:"enabled"`

	// Priority overrides the extension's load priority.
	Priority *int `toml:"priority"`

	// Options is merged over the extension's defaults.
	Options map[string]any `toml:"options"`
}

// enabled reports whether the extension should load.
func (c ExtensionConfig) enabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Parse decodes a TOML config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("preset config: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads and decodes a TOML config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset config %s: %w", path, err)
	}
	return Parse(data)
}
