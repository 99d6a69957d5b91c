package action

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeleteSuffix is appended to the plugin name to form the delete action id
const DeleteSuffix = "~delete"

// DeleteID returns the action id a plugin registers its delete view under
func DeleteID(pluginName string) string {
	return pluginName + DeleteSuffix
}

// Lookup returns the descriptor registered under id, or nil.
// A nil config is treated as an empty one.
func (c *Config) Lookup(id string) *Descriptor {
	if c == nil || c.Actions == nil {
		return nil
	}
	d, ok := c.Actions[id]
	if !ok {
		return nil
	}
	return &d
}

// Set registers a descriptor under id, replacing any existing entry
func (c *Config) Set(id string, d Descriptor) {
	if c.Actions == nil {
		c.Actions = make(map[string]Descriptor)
	}
	c.Actions[id] = d
}

// LoadFile reads an actions file (YAML or JSON)
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading actions file: %w", err)
	}

	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			if jsonErr := json.Unmarshal(data, &cfg); jsonErr != nil {
				return nil, fmt.Errorf("parsing actions file (tried YAML and JSON): %w", err)
			}
		}
	}

	return &cfg, nil
}
