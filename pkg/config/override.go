package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOverrides reads a YAML file of the form
//
//	host:
//	  response_timeout: 10s
//	display:
//	  popup_precision: 2
//
// and returns it keyed by section id.
func LoadOverrides(path string) (map[string]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read override file: %w", err)
	}

	var overrides map[string]map[string]any
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse override file: %w", err)
	}
	return overrides, nil
}
