package host

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is a native messaging host manifest.
type Manifest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Path           string   `json:"path"`
	Type           string   `json:"type"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// LoadManifest reads and validates a manifest. A relative executable path
// is resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read host manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse host manifest %s: %w", path, err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("host manifest %s has no name", path)
	}
	if m.Path == "" {
		return nil, fmt.Errorf("host manifest %s has no path", path)
	}
	if m.Type != "" && m.Type != "stdio" {
		return nil, fmt.Errorf("host manifest %s: unsupported type %q", path, m.Type)
	}
	if !filepath.IsAbs(m.Path) {
		m.Path = filepath.Join(filepath.Dir(path), m.Path)
	}
	return &m, nil
}
