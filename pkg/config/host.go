package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDHost is the identifier for the native host section.
	SectionIDHost = "host"

	// DefaultHostName is the registered native messaging host name.
	DefaultHostName = "com.cyberxai.native"

	defaultResponseTimeout = 30 * time.Second
	defaultKillGrace       = 2 * time.Second
)

// HostSection configures how sessions reach the native classification host.
type HostSection struct {
	Name            string        `json:"name"`
	ManifestPath    string        `json:"manifest_path"`
	ResponseTimeout time.Duration `json:"response_timeout"`
	KillGrace       time.Duration `json:"kill_grace"`
	mu              sync.RWMutex
}

// NewHostSection creates a host section with defaults.
func NewHostSection() *HostSection {
	s := &HostSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *HostSection) ID() string { return SectionIDHost }

// Title returns the section title.
func (s *HostSection) Title() string { return "Native Host" }

// Description returns the section description.
func (s *HostSection) Description() string {
	return "Location of the native classification host and how long to wait for its answer."
}

// Data returns the current configuration data.
func (s *HostSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"name":             s.Name,
		"manifest_path":    s.ManifestPath,
		"response_timeout": s.ResponseTimeout.String(),
		"kill_grace":       s.KillGrace.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *HostSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "name":
			s.Name, err = asString(key, value)
		case "manifest_path":
			s.ManifestPath, err = asString(key, value)
		case "response_timeout":
			s.ResponseTimeout, err = asDuration(key, value)
		case "kill_grace":
			s.KillGrace, err = asDuration(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *HostSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Name == "" {
		return fmt.Errorf("host name cannot be empty")
	}
	// The response wait must be finite: a broken pipe is not always reported.
	if s.ResponseTimeout <= 0 || s.ResponseTimeout > 10*time.Minute {
		return fmt.Errorf("response_timeout must be between 0 and 10m, got %v", s.ResponseTimeout)
	}
	if s.KillGrace < 0 {
		return fmt.Errorf("kill_grace cannot be negative, got %v", s.KillGrace)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *HostSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Name = DefaultHostName
	s.ManifestPath = ""
	s.ResponseTimeout = defaultResponseTimeout
	s.KillGrace = defaultKillGrace
}

// Timeouts returns the response timeout and the kill grace period.
func (s *HostSection) Timeouts() (time.Duration, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ResponseTimeout, s.KillGrace
}

// Manifest returns the host name and manifest path.
func (s *HostSection) Manifest() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Name, s.ManifestPath
}

// SetManifestPath sets the manifest path.
func (s *HostSection) SetManifestPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ManifestPath = path
}
