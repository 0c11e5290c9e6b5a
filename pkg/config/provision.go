package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/gobwas/glob"
)

const (
	// SectionIDProvision is the identifier for the content provisioning section.
	SectionIDProvision = "provision"

	defaultPingTimeout    = 1 * time.Second
	defaultSettleInterval = 50 * time.Millisecond
	defaultCallTimeout    = 5 * time.Second
)

// DefaultProtectedPatterns lists pages the browser refuses to script.
var DefaultProtectedPatterns = []string{
	"chrome://*",
	"chrome-extension://*",
	"edge://*",
	"about:*",
	"view-source:*",
	"https://chrome.google.com/webstore*",
	"https://chromewebstore.google.com/*",
}

// ProvisionSection configures the readiness probe and agent injection.
type ProvisionSection struct {
	PingTimeout       time.Duration `json:"ping_timeout"`
	SettleInterval    time.Duration `json:"settle_interval"`
	CallTimeout       time.Duration `json:"call_timeout"`
	ProtectedPatterns []string      `json:"protected_patterns"`
	mu                sync.RWMutex
}

// NewProvisionSection creates a provisioning section with defaults.
func NewProvisionSection() *ProvisionSection {
	s := &ProvisionSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *ProvisionSection) ID() string { return SectionIDProvision }

// Title returns the section title.
func (s *ProvisionSection) Title() string { return "Content Provisioning" }

// Description returns the section description.
func (s *ProvisionSection) Description() string {
	return "Readiness probe, post-injection settle interval, extraction call bound and unscriptable pages."
}

// Data returns the current configuration data.
func (s *ProvisionSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patterns := make([]any, len(s.ProtectedPatterns))
	for i, p := range s.ProtectedPatterns {
		patterns[i] = p
	}
	return map[string]any{
		"ping_timeout":       s.PingTimeout.String(),
		"settle_interval":    s.SettleInterval.String(),
		"call_timeout":       s.CallTimeout.String(),
		"protected_patterns": patterns,
	}
}

// SetData updates the configuration from the provided data.
func (s *ProvisionSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "ping_timeout":
			s.PingTimeout, err = asDuration(key, value)
		case "settle_interval":
			s.SettleInterval, err = asDuration(key, value)
		case "call_timeout":
			s.CallTimeout, err = asDuration(key, value)
		case "protected_patterns":
			s.ProtectedPatterns, err = asStrings(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *ProvisionSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.PingTimeout <= 0 {
		return fmt.Errorf("ping_timeout must be positive, got %v", s.PingTimeout)
	}
	if s.CallTimeout <= 0 {
		return fmt.Errorf("call_timeout must be positive, got %v", s.CallTimeout)
	}
	if s.SettleInterval < 0 || s.SettleInterval > time.Second {
		return fmt.Errorf("settle_interval must be between 0 and 1s, got %v", s.SettleInterval)
	}
	for _, p := range s.ProtectedPatterns {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid protected pattern %q: %w", p, err)
		}
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *ProvisionSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.PingTimeout = defaultPingTimeout
	s.SettleInterval = defaultSettleInterval
	s.CallTimeout = defaultCallTimeout
	s.ProtectedPatterns = append([]string(nil), DefaultProtectedPatterns...)
}

// Timing returns the ping timeout and settle interval.
func (s *ProvisionSection) Timing() (time.Duration, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PingTimeout, s.SettleInterval
}

// Call returns the bound on extraction calls to a ready agent.
func (s *ProvisionSection) Call() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CallTimeout
}

// Patterns returns a copy of the protected URL patterns.
func (s *ProvisionSection) Patterns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ProtectedPatterns...)
}
