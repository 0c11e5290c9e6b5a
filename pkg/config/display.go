package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDDisplay is the identifier for the result display section.
	SectionIDDisplay = "display"

	// DefaultMaxPageText bounds the page text sent to the host.
	DefaultMaxPageText = 50000

	defaultOverlayPrecision    = 2
	defaultPopupPrecision      = 3
	defaultOverlayHitPrecision = 2
	defaultPopupHitPrecision   = 2
	defaultMaxHits             = 5
)

// DisplaySection configures how results are rendered on each surface.
// The overlay and popup historically use different precision, so each is
// configured separately.
type DisplaySection struct {
	OverlayPrecision    int `json:"overlay_precision"`
	PopupPrecision      int `json:"popup_precision"`
	OverlayHitPrecision int `json:"overlay_hit_precision"`
	PopupHitPrecision   int `json:"popup_hit_precision"`
	MaxHits             int `json:"max_hits"`
	MaxPageText         int `json:"max_page_text"`
	mu                  sync.RWMutex
}

// NewDisplaySection creates a display section with defaults.
func NewDisplaySection() *DisplaySection {
	s := &DisplaySection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *DisplaySection) ID() string { return SectionIDDisplay }

// Title returns the section title.
func (s *DisplaySection) Title() string { return "Result Display" }

// Description returns the section description.
func (s *DisplaySection) Description() string {
	return "Per-surface probability precision, number of scan hits shown and page text limit."
}

// Data returns the current configuration data.
func (s *DisplaySection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"overlay_precision":     s.OverlayPrecision,
		"popup_precision":       s.PopupPrecision,
		"overlay_hit_precision": s.OverlayHitPrecision,
		"popup_hit_precision":   s.PopupHitPrecision,
		"max_hits":              s.MaxHits,
		"max_page_text":         s.MaxPageText,
	}
}

// SetData updates the configuration from the provided data.
func (s *DisplaySection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields := map[string]*int{
		"overlay_precision":     &s.OverlayPrecision,
		"popup_precision":       &s.PopupPrecision,
		"overlay_hit_precision": &s.OverlayHitPrecision,
		"popup_hit_precision":   &s.PopupHitPrecision,
		"max_hits":              &s.MaxHits,
		"max_page_text":         &s.MaxPageText,
	}
	for key, value := range data {
		field, ok := fields[key]
		if !ok {
			continue
		}
		n, err := asInt(key, value)
		if err != nil {
			return err
		}
		*field = n
	}
	return nil
}

// Validate validates the current configuration.
func (s *DisplaySection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for key, p := range map[string]int{
		"overlay_precision":     s.OverlayPrecision,
		"popup_precision":       s.PopupPrecision,
		"overlay_hit_precision": s.OverlayHitPrecision,
		"popup_hit_precision":   s.PopupHitPrecision,
	} {
		if p < 0 || p > 6 {
			return fmt.Errorf("%s must be between 0 and 6, got %d", key, p)
		}
	}
	if s.MaxHits < 1 {
		return fmt.Errorf("max_hits must be at least 1, got %d", s.MaxHits)
	}
	if s.MaxPageText < 1 {
		return fmt.Errorf("max_page_text must be at least 1, got %d", s.MaxPageText)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *DisplaySection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.OverlayPrecision = defaultOverlayPrecision
	s.PopupPrecision = defaultPopupPrecision
	s.OverlayHitPrecision = defaultOverlayHitPrecision
	s.PopupHitPrecision = defaultPopupHitPrecision
	s.MaxHits = defaultMaxHits
	s.MaxPageText = DefaultMaxPageText
}

// Snapshot returns a copy of the values without the lock.
func (s *DisplaySection) Snapshot() DisplaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DisplaySettings{
		OverlayPrecision:    s.OverlayPrecision,
		PopupPrecision:      s.PopupPrecision,
		OverlayHitPrecision: s.OverlayHitPrecision,
		PopupHitPrecision:   s.PopupHitPrecision,
		MaxHits:             s.MaxHits,
		MaxPageText:         s.MaxPageText,
	}
}

// DisplaySettings is a lock-free copy of DisplaySection.
type DisplaySettings struct {
	OverlayPrecision    int
	PopupPrecision      int
	OverlayHitPrecision int
	PopupHitPrecision   int
	MaxHits             int
	MaxPageText         int
}
