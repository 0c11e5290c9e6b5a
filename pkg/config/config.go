package config

import (
	"sync"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates the global manager over the file at configPath
// (DefaultPath when empty), registers the default sections and loads them.
func Initialize(configPath string) error {
	manager, err := Open(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = manager
	return nil
}

// Open builds a manager with the default sections without touching the
// global instance.
func Open(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{
		NewHostSection(),
		NewProvisionSection(),
		NewDisplaySection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetHost returns the host section, or defaults when config is not initialized.
func GetHost() *HostSection {
	if s, ok := lookup[*HostSection](SectionIDHost); ok {
		return s
	}
	return NewHostSection()
}

// GetProvision returns the provisioning section, or defaults when config is
// not initialized.
func GetProvision() *ProvisionSection {
	if s, ok := lookup[*ProvisionSection](SectionIDProvision); ok {
		return s
	}
	return NewProvisionSection()
}

// GetDisplay returns the display section, or defaults when config is not
// initialized.
func GetDisplay() *DisplaySection {
	if s, ok := lookup[*DisplaySection](SectionIDDisplay); ok {
		return s
	}
	return NewDisplaySection()
}

func lookup[T Section](id string) (T, bool) {
	var zero T
	if !IsInitialized() {
		return zero, false
	}
	section, ok := Global().GetSection(id)
	if !ok {
		return zero, false
	}
	typed, ok := section.(T)
	return typed, ok
}
