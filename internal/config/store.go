package config

import (
	"fmt"
	"geodistance-service/internal/domain"
	"sync"
	"time"
)

// Settings is the mutable subset of the configuration that may change at runtime.
type Settings struct {
	Unit    domain.Unit
	Timeout time.Duration
	APIKeys map[string]string
}

// Store holds the live settings. It is safe for concurrent use and is passed
// explicitly to the components that read it.
type Store struct {
	mu       sync.RWMutex
	current  Settings
	defaults Settings
}

// NewStore seeds the store from a loaded config; Reset returns to these values.
func NewStore(conf *Config) *Store {
	s := Settings{
		Unit:    domain.Unit(conf.Distance.Unit),
		Timeout: conf.Geocode.Timeout,
		APIKeys: map[string]string{
			"google":           conf.APIKeys.Google,
			"opencage":         conf.APIKeys.OpenCage,
			"mapquest":         conf.APIKeys.MapQuest,
			"openrouteservice": conf.APIKeys.ORS,
		},
	}
	if !s.Unit.Valid() {
		s.Unit = domain.DefaultUnit
	}

	return &Store{current: s.clone(), defaults: s.clone()}
}

func (s Settings) clone() Settings {
	keys := make(map[string]string, len(s.APIKeys))
	for k, v := range s.APIKeys {
		keys[k] = v
	}
	s.APIKeys = keys
	return s
}

func (st *Store) DefaultUnit() domain.Unit {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.Unit
}

func (st *Store) Timeout() time.Duration {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.Timeout
}

// APIKey returns the key configured for a geocoding provider.
func (st *Store) APIKey(provider string) string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.APIKeys[provider]
}

// Snapshot returns a copy of the current settings.
func (st *Store) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.clone()
}

// Update applies fn to a copy of the settings and commits it if it validates.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.current.clone()
	fn(&next)

	if !next.Unit.Valid() {
		return fmt.Errorf("update settings: %w: %q", domain.ErrUnsupportedUnit, string(next.Unit))
	}
	if next.Timeout <= 0 {
		return fmt.Errorf("update settings: timeout must be positive, got %s", next.Timeout)
	}

	st.current = next
	return nil
}

// Reset restores the settings the store was created with.
func (st *Store) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = st.defaults.clone()
}
