package config

import (
	"errors"
	"geodistance-service/internal/domain"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENCAGE_API_KEY", "")
	t.Setenv("MAPQUEST_API_KEY", "")

	conf, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.Distance.Unit != "km" {
		t.Errorf("unit = %q, want km", conf.Distance.Unit)
	}
	if conf.Distance.Algorithm != "haversine" {
		t.Errorf("algorithm = %q, want haversine", conf.Distance.Algorithm)
	}
	if conf.Distance.CacheSize != 128 {
		t.Errorf("cache size = %d, want 128", conf.Distance.CacheSize)
	}
	if conf.Geocode.Timeout != 10*time.Second {
		t.Errorf("timeout = %s, want 10s", conf.Geocode.Timeout)
	}
	if conf.APIKeys.Google != DefaultGoogleAPIKey {
		t.Errorf("google key = %q, want placeholder", conf.APIKeys.Google)
	}
	if conf.APIKeys.OpenCage != DefaultOpenCageAPIKey {
		t.Errorf("opencage key = %q, want placeholder", conf.APIKeys.OpenCage)
	}
	if conf.APIKeys.MapQuest != DefaultMapQuestAPIKey {
		t.Errorf("mapquest key = %q, want placeholder", conf.APIKeys.MapQuest)
	}
}

func TestLoadAPIKeysFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-google-api-key")
	t.Setenv("OPENCAGE_API_KEY", "test-opencage-api-key")
	t.Setenv("MAPQUEST_API_KEY", "test-mapquest-api-key")

	conf, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.APIKeys.Google != "test-google-api-key" {
		t.Errorf("google key = %q", conf.APIKeys.Google)
	}
	if conf.APIKeys.OpenCage != "test-opencage-api-key" {
		t.Errorf("opencage key = %q", conf.APIKeys.OpenCage)
	}
	if conf.APIKeys.MapQuest != "test-mapquest-api-key" {
		t.Errorf("mapquest key = %q", conf.APIKeys.MapQuest)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "distance:\n  unit: miles\n  algorithm: vincenty\ngeocode:\n  cache: none\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.Distance.Unit != "mi" {
		t.Errorf("unit = %q, want normalized mi", conf.Distance.Unit)
	}
	if conf.Distance.Algorithm != "vincenty" {
		t.Errorf("algorithm = %q, want vincenty", conf.Distance.Algorithm)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := new(Config)
		c.Distance.Unit = "km"
		c.Distance.Algorithm = "haversine"
		c.Distance.CacheSize = 128
		c.Geocode.Timeout = time.Second
		c.Geocode.Cache = "none"
		return c
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]func(*Config){
		"unit":          func(c *Config) { c.Distance.Unit = "furlong" },
		"algorithm":     func(c *Config) { c.Distance.Algorithm = "karney" },
		"cache size":    func(c *Config) { c.Distance.CacheSize = 0 },
		"timeout":       func(c *Config) { c.Geocode.Timeout = 0 },
		"cache backend": func(c *Config) { c.Geocode.Cache = "memcached" },
		"postgres url":  func(c *Config) { c.Geocode.Cache = "postgres" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestStoreUpdateAndReset(t *testing.T) {
	conf := new(Config)
	conf.Distance.Unit = "km"
	conf.Geocode.Timeout = 10 * time.Second
	conf.APIKeys.Google = "g"

	st := NewStore(conf)
	if st.DefaultUnit() != domain.Kilometers {
		t.Fatalf("DefaultUnit() = %q, want km", st.DefaultUnit())
	}

	err := st.Update(func(s *Settings) {
		s.Unit = domain.Miles
		s.Timeout = 5 * time.Second
		s.APIKeys["google"] = "rotated"
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.DefaultUnit() != domain.Miles || st.Timeout() != 5*time.Second || st.APIKey("google") != "rotated" {
		t.Fatalf("update not applied: %+v", st.Snapshot())
	}

	st.Reset()
	if st.DefaultUnit() != domain.Kilometers || st.Timeout() != 10*time.Second || st.APIKey("google") != "g" {
		t.Fatalf("reset not applied: %+v", st.Snapshot())
	}
}

func TestStoreUpdateRejectsInvalid(t *testing.T) {
	conf := new(Config)
	conf.Distance.Unit = "km"
	conf.Geocode.Timeout = time.Second
	st := NewStore(conf)

	err := st.Update(func(s *Settings) { s.Unit = "leagues" })
	if !errors.Is(err, domain.ErrUnsupportedUnit) {
		t.Fatalf("error = %v, want ErrUnsupportedUnit", err)
	}
	if st.DefaultUnit() != domain.Kilometers {
		t.Fatal("a rejected update must not change the settings")
	}

	if err := st.Update(func(s *Settings) { s.Timeout = -time.Second }); err == nil {
		t.Fatal("expected an error for a negative timeout")
	}
}
