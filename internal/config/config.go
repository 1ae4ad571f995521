package config

import (
	"fmt"
	"geodistance-service/internal/domain"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"
)

const configEnv = "GEODIST"

// Placeholder API keys used when nothing is configured.
const (
	DefaultGoogleAPIKey   = "your-default-api-key"
	DefaultOpenCageAPIKey = "your-opencage-api-key"
	DefaultMapQuestAPIKey = "your-mapquest-api-key"
)

// Config represents the application's configuration structure.
type Config struct {
	Env      string `fig:"env" default:"dev"`
	LogLevel string `fig:"loglevel"`
	Port     string `fig:"port" default:"8080"`

	Distance struct {
		// Allowed values: km, mi
		Unit string `fig:"unit" default:"km"`
		// Allowed values: haversine, vincenty
		Algorithm string `fig:"algorithm" default:"haversine"`
		CacheSize int    `fig:"cache_size" default:"128"`
	} `fig:"distance"`

	Geocode struct {
		// Allowed values: google, opencage, mapquest, openrouteservice
		Provider string        `fig:"provider" default:"google"`
		Timeout  time.Duration `fig:"timeout" default:"10s"`
		// Allowed values: sqlite, postgres, redis, none
		Cache    string        `fig:"cache" default:"sqlite"`
		CacheTTL time.Duration `fig:"cache_ttl" default:"720h"`
	} `fig:"geocode"`

	APIKeys struct {
		Google   string `fig:"google"`
		OpenCage string `fig:"opencage"`
		MapQuest string `fig:"mapquest"`
		ORS      string `fig:"ors"`
	} `fig:"api_keys"`

	Storage struct {
		SqlitePath  string `fig:"sqlite_path" default:"data/geodist.db"`
		DatabaseURL string `fig:"database_url"`
		RedisAddr   string `fig:"redis_addr" default:"localhost:6379"`
		SeedPath    string `fig:"seed_path"`
	} `fig:"storage"`
}

// Load reads an optional .env file, then the optional config file at path
// (may be empty), then GEODIST_* environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	conf := new(Config)
	opts := []fig.Option{fig.UseEnv(configEnv)}
	if path == "" {
		opts = append(opts, fig.AllowNoFile())
	} else {
		if _, err := os.Stat(path); err != nil {
			return conf, fmt.Errorf("failed to read config: %w", err)
		}
		opts = append(opts, fig.Dirs(filepath.Dir(path)), fig.File(filepath.Base(path)))
	}

	if err := fig.Load(conf, opts...); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}
	conf.loadAPIKeysFromEnv()

	return conf, conf.Validate()
}

// Validate normalizes the config and rejects unsupported values.
func (c *Config) Validate() error {
	unit, err := domain.ParseUnit(c.Distance.Unit)
	if err != nil {
		return fmt.Errorf("invalid distance unit: %w", err)
	}
	c.Distance.Unit = string(unit)

	alg, err := domain.ParseAlgorithm(c.Distance.Algorithm)
	if err != nil {
		return fmt.Errorf("invalid distance algorithm: %w", err)
	}
	c.Distance.Algorithm = string(alg)

	if c.Distance.CacheSize < 1 {
		return fmt.Errorf("invalid cache size: %d", c.Distance.CacheSize)
	}
	if c.Geocode.Timeout <= 0 {
		return fmt.Errorf("invalid geocode timeout: %s", c.Geocode.Timeout)
	}

	switch c.Geocode.Cache {
	case "sqlite", "redis", "none":
	case "postgres":
		if strings.TrimSpace(c.Storage.DatabaseURL) == "" {
			return fmt.Errorf("geocode cache postgres requires storage.database_url")
		}
	default:
		return fmt.Errorf("invalid geocode cache backend: %s", c.Geocode.Cache)
	}

	return nil
}

// loadAPIKeysFromEnv fills provider keys from the conventional variables,
// falling back to placeholders.
func (c *Config) loadAPIKeysFromEnv() {
	c.APIKeys.Google = firstNonEmpty(c.APIKeys.Google, os.Getenv("GOOGLE_API_KEY"), DefaultGoogleAPIKey)
	c.APIKeys.OpenCage = firstNonEmpty(c.APIKeys.OpenCage, os.Getenv("OPENCAGE_API_KEY"), DefaultOpenCageAPIKey)
	c.APIKeys.MapQuest = firstNonEmpty(c.APIKeys.MapQuest, os.Getenv("MAPQUEST_API_KEY"), DefaultMapQuestAPIKey)
	c.APIKeys.ORS = firstNonEmpty(c.APIKeys.ORS, os.Getenv("ORS_API_KEY"))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
