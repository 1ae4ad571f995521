package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/ports"
	"os"
	"strings"
)

// Initialize the geocode cache schema. The statements are valid for both
// SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        provider TEXT NOT NULL,
        address TEXT NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL,
        PRIMARY KEY (provider, address)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_geocode_cache_address
    ON geocode_cache(address);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type GeocodeSeed struct {
	Provider string  `json:"provider"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Populate the geocode cache with known addresses from a JSON file.
// Returns the number of seeded addresses.
func SeedGeocodeFromJSON(ctx context.Context, cache ports.GeocodeCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed geocode cache: read %q: %w", jsonPath, err)
	}

	var data []GeocodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed geocode cache: parse json: %w", err)
	}

	byProvider := make(map[string]map[string]domain.Coordinates)
	for i, item := range data {
		provider := strings.TrimSpace(item.Provider)
		if provider == "" {
			return 0, fmt.Errorf("seed geocode cache: item at index %d: provider cannot be empty", i+1)
		}

		addr := strings.Join(strings.Fields(item.Address), " ")
		if addr == "" {
			return 0, fmt.Errorf("seed geocode cache: item at index %d: address cannot be empty", i+1)
		}

		c, err := domain.Validate(domain.FirstPoint, domain.Coordinates{Lat: item.Lat, Lon: item.Lon})
		if err != nil {
			return 0, fmt.Errorf("seed geocode cache: item at index %d: %w", i+1, err)
		}

		if byProvider[provider] == nil {
			byProvider[provider] = make(map[string]domain.Coordinates)
		}
		byProvider[provider][addr] = c
	}

	n := 0
	for provider, rows := range byProvider {
		if err := cache.PutMany(ctx, provider, rows); err != nil {
			return n, fmt.Errorf("seed geocode cache: provider=%s: %w", provider, err)
		}
		n += len(rows)
	}

	return n, nil
}
