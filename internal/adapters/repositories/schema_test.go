package repositories

import (
	"context"
	"errors"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/platform/db"
	"os"
	"path/filepath"
	"testing"
)

type recordingCache struct {
	rows map[string]map[string]domain.Coordinates
}

func (c *recordingCache) GetMany(context.Context, string, []string) (map[string]domain.Coordinates, error) {
	return nil, nil
}

func (c *recordingCache) PutMany(_ context.Context, provider string, results map[string]domain.Coordinates) error {
	if c.rows == nil {
		c.rows = make(map[string]map[string]domain.Coordinates)
	}
	if c.rows[provider] == nil {
		c.rows[provider] = make(map[string]domain.Coordinates)
	}
	for a, coords := range results {
		c.rows[provider][a] = coords
	}
	return nil
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := InitSchema(context.Background(), conn); err != nil {
			t.Fatalf("InitSchema run %d: %v", i+1, err)
		}
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM geocode_cache`).Scan(&n); err != nil {
		t.Fatalf("query geocode_cache: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows = %d, want 0", n)
	}
}

func TestInitSchemaNilDB(t *testing.T) {
	if err := InitSchema(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil DB")
	}
}

func TestSeedGeocodeFromJSON(t *testing.T) {
	path := writeSeed(t, `[
		{"provider":"google","address":"New York,   NY","lat":40.7128,"lon":-74.006},
		{"provider":"google","address":"Los Angeles, CA","lat":34.0522,"lon":-118.2437},
		{"provider":"opencage","address":"Berlin","lat":52.5129,"lon":13.391}
	]`)

	c := &recordingCache{}
	n, err := SeedGeocodeFromJSON(context.Background(), c, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("seeded %d, want 3", n)
	}

	if got := c.rows["google"]["New York, NY"]; got != (domain.Coordinates{Lat: 40.7128, Lon: -74.006}) {
		t.Fatalf("normalized address not seeded, got %v", got)
	}
	if len(c.rows["opencage"]) != 1 {
		t.Fatalf("opencage rows = %d, want 1", len(c.rows["opencage"]))
	}
}

func TestSeedGeocodeFromJSONRejectsBadRows(t *testing.T) {
	tests := map[string]string{
		"missing provider": `[{"address":"x","lat":1,"lon":1}]`,
		"blank address":    `[{"provider":"google","address":"  ","lat":1,"lon":1}]`,
		"not json":         `{`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := SeedGeocodeFromJSON(context.Background(), &recordingCache{}, writeSeed(t, body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}

	_, err := SeedGeocodeFromJSON(context.Background(), &recordingCache{}, writeSeed(t, `[{"provider":"google","address":"x","lat":95,"lon":1}]`))
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("error = %v, want ErrInvalidCoordinate", err)
	}
}
