package geocode

import (
	"context"
	"fmt"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/ports"
	"time"
)

// Credentials supplies the per-provider API key and request timeout at call time.
type Credentials interface {
	APIKey(provider string) string
	Timeout() time.Duration
}

// Names of the supported providers.
const (
	Google           = "google"
	OpenCage         = "opencage"
	MapQuest         = "mapquest"
	OpenRouteService = "openrouteservice"
)

// NewProvider builds the named geocoding provider.
func NewProvider(name string, client *Client, creds Credentials) (ports.Geocoder, error) {
	switch name {
	case Google:
		return NewGoogleGeocoder(client, creds), nil
	case OpenCage:
		return NewOpenCageGeocoder(client, creds), nil
	case MapQuest:
		return NewMapQuestGeocoder(client, creds), nil
	case OpenRouteService:
		return NewORSGeocoder(client, creds), nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, name)
}

// withTimeout bounds a single lookup by the configured timeout.
func withTimeout(ctx context.Context, creds Credentials) (context.Context, context.CancelFunc) {
	timeout := creds.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// checkResult rejects coordinates outside the geographic domain.
func checkResult(provider, address string, c domain.Coordinates) (domain.Coordinates, error) {
	if _, err := domain.Validate(domain.FirstPoint, c); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%s: result for %q: %w", provider, address, err)
	}
	return c, nil
}
