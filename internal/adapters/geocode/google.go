package geocode

import (
	"context"
	"errors"
	"fmt"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/platform/obs"
	"net/url"
)

const googleEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GoogleGeocoder resolves addresses with the Google Geocoding API.
type GoogleGeocoder struct {
	client   *Client
	creds    Credentials
	Endpoint string
}

func NewGoogleGeocoder(client *Client, creds Credentials) *GoogleGeocoder {
	return &GoogleGeocoder{client: client, creds: creds, Endpoint: googleEndpoint}
}

func (g *GoogleGeocoder) Name() string { return Google }

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("google: address must be non-empty")
	}

	ctx, cancel := withTimeout(ctx, g.creds)
	defer cancel()

	query := url.Values{}
	query.Set("address", norm)
	query.Set("key", g.creds.APIKey(Google))

	var resp googleResponse
	if err := g.client.getJSON(ctx, g.Endpoint, query, nil, &resp); err != nil {
		return domain.Coordinates{}, classifyHTTPError(Google, err)
	}

	switch resp.Status {
	case "OK":
		if len(resp.Results) == 0 {
			return domain.Coordinates{}, fmt.Errorf("google: %q: %w", norm, domain.ErrAddressNotFound)
		}
		loc := resp.Results[0].Geometry.Location
		return checkResult(Google, norm, domain.Coordinates{Lat: loc.Lat, Lon: loc.Lng})
	case "REQUEST_DENIED":
		return domain.Coordinates{}, fmt.Errorf("google: %w", domain.ErrInvalidAPIKey)
	case "ZERO_RESULTS":
		return domain.Coordinates{}, fmt.Errorf("google: %q: %w", norm, domain.ErrAddressNotFound)
	}

	return domain.Coordinates{}, &domain.ProviderError{Provider: Google, Status: resp.Status}
}
