package geocode

import (
	"context"
	"errors"
	"fmt"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/platform/obs"
	"net/url"
)

const orsBaseURL = "https://api.openrouteservice.org"

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder resolves addresses using OpenRouteService (/geocode/search).
type ORSGeocoder struct {
	client  *Client
	creds   Credentials
	BaseURL string
}

func NewORSGeocoder(client *Client, creds Credentials) *ORSGeocoder {
	return &ORSGeocoder{client: client, creds: creds, BaseURL: orsBaseURL}
}

func (o *ORSGeocoder) Name() string { return OpenRouteService }

func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("openrouteservice: address must be non-empty")
	}

	apiKey := o.creds.APIKey(OpenRouteService)
	if apiKey == "" {
		return domain.Coordinates{}, fmt.Errorf("openrouteservice: %w", domain.ErrInvalidAPIKey)
	}

	ctx, cancel := withTimeout(ctx, o.creds)
	defer cancel()

	query := url.Values{}
	query.Set("text", norm)
	query.Set("size", "1")

	var decoded orsGeocodeResponse
	headers := map[string]string{"Authorization": apiKey}
	if err := o.client.getJSON(ctx, o.BaseURL+"/geocode/search", query, headers, &decoded); err != nil {
		return domain.Coordinates{}, classifyHTTPError(OpenRouteService, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("openrouteservice: %q: %w", norm, domain.ErrAddressNotFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("openrouteservice: invalid coordinate format for %q", norm)
	}

	// ORS returns GeoJSON order: [lon, lat].
	return checkResult(OpenRouteService, norm, domain.Coordinates{Lon: coords[0], Lat: coords[1]})
}
