package geocode

import (
	"context"
	"errors"
	"fmt"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/platform/obs"
	"net/url"
	"strconv"
)

const openCageEndpoint = "https://api.opencagedata.com/geocode/v1/json"

type openCageResponse struct {
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
	TotalResults int `json:"total_results"`
}

// OpenCageGeocoder resolves addresses with the OpenCage forward geocoding API.
type OpenCageGeocoder struct {
	client   *Client
	creds    Credentials
	Endpoint string
}

func NewOpenCageGeocoder(client *Client, creds Credentials) *OpenCageGeocoder {
	return &OpenCageGeocoder{client: client, creds: creds, Endpoint: openCageEndpoint}
}

func (o *OpenCageGeocoder) Name() string { return OpenCage }

func (o *OpenCageGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "opencage.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("opencage: address must be non-empty")
	}

	ctx, cancel := withTimeout(ctx, o.creds)
	defer cancel()

	query := url.Values{}
	query.Set("q", norm)
	query.Set("key", o.creds.APIKey(OpenCage))
	query.Set("limit", "1")
	query.Set("no_annotations", "1")

	var resp openCageResponse
	if err := o.client.getJSON(ctx, o.Endpoint, query, nil, &resp); err != nil {
		return domain.Coordinates{}, classifyHTTPError(OpenCage, err)
	}

	switch resp.Status.Code {
	case 200:
		if len(resp.Results) == 0 {
			return domain.Coordinates{}, fmt.Errorf("opencage: %q: %w", norm, domain.ErrAddressNotFound)
		}
		g := resp.Results[0].Geometry
		return checkResult(OpenCage, norm, domain.Coordinates{Lat: g.Lat, Lon: g.Lng})
	case 401, 403:
		return domain.Coordinates{}, fmt.Errorf("opencage: %w", domain.ErrInvalidAPIKey)
	case 404:
		return domain.Coordinates{}, fmt.Errorf("opencage: %q: %w", norm, domain.ErrAddressNotFound)
	}

	status := resp.Status.Message
	if status == "" {
		status = strconv.Itoa(resp.Status.Code)
	}
	return domain.Coordinates{}, &domain.ProviderError{Provider: OpenCage, Status: status}
}
