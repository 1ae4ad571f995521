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

const mapQuestEndpoint = "https://www.mapquestapi.com/geocoding/v1/address"

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			LatLng struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// MapQuestGeocoder resolves addresses with the MapQuest Geocoding API.
type MapQuestGeocoder struct {
	client   *Client
	creds    Credentials
	Endpoint string
}

func NewMapQuestGeocoder(client *Client, creds Credentials) *MapQuestGeocoder {
	return &MapQuestGeocoder{client: client, creds: creds, Endpoint: mapQuestEndpoint}
}

func (m *MapQuestGeocoder) Name() string { return MapQuest }

func (m *MapQuestGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "mapquest.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("mapquest: address must be non-empty")
	}

	ctx, cancel := withTimeout(ctx, m.creds)
	defer cancel()

	query := url.Values{}
	query.Set("location", norm)
	query.Set("key", m.creds.APIKey(MapQuest))
	query.Set("maxResults", "1")

	var resp mapQuestResponse
	if err := m.client.getJSON(ctx, m.Endpoint, query, nil, &resp); err != nil {
		return domain.Coordinates{}, classifyHTTPError(MapQuest, err)
	}

	switch resp.Info.StatusCode {
	case 0:
		if len(resp.Results) == 0 || len(resp.Results[0].Locations) == 0 {
			return domain.Coordinates{}, fmt.Errorf("mapquest: %q: %w", norm, domain.ErrAddressNotFound)
		}
		ll := resp.Results[0].Locations[0].LatLng
		return checkResult(MapQuest, norm, domain.Coordinates{Lat: ll.Lat, Lon: ll.Lng})
	case 401, 403:
		return domain.Coordinates{}, fmt.Errorf("mapquest: %w", domain.ErrInvalidAPIKey)
	}

	return domain.Coordinates{}, &domain.ProviderError{Provider: MapQuest, Status: strconv.Itoa(resp.Info.StatusCode)}
}
