package api

import (
	"context"
	"encoding/json"
	"geodistance-service/internal/adapters/cache"
	"geodistance-service/internal/adapters/geocode"
	"geodistance-service/internal/api/dto"
	"geodistance-service/internal/config"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/ports"
	"geodistance-service/internal/services"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	conf := &config.Config{}
	conf.Distance.Unit = "km"
	conf.Geocode.Timeout = 5 * time.Second
	conf.APIKeys.Google = "g-key"

	store := config.NewStore(conf)
	distances := services.NewDistanceService(cache.NewDistanceCache(cache.DefaultCapacity), store, nil)

	mock := geocode.NewMockGeocoder("mock", map[string]domain.Coordinates{
		"New York, NY":    {Lat: 40.7128, Lon: -74.0060},
		"Los Angeles, CA": {Lat: 34.0522, Lon: -118.2437},
	})
	addresses := services.NewAddressService(distances, map[string]ports.Geocoder{"mock": mock}, "mock")

	return NewRouter(zap.NewNop(), distances, addresses, store, Options{
		DefaultAlgorithm: domain.Haversine,
		DefaultProvider:  "mock",
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func distanceURL(from, to string, extra url.Values) string {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	for k, v := range extra {
		q[k] = v
	}
	return "/v1/distance?" + q.Encode()
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode[map[string]string](t, rec)["status"]; got != "ok" {
		t.Fatalf("status field = %q, want ok", got)
	}

	if rec := do(t, h, http.MethodPost, "/health", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health status = %d, want 405", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestDistanceEndpoint(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, distanceURL("40.7128,-74.0060", "34.0522,-118.2437", nil), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	res := decode[dto.DistanceResponse](t, rec)
	if math.Abs(res.Distance-3935.7524322054765) > 1e-6 {
		t.Fatalf("distance = %v, want 3935.7524322054765", res.Distance)
	}
	if res.Unit != "km" || res.Algorithm != "haversine" || res.Approximate {
		t.Fatalf("unexpected tags: %+v", res)
	}
}

func TestDistanceEndpointVincentyMiles(t *testing.T) {
	h := newTestRouter(t)

	extra := url.Values{"unit": {"miles"}, "algorithm": {"vincenty"}}
	rec := do(t, h, http.MethodGet, distanceURL("51.5074,-0.1278", "48.8566,2.3522", extra), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	res := decode[dto.DistanceResponse](t, rec)
	if math.Abs(res.Distance-343.9231200906865*0.621371) > 1e-6 {
		t.Fatalf("distance = %v", res.Distance)
	}
	if res.Unit != "mi" || res.Algorithm != "vincenty" {
		t.Fatalf("unexpected tags: %+v", res)
	}
}

func TestDistanceEndpointErrors(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing from", "/v1/distance?to=1,1", http.StatusBadRequest},
		{"malformed", distanceURL("north,west", "1,1", nil), http.StatusBadRequest},
		{"latitude out of range", distanceURL("91,0", "0,0", nil), http.StatusBadRequest},
		{"longitude out of range", distanceURL("0,0", "0,181", nil), http.StatusBadRequest},
		{"unit", distanceURL("0,0", "1,1", url.Values{"unit": {"ft"}}), http.StatusBadRequest},
		{"algorithm", distanceURL("0,0", "1,1", url.Values{"algorithm": {"karney"}}), http.StatusBadRequest},
		{"fallback", distanceURL("0,0", "1,1", url.Values{"fallback": {"flat"}}), http.StatusBadRequest},
		{"no convergence", distanceURL("0,0", "0,180", url.Values{"algorithm": {"vincenty"}}), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			if decode[map[string]string](t, rec)["error"] == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

func TestDistanceEndpointNamesInvalidOperand(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, distanceURL("0,0", "-91,0", nil), "")
	msg := decode[map[string]string](t, rec)["error"]
	if !strings.Contains(msg, "second") {
		t.Fatalf("error %q does not name the second point", msg)
	}
}

func TestDistanceEndpointFallback(t *testing.T) {
	h := newTestRouter(t)

	extra := url.Values{"algorithm": {"vincenty"}, "fallback": {"haversine"}}
	rec := do(t, h, http.MethodGet, distanceURL("0,0", "0,180", extra), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	res := decode[dto.DistanceResponse](t, rec)
	if !res.Approximate || res.Algorithm != "haversine" {
		t.Fatalf("expected approximate haversine result, got %+v", res)
	}
	if math.Abs(res.Distance-20015.11821194711) > 1e-6 {
		t.Fatalf("distance = %v", res.Distance)
	}
}

func TestAddressDistanceEndpoint(t *testing.T) {
	h := newTestRouter(t)

	q := url.Values{"from": {"New York, NY"}, "to": {"Los Angeles, CA"}}
	rec := do(t, h, http.MethodGet, "/v1/distance/addresses?"+q.Encode(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	res := decode[dto.AddressDistanceResponse](t, rec)
	if res.Provider != "mock" {
		t.Fatalf("provider = %q, want mock", res.Provider)
	}
	if math.Abs(res.Distance-3935.7524322054765) > 1e-6 {
		t.Fatalf("distance = %v", res.Distance)
	}

	q.Set("to", "Invalid Address")
	if rec := do(t, h, http.MethodGet, "/v1/distance/addresses?"+q.Encode(), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown address status = %d, want 404", rec.Code)
	}

	q.Set("to", "Los Angeles, CA")
	q.Set("api", "bing")
	if rec := do(t, h, http.MethodGet, "/v1/distance/addresses?"+q.Encode(), ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unsupported provider status = %d, want 400", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, "/v1/distance/addresses?from=x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing address status = %d, want 400", rec.Code)
	}
}

func TestGeocodeEndpoint(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/v1/geocode?"+url.Values{"address": {"Los Angeles, CA"}}.Encode(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	res := decode[dto.GeocodeResponse](t, rec)
	if res.Lat != 34.0522 || res.Lon != -118.2437 || res.Provider != "mock" {
		t.Fatalf("unexpected response %+v", res)
	}

	if rec := do(t, h, http.MethodGet, "/v1/geocode", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing address status = %d, want 400", rec.Code)
	}
}

func TestCancelledRequestIsNotAnInternalError(t *testing.T) {
	h := newTestRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := "/v1/geocode?" + url.Values{"address": {"Los Angeles, CA"}}.Encode()
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 499 {
		t.Fatalf("status = %d, want 499", rec.Code)
	}
}

func TestCentroidEndpoint(t *testing.T) {
	h := newTestRouter(t)

	body := `{"points":[[40.7128,-74.0060],[34.0522,-118.2437],[41.8781,-87.6298]],"batch_size":2}`
	rec := do(t, h, http.MethodPost, "/v1/centroid", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	res := decode[dto.CentroidResponse](t, rec)
	if res.Count != 3 {
		t.Fatalf("count = %d, want 3", res.Count)
	}
	if math.Abs(res.Centroid.Lat-38.881033333333335) > 1e-9 || math.Abs(res.Centroid.Lon+93.29316666666666) > 1e-9 {
		t.Fatalf("centroid = %+v", res.Centroid)
	}

	bad := map[string]string{
		"empty":         `{"points":[]}`,
		"unknown field": `{"points":[[1,1]],"weights":[1]}`,
		"negative size": `{"points":[[1,1]],"batch_size":-1}`,
		"two objects":   `{"points":[[1,1]]}{}`,
	}
	for name, body := range bad {
		if rec := do(t, h, http.MethodPost, "/v1/centroid", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestConfigEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/v1/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	conf := decode[dto.ConfigResponse](t, rec)
	if conf.Unit != "km" || conf.TimeoutSeconds != 5 {
		t.Fatalf("unexpected config %+v", conf)
	}
	if !conf.APIKeys["google"] || conf.APIKeys["openrouteservice"] {
		t.Fatalf("unexpected key flags %+v", conf.APIKeys)
	}

	rec = do(t, h, http.MethodPatch, "/v1/config", `{"unit":"mi","timeout_seconds":2.5,"api_keys":{"openrouteservice":"k"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", rec.Code, rec.Body)
	}
	conf = decode[dto.ConfigResponse](t, rec)
	if conf.Unit != "mi" || conf.TimeoutSeconds != 2.5 || !conf.APIKeys["openrouteservice"] {
		t.Fatalf("unexpected config after patch %+v", conf)
	}

	// The default unit is read on every request.
	res := decode[dto.DistanceResponse](t, do(t, h, http.MethodGet, distanceURL("0,0", "0,1", nil), ""))
	if res.Unit != "mi" {
		t.Fatalf("unit after patch = %q, want mi", res.Unit)
	}

	rec = do(t, h, http.MethodDelete, "/v1/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if conf = decode[dto.ConfigResponse](t, rec); conf.Unit != "km" || conf.TimeoutSeconds != 5 {
		t.Fatalf("unexpected config after reset %+v", conf)
	}
}

func TestConfigPatchRejectsInvalid(t *testing.T) {
	h := newTestRouter(t)

	bad := map[string]string{
		"unit":     `{"unit":"furlongs"}`,
		"timeout":  `{"timeout_seconds":0}`,
		"provider": `{"api_keys":{"bing":"k"}}`,
		"json":     `{"unit":`,
	}
	for name, body := range bad {
		if rec := do(t, h, http.MethodPatch, "/v1/config", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}

	conf := decode[dto.ConfigResponse](t, do(t, h, http.MethodGet, "/v1/config", ""))
	if conf.Unit != "km" {
		t.Fatalf("rejected patch changed unit to %q", conf.Unit)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)

	do(t, h, http.MethodGet, "/health", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "geodist_http_requests_total") {
		t.Fatal("expected http request counter in metrics output")
	}
}
