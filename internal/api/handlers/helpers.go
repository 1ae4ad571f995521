package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"geodistance-service/internal/api/dto"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/geodesic"
	"geodistance-service/internal/platform/obs"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.FromContext(r.Context()).Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object from the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// statusClientClosedRequest reports a caller that went away before the response was ready.
const statusClientClosedRequest = 499

// errorHandler writes a response for err and reports whether it did.
type errorHandler func(w http.ResponseWriter, r *http.Request, err error) bool

func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, r, status, err.Error())
		return true
	}
}

func providerErrorHandler(w http.ResponseWriter, r *http.Request, err error) bool {
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	writeError(w, r, http.StatusBadGateway, pe.Error())
	return true
}

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrInvalidCoordinate, http.StatusBadRequest),
	sentinelHandler(domain.ErrUnsupportedUnit, http.StatusBadRequest),
	sentinelHandler(domain.ErrUnsupportedAlgorithm, http.StatusBadRequest),
	sentinelHandler(domain.ErrUnsupportedProvider, http.StatusBadRequest),
	sentinelHandler(domain.ErrNoPoints, http.StatusBadRequest),
	sentinelHandler(domain.ErrInvalidPoint, http.StatusBadRequest),
	sentinelHandler(geodesic.ErrConvergenceFailure, http.StatusUnprocessableEntity),
	sentinelHandler(domain.ErrAddressNotFound, http.StatusNotFound),
	sentinelHandler(domain.ErrInvalidAPIKey, http.StatusBadGateway),
	providerErrorHandler,
	sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout),
	sentinelHandler(context.Canceled, statusClientClosedRequest),
}

// writeDomainError maps err onto an HTTP status. Unknown errors are logged
// and reported as 500 without leaking details.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range errorHandlers {
		if h(w, r, err) {
			return
		}
	}

	obs.FromContext(r.Context()).Error("internal error",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// parseCoordinates parses "lat,lon". Range checks are left to the domain.
func parseCoordinates(s string) (domain.Coordinates, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("expected lat,lon, got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude %q", lonStr)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}

// parseUnit returns "" when the parameter is absent so the settings default applies.
func parseUnit(s string) (domain.Unit, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return domain.ParseUnit(s)
}

func parseAlgorithm(s string, fallback domain.Algorithm) (domain.Algorithm, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return domain.ParseAlgorithm(s)
}

func toDTO(c domain.Coordinates) dto.Coordinates {
	return dto.Coordinates{Lat: c.Lat, Lon: c.Lon}
}
