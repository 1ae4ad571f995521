package handlers

import (
	"geodistance-service/internal/api/dto"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/services"
	"net/http"
	"strings"
)

// DistanceHandler serves point-to-point and address-to-address distances.
type DistanceHandler struct {
	Distances        *services.DistanceService
	Addresses        *services.AddressService
	DefaultAlgorithm domain.Algorithm
}

// Points handles GET /v1/distance?from=lat,lon&to=lat,lon.
func (h *DistanceHandler) Points(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := parseCoordinates(q.Get("from"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	to, err := parseCoordinates(q.Get("to"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "to: "+err.Error())
		return
	}

	unit, err := parseUnit(q.Get("unit"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	alg, err := parseAlgorithm(q.Get("algorithm"), h.DefaultAlgorithm)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var fallback domain.Algorithm
	if v := q.Get("fallback"); v != "" {
		if fallback, err = domain.ParseAlgorithm(v); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	res, approximate, err := h.Distances.ComputeWithFallback(r.Context(), from, to, unit, alg, fallback)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		From:        toDTO(from),
		To:          toDTO(to),
		Distance:    res.Value,
		Unit:        string(res.Unit),
		Algorithm:   string(res.Algorithm),
		Approximate: approximate,
	})
}

// AddressPoints handles GET /v1/distance/addresses?from=...&to=....
func (h *DistanceHandler) AddressPoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "from and to addresses are required")
		return
	}

	unit, err := parseUnit(q.Get("unit"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	alg, err := parseAlgorithm(q.Get("algorithm"), h.DefaultAlgorithm)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res, err := h.Addresses.Distance(r.Context(), from, to, strings.TrimSpace(q.Get("api")), unit, alg)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AddressDistanceResponse{
		FromAddress: from,
		ToAddress:   to,
		From:        toDTO(res.From),
		To:          toDTO(res.To),
		Provider:    res.Provider,
		Distance:    res.Result.Value,
		Unit:        string(res.Result.Unit),
		Algorithm:   string(res.Result.Algorithm),
	})
}
