package handlers

import (
	"geodistance-service/internal/api/dto"
	"geodistance-service/internal/services"
	"net/http"
	"strings"
)

type GeocodeHandler struct {
	Addresses       *services.AddressService
	DefaultProvider string
}

// Geocode handles GET /v1/geocode?address=...&api=....
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}

	provider := strings.TrimSpace(r.URL.Query().Get("api"))
	if provider == "" {
		provider = h.DefaultProvider
	}

	c, err := h.Addresses.Geocode(r.Context(), address, provider)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{
		Address:  address,
		Provider: provider,
		Lat:      c.Lat,
		Lon:      c.Lon,
	})
}
