package handlers

import (
	"geodistance-service/internal/api/dto"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/services"
	"net/http"
)

// Centroid handles POST /v1/centroid.
func Centroid(w http.ResponseWriter, r *http.Request) {
	var req dto.CentroidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.BatchSize < 0 {
		writeError(w, r, http.StatusBadRequest, "batch_size must not be negative")
		return
	}

	points := func(yield func(domain.Coordinates) bool) {
		for _, p := range req.Points {
			if !yield(domain.Coordinates{Lat: p[0], Lon: p[1]}) {
				return
			}
		}
	}

	c, err := services.CalculateCentroid(points, req.BatchSize)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CentroidResponse{
		Centroid: toDTO(c),
		Count:    len(req.Points),
	})
}
