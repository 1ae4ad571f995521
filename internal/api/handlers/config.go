package handlers

import (
	"fmt"
	"geodistance-service/internal/api/dto"
	"geodistance-service/internal/config"
	"geodistance-service/internal/domain"
	"net/http"
	"time"
)

// ConfigHandler exposes the live settings store.
type ConfigHandler struct {
	Store *config.Store
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, configResponse(h.Store.Snapshot()))
}

func (h *ConfigHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfigPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var unit domain.Unit
	if req.Unit != nil {
		u, err := domain.ParseUnit(*req.Unit)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		unit = u
	}

	if req.TimeoutSeconds != nil && *req.TimeoutSeconds <= 0 {
		writeError(w, r, http.StatusBadRequest, "timeout_seconds must be positive")
		return
	}

	known := h.Store.Snapshot().APIKeys
	for provider := range req.APIKeys {
		if _, ok := known[provider]; !ok {
			writeDomainError(w, r, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider))
			return
		}
	}

	err := h.Store.Update(func(s *config.Settings) {
		if unit != "" {
			s.Unit = unit
		}
		if req.TimeoutSeconds != nil {
			s.Timeout = time.Duration(*req.TimeoutSeconds * float64(time.Second))
		}
		for provider, key := range req.APIKeys {
			s.APIKeys[provider] = key
		}
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, configResponse(h.Store.Snapshot()))
}

// Reset restores the settings loaded at startup.
func (h *ConfigHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Store.Reset()
	writeJSON(w, r, http.StatusOK, configResponse(h.Store.Snapshot()))
}

func configResponse(s config.Settings) dto.ConfigResponse {
	keys := make(map[string]bool, len(s.APIKeys))
	for provider, key := range s.APIKeys {
		keys[provider] = key != ""
	}

	return dto.ConfigResponse{
		Unit:           string(s.Unit),
		TimeoutSeconds: s.Timeout.Seconds(),
		APIKeys:        keys,
	}
}
