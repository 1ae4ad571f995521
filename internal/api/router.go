package api

import (
	"geodistance-service/internal/api/handlers"
	"geodistance-service/internal/config"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options carries the defaults that are fixed at startup.
type Options struct {
	DefaultAlgorithm domain.Algorithm
	DefaultProvider  string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	logger *zap.Logger,
	distances *services.DistanceService,
	addresses *services.AddressService,
	store *config.Store,
	opts Options,
) http.Handler {
	if opts.DefaultAlgorithm == "" {
		opts.DefaultAlgorithm = domain.Haversine
	}

	distHandler := &handlers.DistanceHandler{
		Distances:        distances,
		Addresses:        addresses,
		DefaultAlgorithm: opts.DefaultAlgorithm,
	}
	geoHandler := &handlers.GeocodeHandler{Addresses: addresses, DefaultProvider: opts.DefaultProvider}
	confHandler := &handlers.ConfigHandler{Store: store}

	r := chi.NewRouter()
	r.Use(recoverMiddleware(logger))
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(metricsMiddleware)

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/distance", distHandler.Points)
		r.Get("/distance/addresses", distHandler.AddressPoints)
		r.Post("/centroid", handlers.Centroid)
		r.Get("/geocode", geoHandler.Geocode)

		r.Get("/config", confHandler.Get)
		r.Patch("/config", confHandler.Patch)
		r.Delete("/config", confHandler.Reset)
	})

	return r
}
