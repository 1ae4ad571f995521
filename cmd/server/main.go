package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"geodistance-service/internal/adapters/cache"
	"geodistance-service/internal/adapters/geocode"
	"geodistance-service/internal/adapters/repositories"
	"geodistance-service/internal/api"
	"geodistance-service/internal/config"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/platform/db"
	"geodistance-service/internal/platform/obs"
	"geodistance-service/internal/ports"
	"geodistance-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := obs.NewLogger(conf.Env, conf.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(conf, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(conf *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = obs.ContextWithLogger(ctx, logger)

	store := config.NewStore(conf)

	geocodeCache, closeCache, err := openGeocodeCache(ctx, conf)
	if err != nil {
		return err
	}
	defer closeCache()

	if conf.Storage.SeedPath != "" && geocodeCache != nil {
		n, err := repositories.SeedGeocodeFromJSON(ctx, geocodeCache, conf.Storage.SeedPath)
		if err != nil {
			return fmt.Errorf("seed geocode cache: %w", err)
		}
		logger.Info("geocode cache seeded", zap.Int("addresses", n), zap.String("path", conf.Storage.SeedPath))
	}

	// Provider lookups share one HTTP client; keys and timeout are read from the store per call.
	client := geocode.NewClient(nil)
	geocoders := make(map[string]ports.Geocoder)
	for _, name := range []string{geocode.Google, geocode.OpenCage, geocode.MapQuest, geocode.OpenRouteService} {
		provider, err := geocode.NewProvider(name, client, store)
		if err != nil {
			return err
		}
		geocoders[name] = geocode.NewCachedGeocoder(provider, geocodeCache, store, cache.DefaultCapacity)
	}

	distances := services.NewDistanceService(cache.NewDistanceCache(conf.Distance.CacheSize), store, nil)
	addresses := services.NewAddressService(distances, geocoders, conf.Geocode.Provider)

	router := api.NewRouter(logger, distances, addresses, store, api.Options{
		DefaultAlgorithm: domain.Algorithm(conf.Distance.Algorithm),
		DefaultProvider:  conf.Geocode.Provider,
	})

	// Write timeout leaves room for two sequential geocode retries on a cold cache.
	srv := &http.Server{
		Addr:              ":" + conf.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("geocode_cache", conf.Geocode.Cache),
			zap.String("provider", conf.Geocode.Provider),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// openGeocodeCache returns the configured persistent geocode cache, or nil for "none".
func openGeocodeCache(ctx context.Context, conf *config.Config) (ports.GeocodeCache, func(), error) {
	noop := func() {}

	switch conf.Geocode.Cache {
	case "sqlite":
		if dir := filepath.Dir(conf.Storage.SqlitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, noop, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		conn, err := db.OpenSQLite(conf.Storage.SqlitePath)
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSqliteGeocodeCache(conn), closer(conn), nil

	case "postgres":
		conn, err := db.Open(conf.Storage.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSQLGeocodeCache(conn), closer(conn), nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: conf.Storage.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connect redis %s: %w", conf.Storage.RedisAddr, err)
		}
		return cache.NewRedisGeocodeCache(client, conf.Geocode.CacheTTL), func() { _ = client.Close() }, nil
	}

	return nil, noop, nil
}

func closer(conn *sql.DB) func() {
	return func() { _ = conn.Close() }
}
