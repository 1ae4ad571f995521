package main

import (
	"context"
	"flag"
	"fmt"
	"geodistance-service/internal/adapters/cache"
	"geodistance-service/internal/adapters/repositories"
	"geodistance-service/internal/config"
	"geodistance-service/internal/platform/db"
	"geodistance-service/internal/platform/obs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// dbtool prepares a Postgres geocode cache: it creates the schema and
// optionally seeds known addresses.
func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	seedPath := flag.String("seed", "", "JSON file of provider/address/lat/lon rows (overrides storage.seed_path)")
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

	if strings.TrimSpace(conf.Storage.DatabaseURL) == "" {
		logger.Fatal("storage.database_url is required (GEODIST_STORAGE_DATABASE_URL)")
	}

	path := conf.Storage.SeedPath
	if *seedPath != "" {
		path = *seedPath
	}

	if err := initAndSeed(obs.ContextWithLogger(context.Background(), logger), conf.Storage.DatabaseURL, path); err != nil {
		logger.Fatal("dbtool failed", zap.Error(err))
	}
}

func initAndSeed(ctx context.Context, databaseURL, seedPath string) error {
	logger := obs.FromContext(ctx)

	conn, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logger.Info("schema ready")

	if seedPath == "" {
		return nil
	}

	logger.Info("seeding geocode cache", zap.String("path", seedPath))
	n, err := repositories.SeedGeocodeFromJSON(ctx, cache.NewSQLGeocodeCache(conn), seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	logger.Info("seeding complete", zap.Int("addresses", n))

	return nil
}
