package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"airbnb-dashboard/config"
	"airbnb-dashboard/server"
	"airbnb-dashboard/services"
	"airbnb-dashboard/snapshot"
	"airbnb-dashboard/storage"
	"airbnb-dashboard/utils"
)

const watchDebounce = 500 * time.Millisecond

// openSource returns the listing source selected by DATA_SOURCE and a
// function releasing its resources.
func openSource(ctx context.Context, cfg *config.Config, logger *utils.Logger) (services.Source, func(), error) {
	switch cfg.DataSource {
	case config.SourceCSV:
		return csvSource(cfg, logger), func() {}, nil
	case config.SourcePostgres:
		pg, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return services.NewDBSource(pg), func() { _ = pg.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown DATA_SOURCE %q (want %q or %q)",
		cfg.DataSource, config.SourceCSV, config.SourcePostgres)
}

func csvSource(cfg *config.Config, logger *utils.Logger) *services.CSVSource {
	reader := storage.NewCSVReader(cfg.DatasetPath)
	return services.NewCSVSource(reader, services.NewCleaner(logger), reader.Path())
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*storage.PostgresStore, error) {
	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
	pg, err := storage.NewPostgresStore(ctx, cfg.DSN(), retry)
	if err != nil {
		logger.Error("Make sure PostgreSQL is running: docker compose up -d")
		return nil, err
	}
	return pg, nil
}

// loadStore builds the dataset store and loads it eagerly so a missing file
// or column fails at startup.
func loadStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*services.Store, func(), error) {
	source, closeSource, err := openSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	store := services.NewStore(source, cfg.DefaultMaxPrice, logger)
	listings, err := store.Listings(ctx)
	if err != nil {
		closeSource()
		return nil, nil, err
	}
	if len(listings) == 0 {
		logger.Warn("Dataset has no usable listings; every chart will be empty")
	}
	return store, closeSource, nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	store, closeSource, err := loadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	dashboards := services.NewDashboardService(store, cfg.TopHosts, time.Duration(cfg.CacheTTLSec)*time.Second, logger)
	defer dashboards.Close()

	if cfg.WatchDataset && cfg.DataSource == config.SourceCSV {
		watcher, err := storage.NewFileWatcher(cfg.DatasetPath, watchDebounce)
		if err != nil {
			logger.Warn("Dataset watch disabled: %v", err)
		} else {
			defer watcher.Close()
			go func() {
				err := watcher.Watch(ctx, func(path string) {
					logger.Info("[watch] %s changed at %s, reloading", path, watcher.LastEvent().Format(time.TimeOnly))
					if err := store.Reload(ctx); err != nil {
						logger.Error("[watch] Reload failed, keeping previous dataset: %v", err)
					}
				})
				if err != nil {
					logger.Error("[watch] %v", err)
				}
			}()
		}
	}

	return server.New(store, dashboards, logger).ListenAndServe(ctx, cfg.HTTPAddr)
}

func runReport(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	store, closeSource, err := loadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	listings, err := store.Listings(ctx)
	if err != nil {
		return err
	}
	services.NewInsightService(logger, os.Stdout).Print(services.GenerateInsights(listings))
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	listings, err := csvSource(cfg, logger).Load(ctx)
	if err != nil {
		return err
	}

	pg, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Write(ctx, listings); err != nil {
		return err
	}
	logger.Info("Stored %d listings in PostgreSQL (table: listings)", len(listings))
	return nil
}

func runSnapshot(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	store, closeSource, err := loadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	dashboards := services.NewDashboardService(store, cfg.TopHosts, time.Duration(cfg.CacheTTLSec)*time.Second, logger)
	defer dashboards.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("snapshot: listen: %w", err)
	}

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- server.New(store, dashboards, logger).Serve(serveCtx, ln)
	}()

	pageURL := "http://" + ln.Addr().String() + "/"
	captureErr := snapshot.New(cfg.ChromeBin, cfg.MaxRetries, logger).Capture(ctx, pageURL, cfg.SnapshotPath)

	cancel()
	if err := <-done; err != nil {
		logger.Warn("Snapshot server: %v", err)
	}
	return captureErr
}
