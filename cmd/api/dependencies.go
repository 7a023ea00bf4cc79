package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/card-perks/internal/domain/extraction"
	"github.com/FACorreiaa/card-perks/internal/domain/perks"
	"github.com/FACorreiaa/card-perks/pkg/config"
	"github.com/FACorreiaa/card-perks/pkg/cron"
	"github.com/FACorreiaa/card-perks/pkg/db"
	"github.com/FACorreiaa/card-perks/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Registry    *extraction.Registry
	PerkRepo    *perks.Repository
	SearchIndex *perks.SearchIndex
	PerkService *perks.Service

	CaptureStorage storage.Storage
	Scheduler      *cron.Scheduler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initExtraction(); err != nil {
		return nil, fmt.Errorf("failed to init extraction: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection pool
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database
	return nil
}

// initExtraction builds the issuer parser registry. Config validation happens
// here, at construction time, never per parse.
func (d *Dependencies) initExtraction() error {
	registry, err := extraction.NewRegistry()
	if err != nil {
		return err
	}
	d.Registry = registry

	names := make([]string, 0, len(registry.Parsers()))
	for _, p := range registry.Parsers() {
		names = append(names, p.Name())
	}
	d.Logger.Info("issuer parsers registered", slog.Any("parsers", names))
	return nil
}

// initServices initializes the service layer
func (d *Dependencies) initServices() error {
	d.PerkRepo = perks.NewRepository(d.DB.Pool)

	index, err := perks.NewSearchIndex()
	if err != nil {
		return fmt.Errorf("failed to init perk search index: %w", err)
	}
	d.SearchIndex = index

	d.PerkService = perks.NewService(d.Registry, d.PerkRepo, d.SearchIndex, d.Logger)

	captureStorage, err := storage.NewLocalStorage(d.Config.Storage.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to init capture storage: %w", err)
	}
	d.CaptureStorage = captureStorage

	d.Scheduler = cron.NewScheduler(
		d.CaptureStorage,
		d.Config.Retention.CronSpec,
		d.Config.Retention.ScreenshotDays,
		d.Logger,
	)

	d.Logger.Info("services initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.SearchIndex != nil {
		if err := d.SearchIndex.Close(); err != nil {
			d.Logger.Warn("failed to close search index", slog.Any("error", err))
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
