// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/card-perks/pkg/storage"
)

// Scheduler runs the screenshot retention job on a cron schedule. Source
// screenshots are only needed while a capture's perks might be re-checked;
// past the retention window they are deleted.
type Scheduler struct {
	cron          *cron.Cron
	store         storage.Storage
	retentionDays int
	spec          string
	logger        *slog.Logger
}

// NewScheduler creates the retention scheduler. spec is a standard 5-field
// cron expression; retentionDays is how long screenshots are kept.
func NewScheduler(store storage.Storage, spec string, retentionDays int, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:          c,
		store:         store,
		retentionDays: retentionDays,
		spec:          spec,
		logger:        logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.expireScreenshots)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("spec", s.spec),
		slog.Int("retention_days", s.retentionDays),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the retention sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.expireScreenshots()
}

// expireScreenshots deletes source screenshots older than the retention window.
func (s *Scheduler) expireScreenshots() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	s.logger.Info("starting screenshot retention sweep",
		slog.Time("cutoff", cutoff),
	)

	removed, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("screenshot retention sweep failed",
			slog.Int("removed", removed),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("screenshot retention sweep completed",
		slog.Int("removed", removed),
	)
}
