package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/logger"
)

type retentionRepository interface {
	DeletePublishedBefore(tx *gorm.DB, cutoff time.Time) (int64, error)
}

// retentionSweeper deletes published outbox rows older than the retention
// window on a fixed interval.
type retentionSweeper struct {
	logg      *logger.Logger
	db        dbClient
	repo      retentionRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func newRetentionSweeper(logg *logger.Logger, db dbClient, repo retentionRepository, days int, interval time.Duration) (*retentionSweeper, error) {
	if logg == nil || db == nil || repo == nil {
		return nil, errors.New("logger, db and repository are required")
	}
	if days <= 0 {
		return nil, fmt.Errorf("retention days must be positive, got %d", days)
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &retentionSweeper{
		logg:      logg,
		db:        db,
		repo:      repo,
		retention: time.Duration(days) * 24 * time.Hour,
		interval:  interval,
		now:       time.Now,
	}, nil
}

// Run sweeps once immediately and then on every tick until ctx ends.
func (s *retentionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if err := s.sweep(ctx); err != nil {
			s.logg.Error(ctx, "outbox retention sweep failed", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *retentionSweeper) sweep(ctx context.Context) error {
	cutoff := s.now().UTC().Add(-s.retention)
	var deleted int64
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.DeletePublishedBefore(tx, cutoff)
		deleted = rows
		return err
	})
	if err != nil {
		return fmt.Errorf("outbox retention: %w", err)
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	}), "outbox retention sweep complete")
	return nil
}
