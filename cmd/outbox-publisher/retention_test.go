package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/logger"
)

type fakeRetentionRepo struct {
	cutoffs []time.Time
	err     error
}

func (f *fakeRetentionRepo) DeletePublishedBefore(_ *gorm.DB, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return 0, f.err
	}
	return 4, nil
}

func TestRetentionSweepUsesWindow(t *testing.T) {
	repo := &fakeRetentionRepo{}
	sweeper, err := newRetentionSweeper(logger.Nop(), &fakeDB{}, repo, 30, time.Minute)
	require.NoError(t, err)
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return now }

	require.NoError(t, sweeper.sweep(context.Background()))
	require.Len(t, repo.cutoffs, 1)
	assert.Equal(t, now.Add(-30*24*time.Hour), repo.cutoffs[0])
}

func TestRetentionSweepPropagatesError(t *testing.T) {
	repo := &fakeRetentionRepo{err: errors.New("boom")}
	sweeper, err := newRetentionSweeper(logger.Nop(), &fakeDB{}, repo, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, sweeper.interval)
	assert.ErrorContains(t, sweeper.sweep(context.Background()), "boom")
}

func TestRetentionRunStopsWithContext(t *testing.T) {
	repo := &fakeRetentionRepo{}
	sweeper, err := newRetentionSweeper(logger.Nop(), &fakeDB{}, repo, 30, time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sweeper.Run(ctx)
	assert.Len(t, repo.cutoffs, 1, "sweeps once before waiting")
}

func TestNewRetentionSweeperValidates(t *testing.T) {
	_, err := newRetentionSweeper(logger.Nop(), &fakeDB{}, &fakeRetentionRepo{}, 0, time.Hour)
	assert.Error(t, err)
	_, err = newRetentionSweeper(nil, &fakeDB{}, &fakeRetentionRepo{}, 30, time.Hour)
	assert.Error(t, err)
}
