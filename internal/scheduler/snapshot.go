package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gw/kalshi-tradestats/internal/history"
	"github.com/gw/kalshi-tradestats/internal/stats"
)

type StatsSource interface {
	Stats(ctx context.Context) (stats.Summary, error)
}

type SnapshotStore interface {
	Insert(ctx context.Context, snap *history.Snapshot) error
}

// TakeSnapshot computes the current stats and records them.
func TakeSnapshot(ctx context.Context, src StatsSource, store SnapshotStore, takenAt time.Time) (history.Snapshot, error) {
	summary, err := src.Stats(ctx)
	if err != nil {
		return history.Snapshot{}, fmt.Errorf("computing stats: %w", err)
	}
	snap, err := history.FromSummary(summary, takenAt)
	if err != nil {
		return history.Snapshot{}, err
	}
	if err := store.Insert(ctx, &snap); err != nil {
		return history.Snapshot{}, err
	}
	return snap, nil
}

// SnapshotJob returns a cron job recording one snapshot per run. Failures are
// logged and the next run proceeds normally.
func SnapshotJob(src StatsSource, store SnapshotStore, logger *zap.Logger) func(context.Context) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context) {
		snap, err := TakeSnapshot(ctx, src, store, time.Now())
		if err != nil {
			logger.Warn("snapshot failed", zap.Error(err))
			return
		}
		logger.Info("snapshot recorded",
			zap.String("id", snap.ID),
			zap.Int("trades", snap.TotalTrades),
			zap.Int("pnl_cents", snap.TotalPnlCents),
		)
	}
}
