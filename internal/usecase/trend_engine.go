package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
)

// TrendEngine compares a freshly built board with the last persisted positions and
// stores the new ones. Trends are best effort: any store failure yields no trends.
type TrendEngine struct {
	repo         leaderboard.Repository
	storeTimeout time.Duration
	logger       *logging.Logger
	metrics      *metrics.Manager
}

func NewTrendEngine(repo leaderboard.Repository, storeTimeout time.Duration, logger *logging.Logger, m *metrics.Manager) *TrendEngine {
	if logger == nil {
		logger = logging.Default()
	}
	return &TrendEngine{repo: repo, storeTimeout: storeTimeout, logger: logger, metrics: m}
}

// CompareAndPersist annotates entries (already in board order) and upserts their
// positions. Trends always come from the state read before the upsert.
func (e *TrendEngine) CompareAndPersist(ctx context.Context, boardType leaderboard.Type, entries []leaderboard.Ranked) map[string]leaderboard.Trend {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrendEngine.CompareAndPersist")
	defer span.End()

	if e == nil || e.repo == nil || len(entries) == 0 {
		return map[string]leaderboard.Trend{}
	}

	current := leaderboard.BuildSnapshotRecords(boardType, entries)
	tags := make([]string, 0, len(current))
	for _, record := range current {
		tags = append(tags, record.PlayerTag)
	}

	readCtx, cancel := e.storeContext(ctx)
	previousRows, err := e.repo.ListByTags(readCtx, boardType, tags)
	cancel()
	if err != nil {
		e.logger.WarnContext(ctx, "read leaderboard snapshots failed", "type", boardType, "error", err)
		e.metrics.IncTrendStoreError(string(boardType))
		return map[string]leaderboard.Trend{}
	}

	previous := make(map[string]int, len(previousRows))
	for _, row := range previousRows {
		previous[row.PlayerTag] = row.LastPosition
	}
	trends := leaderboard.ComputeTrends(current, previous)

	writeCtx, cancel := e.storeContext(ctx)
	defer cancel()
	if err := e.repo.Upsert(writeCtx, current); err != nil {
		e.logger.WarnContext(ctx, "upsert leaderboard snapshots failed", "type", boardType, "error", err)
		e.metrics.IncTrendStoreError(string(boardType))
		return map[string]leaderboard.Trend{}
	}
	return trends
}

func (e *TrendEngine) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.storeTimeout)
}
