package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
)

type LeaderboardRepository struct {
	mu      sync.RWMutex
	records map[leaderboard.Type]map[string]leaderboard.SnapshotRecord
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{records: make(map[leaderboard.Type]map[string]leaderboard.SnapshotRecord)}
}

func (r *LeaderboardRepository) ListByTags(_ context.Context, boardType leaderboard.Type, tags []string) ([]leaderboard.SnapshotRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	board := r.records[boardType]
	out := make([]leaderboard.SnapshotRecord, 0, len(tags))
	for _, tag := range tags {
		if record, ok := board[tag]; ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *LeaderboardRepository) Upsert(_ context.Context, records []leaderboard.SnapshotRecord) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		board, ok := r.records[record.Type]
		if !ok {
			board = make(map[string]leaderboard.SnapshotRecord)
			r.records[record.Type] = board
		}
		board[record.PlayerTag] = record
	}
	return nil
}
