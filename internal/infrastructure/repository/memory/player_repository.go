package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	byTag map[string]player.Record
}

func NewPlayerRepository(records ...player.Record) *PlayerRepository {
	repo := &PlayerRepository{byTag: make(map[string]player.Record, len(records))}
	for _, record := range records {
		repo.byTag[record.Tag] = record
	}
	return repo
}

func (r *PlayerRepository) GetByTag(_ context.Context, tag string) (player.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byTag[tag]
	return record, ok, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, record player.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byTag[record.Tag]; ok && !existing.CreatedAt.IsZero() {
		record.CreatedAt = existing.CreatedAt
	}
	record.RawPayload = append([]byte(nil), record.RawPayload...)
	r.byTag[record.Tag] = record
	return nil
}

func (r *PlayerRepository) ListRecent(_ context.Context, limit int) ([]player.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Record, 0, len(r.byTag))
	for _, record := range r.byTag {
		out = append(out, record)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastSeenAt.Equal(out[j].LastSeenAt) {
			return out[i].LastSeenAt.After(out[j].LastSeenAt)
		}
		return out[i].Tag < out[j].Tag
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
