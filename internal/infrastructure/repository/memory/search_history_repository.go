package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/brawl-tracker/internal/domain/searchhistory"
)

type SearchHistoryRepository struct {
	mu        sync.RWMutex
	bySession map[string]map[string]searchhistory.Item
}

func NewSearchHistoryRepository() *SearchHistoryRepository {
	return &SearchHistoryRepository{bySession: make(map[string]map[string]searchhistory.Item)}
}

func (r *SearchHistoryRepository) Upsert(_ context.Context, item searchhistory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.bySession[item.SessionID]
	if !ok {
		session = make(map[string]searchhistory.Item)
		r.bySession[item.SessionID] = session
	}
	session[item.PlayerTag] = item
	return nil
}

func (r *SearchHistoryRepository) ListLatest(_ context.Context, sessionID string, limit int) ([]searchhistory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session := r.bySession[sessionID]
	out := make([]searchhistory.Item, 0, len(session))
	for _, item := range session {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].PlayerTag < out[j].PlayerTag
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
