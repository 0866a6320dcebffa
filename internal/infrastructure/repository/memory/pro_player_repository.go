package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
)

// ProPlayerRepository serves a fixed roster; pro players are curated out of band.
type ProPlayerRepository struct {
	mu    sync.RWMutex
	items []proplayer.ProPlayer
}

func NewProPlayerRepository(items ...proplayer.ProPlayer) *ProPlayerRepository {
	return &ProPlayerRepository{items: append([]proplayer.ProPlayer(nil), items...)}
}

func (r *ProPlayerRepository) GetActiveByTag(_ context.Context, tag string) (proplayer.ProPlayer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.IsActive && item.PlayerTag == tag {
			return item, true, nil
		}
	}
	return proplayer.ProPlayer{}, false, nil
}

func (r *ProPlayerRepository) ListTopByEarnings(_ context.Context, limit int) ([]proplayer.ProPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]proplayer.ProPlayer, 0, len(r.items))
	for _, item := range r.items {
		if item.IsActive {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatcherinoEarningsUSD > out[j].MatcherinoEarningsUSD
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
