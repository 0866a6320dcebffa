package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	idgen "github.com/riskibarqy/brawl-tracker/internal/platform/id"
)

var tierRank = map[metatier.Tier]int{metatier.TierS: 0, metatier.TierA: 1, metatier.TierB: 2, metatier.TierC: 3}

type MetaTierRepository struct {
	mu      sync.RWMutex
	ids     idgen.Generator
	entries map[string]metatier.Entry
}

func NewMetaTierRepository(ids idgen.Generator) *MetaTierRepository {
	return &MetaTierRepository{ids: ids, entries: make(map[string]metatier.Entry)}
}

func (r *MetaTierRepository) List(_ context.Context, mode string) ([]metatier.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]metatier.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if mode != "" && entry.Mode != mode {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if tierRank[out[i].Tier] != tierRank[out[j].Tier] {
			return tierRank[out[i].Tier] < tierRank[out[j].Tier]
		}
		if out[i].BrawlerName != out[j].BrawlerName {
			return out[i].BrawlerName < out[j].BrawlerName
		}
		return out[i].Mode < out[j].Mode
	})
	return out, nil
}

func (r *MetaTierRepository) Upsert(_ context.Context, entry metatier.Entry) (metatier.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.entries {
		if existing.BrawlerName == entry.BrawlerName && existing.Mode == entry.Mode {
			existing.Tier = entry.Tier
			r.entries[id] = existing
			return existing, nil
		}
	}

	id, err := r.ids.NewID()
	if err != nil {
		return metatier.Entry{}, fmt.Errorf("generate meta tier id: %w", err)
	}
	entry.ID = id
	r.entries[id] = entry
	return entry, nil
}

func (r *MetaTierRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return false, nil
	}
	delete(r.entries, id)
	return true, nil
}
