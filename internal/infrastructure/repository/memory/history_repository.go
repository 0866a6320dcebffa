package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
)

type historyKey struct {
	tag  string
	date time.Time
}

type HistoryRepository struct {
	mu        sync.RWMutex
	nextID    int64
	points    map[historyKey]player.HistoryPoint
	analytics map[historyKey]player.AnalyticsSnapshot
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{
		points:    make(map[historyKey]player.HistoryPoint),
		analytics: make(map[historyKey]player.AnalyticsSnapshot),
	}
}

func (r *HistoryRepository) HasHistory(_ context.Context, tag string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key := range r.points {
		if key.tag == tag {
			return true, nil
		}
	}
	return false, nil
}

func (r *HistoryRepository) UpsertHistory(_ context.Context, point player.HistoryPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	point.SnapshotDate = player.SnapshotDate(point.SnapshotDate)
	key := historyKey{tag: point.PlayerTag, date: point.SnapshotDate}
	if existing, ok := r.points[key]; ok {
		point.ID = existing.ID
		point.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		point.ID = r.nextID
	}
	r.points[key] = point
	return nil
}

func (r *HistoryRepository) ListHistory(_ context.Context, tag string, limit int) ([]player.HistoryPoint, error) {
	points := r.newestFirst(func(p player.HistoryPoint) bool { return p.PlayerTag == tag }, limit)
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

func (r *HistoryRepository) ListHistoryForTags(_ context.Context, tags []string, limit int) ([]player.HistoryPoint, error) {
	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[tag] = struct{}{}
	}
	return r.newestFirst(func(p player.HistoryPoint) bool {
		_, ok := wanted[p.PlayerTag]
		return ok
	}, limit), nil
}

func (r *HistoryRepository) newestFirst(match func(player.HistoryPoint) bool, limit int) []player.HistoryPoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.HistoryPoint, 0)
	for _, point := range r.points {
		if match(point) {
			out = append(out, point)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SnapshotDate.Equal(out[j].SnapshotDate) {
			return out[i].SnapshotDate.After(out[j].SnapshotDate)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *HistoryRepository) UpsertAnalytics(_ context.Context, snapshot player.AnalyticsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot.SnapshotDate = player.SnapshotDate(snapshot.SnapshotDate)
	r.analytics[historyKey{tag: snapshot.PlayerTag, date: snapshot.SnapshotDate}] = snapshot
	return nil
}

func (r *HistoryRepository) GetAnalytics(_ context.Context, tag string, date time.Time) (player.AnalyticsSnapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.analytics[historyKey{tag: tag, date: player.SnapshotDate(date)}]
	return snapshot, ok, nil
}
