package player

import (
	"context"
	"time"
)

// Repository describes tracked-player persistence needs from use cases.
type Repository interface {
	GetByTag(ctx context.Context, tag string) (Record, bool, error)
	Upsert(ctx context.Context, record Record) error
	// ListRecent returns up to limit records, most recently seen first.
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// HistoryRepository stores daily snapshots and analytics.
type HistoryRepository interface {
	HasHistory(ctx context.Context, tag string) (bool, error)
	UpsertHistory(ctx context.Context, point HistoryPoint) error
	// ListHistory returns points in ascending date order.
	ListHistory(ctx context.Context, tag string, limit int) ([]HistoryPoint, error)
	// ListHistoryForTags returns the most recent points of several players, newest first.
	ListHistoryForTags(ctx context.Context, tags []string, limit int) ([]HistoryPoint, error)
	UpsertAnalytics(ctx context.Context, snapshot AnalyticsSnapshot) error
	GetAnalytics(ctx context.Context, tag string, date time.Time) (AnalyticsSnapshot, bool, error)
}
