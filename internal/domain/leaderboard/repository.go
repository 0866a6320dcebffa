package leaderboard

import "context"

// Repository persists the last position per (type, tag).
type Repository interface {
	ListByTags(ctx context.Context, boardType Type, tags []string) ([]SnapshotRecord, error)
	Upsert(ctx context.Context, records []SnapshotRecord) error
}
