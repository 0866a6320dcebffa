package proplayer

import "context"

type Repository interface {
	// GetActiveByTag returns the active pro profile of tag, if any.
	GetActiveByTag(ctx context.Context, tag string) (ProPlayer, bool, error)
	// ListTopByEarnings returns active pros ordered by earnings, highest first.
	ListTopByEarnings(ctx context.Context, limit int) ([]ProPlayer, error)
}
