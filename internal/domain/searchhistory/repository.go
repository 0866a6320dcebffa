package searchhistory

import "context"

type Repository interface {
	Upsert(ctx context.Context, item Item) error
	// ListLatest returns up to limit items of a session, most recently updated first.
	ListLatest(ctx context.Context, sessionID string, limit int) ([]Item, error)
}
