package metatier

import "context"

type Repository interface {
	// List returns entries ordered by tier then brawler name; an empty mode lists all modes.
	List(ctx context.Context, mode string) ([]Entry, error)
	// Upsert updates the tier of an existing (brawler, mode) entry or inserts a new one.
	Upsert(ctx context.Context, entry Entry) (Entry, error)
	Delete(ctx context.Context, id string) (bool, error)
}
