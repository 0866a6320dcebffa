package usecase

import (
	"context"

	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
)

// BrawlDataProvider is the primary game API. Its errors wrap ErrUnauthorized,
// ErrNotFound, ErrMaintenance or ErrUpstream.
type BrawlDataProvider interface {
	GetPlayer(ctx context.Context, tag string, forceRefresh bool) (ExternalPlayer, error)
	GetBattlelog(ctx context.Context, tag string, limit int, forceRefresh bool) ([]player.Battle, error)
	GetGlobalPlayerRankings(ctx context.Context, limit int) ([]ExternalRanking, error)
	GetBrawlers(ctx context.Context) ([]metatier.CatalogBrawler, error)
}

type ExternalPlayer struct {
	Profile player.Profile
	RawJSON []byte
}

// ExternalRanking is one row of the global ranking endpoint. Raw keeps the untyped item
// so ranked fields can be scanned.
type ExternalRanking struct {
	Tag      string
	Name     string
	Rank     int
	Trophies int
	IconID   int
	ClubName string
	Raw      jsonvalue.Value
}

// ProfilePageSource is the secondary HTML site.
type ProfilePageSource interface {
	FetchProfilePage(ctx context.Context, tag string, forceRefresh bool) (string, error)
	FetchRankedLeaderboardPage(ctx context.Context) (string, error)
}

// MirrorEndpoint is one (host, path shape) candidate. Label is safe to log.
type MirrorEndpoint struct {
	URL   string
	Label string
}

// RankedMirrorSource enumerates and queries the alternate mirror APIs.
type RankedMirrorSource interface {
	Endpoints(tag string) []MirrorEndpoint
	FetchJSON(ctx context.Context, endpoint MirrorEndpoint, forceRefresh bool) (jsonvalue.Value, error)
}

// TierListSource provides public brawler winrates.
type TierListSource interface {
	FetchBrawlerWinrates(ctx context.Context) ([]metatier.RatedBrawler, error)
}

// RankedSnapshotResolver enriches a profile whose payload carries no ranked score.
type RankedSnapshotResolver interface {
	Resolve(ctx context.Context, tag string, forceRefresh bool) RankedResolution
}
