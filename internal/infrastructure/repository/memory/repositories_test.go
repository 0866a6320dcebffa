package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/domain/searchhistory"
	idgen "github.com/riskibarqy/brawl-tracker/internal/platform/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_UpsertKeepsCreatedAt(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewPlayerRepository(player.Record{Tag: "#A", Name: "old", CreatedAt: created, LastSeenAt: created})
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, player.Record{Tag: "#A", Name: "new", LastSeenAt: created.Add(time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, player.Record{Tag: "#B", Name: "other", LastSeenAt: created.Add(2 * time.Hour)}))

	record, ok, err := repo.GetByTag(ctx, "#A")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", record.Name)
	assert.Equal(t, created, record.CreatedAt)

	recent, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "#B", recent[0].Tag)
}

func TestHistoryRepository_OnePointPerDay(t *testing.T) {
	t.Parallel()

	repo := NewHistoryRepository()
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	has, err := repo.HasHistory(ctx, "#A")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.UpsertHistory(ctx, player.HistoryPoint{PlayerTag: "#A", SnapshotDate: day, Trophies: 100}))
	require.NoError(t, repo.UpsertHistory(ctx, player.HistoryPoint{PlayerTag: "#A", SnapshotDate: day.Add(5 * time.Hour), Trophies: 120}))
	require.NoError(t, repo.UpsertHistory(ctx, player.HistoryPoint{PlayerTag: "#A", SnapshotDate: day.AddDate(0, 0, 1), Trophies: 150}))
	require.NoError(t, repo.UpsertHistory(ctx, player.HistoryPoint{PlayerTag: "#B", SnapshotDate: day, Trophies: 90}))

	points, err := repo.ListHistory(ctx, "#A", 10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 120, points[0].Trophies)
	assert.Equal(t, 150, points[1].Trophies)

	latest, err := repo.ListHistory(ctx, "#A", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, 150, latest[0].Trophies)

	shared, err := repo.ListHistoryForTags(ctx, []string{"#A", "#B"}, 10)
	require.NoError(t, err)
	require.Len(t, shared, 3)
	assert.Equal(t, "#A", shared[0].PlayerTag)

	require.NoError(t, repo.UpsertAnalytics(ctx, player.AnalyticsSnapshot{PlayerTag: "#A", SnapshotDate: day, BattlelogSample: 25}))
	snapshot, ok, err := repo.GetAnalytics(ctx, "#A", day.Add(3*time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 25, snapshot.BattlelogSample)
}

func TestLeaderboardRepository_UpsertAndList(t *testing.T) {
	t.Parallel()

	repo := NewLeaderboardRepository()
	ctx := context.Background()

	records := []leaderboard.SnapshotRecord{
		{Type: leaderboard.TypeRanked, PlayerTag: "#A", LastPosition: 1, LastValue: 9000},
		{Type: leaderboard.TypeRanked, PlayerTag: "#B", LastPosition: 2, LastValue: 8800},
	}
	require.NoError(t, repo.Upsert(ctx, records))

	got, err := repo.ListByTags(ctx, leaderboard.TypeRanked, []string{"#B", "#Z"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].LastPosition)

	err = repo.Upsert(ctx, []leaderboard.SnapshotRecord{{Type: leaderboard.TypeRanked, PlayerTag: "#C", LastPosition: 0}})
	assert.Error(t, err)
}

func TestProPlayerRepository_ActiveOnly(t *testing.T) {
	t.Parallel()

	repo := NewProPlayerRepository(
		proplayer.ProPlayer{PlayerTag: "#A", DisplayName: "A", IsActive: true, MatcherinoEarningsUSD: 100},
		proplayer.ProPlayer{PlayerTag: "#B", DisplayName: "B", IsActive: false, MatcherinoEarningsUSD: 900},
		proplayer.ProPlayer{PlayerTag: "#C", DisplayName: "C", IsActive: true, MatcherinoEarningsUSD: 500},
	)
	ctx := context.Background()

	_, ok, err := repo.GetActiveByTag(ctx, "#B")
	require.NoError(t, err)
	assert.False(t, ok)

	top, err := repo.ListTopByEarnings(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "#C", top[0].PlayerTag)
}

func TestMetaTierRepository_UpsertListDelete(t *testing.T) {
	t.Parallel()

	repo := NewMetaTierRepository(idgen.NewUUIDGenerator())
	ctx := context.Background()

	first, err := repo.Upsert(ctx, metatier.Entry{BrawlerName: "Shelly", Tier: metatier.TierB, Mode: metatier.DefaultMode})
	require.NoError(t, err)
	assert.True(t, idgen.Valid(first.ID))

	updated, err := repo.Upsert(ctx, metatier.Entry{BrawlerName: "Shelly", Tier: metatier.TierS, Mode: metatier.DefaultMode})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)

	_, err = repo.Upsert(ctx, metatier.Entry{BrawlerName: "Colt", Tier: metatier.TierA, Mode: "gemGrab"})
	require.NoError(t, err)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Shelly", all[0].BrawlerName)

	global, err := repo.List(ctx, metatier.DefaultMode)
	require.NoError(t, err)
	assert.Len(t, global, 1)

	deleted, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSearchHistoryRepository_LatestFirst(t *testing.T) {
	t.Parallel()

	repo := NewSearchHistoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, searchhistory.Item{SessionID: "s1", PlayerTag: "#A", UpdatedAt: base}))
	require.NoError(t, repo.Upsert(ctx, searchhistory.Item{SessionID: "s1", PlayerTag: "#B", UpdatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Upsert(ctx, searchhistory.Item{SessionID: "s1", PlayerTag: "#A", UpdatedAt: base.Add(2 * time.Minute)}))
	require.NoError(t, repo.Upsert(ctx, searchhistory.Item{SessionID: "s2", PlayerTag: "#C", UpdatedAt: base}))

	items, err := repo.ListLatest(ctx, "s1", searchhistory.MaxItems)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "#A", items[0].PlayerTag)
	assert.Equal(t, "#B", items[1].PlayerTag)
}
