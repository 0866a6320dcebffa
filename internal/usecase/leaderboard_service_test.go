package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	leaderboardmock "github.com/riskibarqy/brawl-tracker/internal/mocks/domain/leaderboard"
	playermock "github.com/riskibarqy/brawl-tracker/internal/mocks/domain/player"
	proplayermock "github.com/riskibarqy/brawl-tracker/internal/mocks/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func genuinePayload(tag, name string, extra string) []byte {
	return []byte(`{"tag":"` + tag + `","name":"` + name + `","trophies":50000,"highestTrophies":52000,` +
		`"brawlers":[{"id":16000000,"name":"SHELLY","rank":30,"trophies":900}]` + extra + `}`)
}

func TestLeaderboardService_RankedUnavailableWhenEverySourceIsEmpty(t *testing.T) {
	t.Parallel()

	players := playermock.NewRepository(t)
	players.
		On("ListRecent", mock.Anything, 500).
		Return([]player.Record{
			{Tag: "#P0LY8J2Q", Name: "NoHash", RawPayload: genuinePayload("#P0LY8J2Q", "NoHash", `,"rankedElo":9000`)},
			{Tag: "#Q2GCUV9L", Name: "Broken", LastSnapshotHash: "abc", RawPayload: []byte(`{"tag":"#Q2GCUV9L","rankedElo":9000}`)},
		}, nil).
		Times(2)

	provider := &stubProvider{rankings: []ExternalRanking{
		{Tag: "#8YJ0Q2PC", Name: "Kyro", Rank: 1, Trophies: 90000, Raw: jsonvalue.MustParse(`{"tag":"#8YJ0Q2PC","rank":1,"trophies":90000}`)},
	}}
	service := NewLeaderboardService(LeaderboardServiceConfig{
		Provider: provider,
		Pages:    &stubPageSource{leaderboard: "<html><body></body></html>"},
		Players:  players,
		Logger:   logging.NewNop(),
	})

	entries, _, err := service.GetTopRankedPlayers(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLeaderboardUnavailable))
	assert.Nil(t, entries)

	_, err = service.GetBoard(context.Background(), leaderboard.TypeRanked, 10)
	assert.True(t, errors.Is(err, ErrLeaderboardUnavailable))
}

func TestLeaderboardService_RankedFromScrapedPage(t *testing.T) {
	t.Parallel()

	page := `<table><tr><td>1</td><td>Nova</td><td>#P0LY8J2Q</td><td>11,820</td></tr>` +
		`<tr><td>2</td><td>Raven</td><td>#Q2GCUV9L</td><td>11040</td></tr></table>`
	service := NewLeaderboardService(LeaderboardServiceConfig{
		Pages:  &stubPageSource{leaderboard: page},
		Logger: logging.NewNop(),
	})

	entries, source, err := service.GetTopRankedPlayers(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, BoardSourceScrape, source)
	require.Len(t, entries, 2)
	assert.Equal(t, "#P0LY8J2Q", entries[0].Tag)
	assert.Equal(t, 11820, entries[0].Score)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardService_RankedFromTrackedPlayers(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	icon := 28000042
	players := playermock.NewRepository(t)
	players.
		On("ListRecent", mock.Anything, 50).
		Return([]player.Record{
			{Tag: "#P0LY8J2Q", Name: "Nova", LastSnapshotHash: "h1", LastSeenAt: now, IconID: &icon, RawPayload: genuinePayload("#P0LY8J2Q", "Nova", `,"rankedElo":9100`)},
			{Tag: "#Q2GCUV9L", Name: "Raven", LastSnapshotHash: "h2", LastSeenAt: now.Add(-time.Hour), RawPayload: genuinePayload("#Q2GCUV9L", "Raven", `,"rankedElo":9100`)},
			{Tag: "#8YJ0Q2PC", Name: "Kyro", LastSnapshotHash: "h3", LastSeenAt: now, RawPayload: genuinePayload("#8YJ0Q2PC", "Kyro", `,"rankedElo":10200`)},
			{Tag: "#2L8Q9JVC", Name: "Position", LastSnapshotHash: "h4", LastSeenAt: now, RawPayload: genuinePayload("#2L8Q9JVC", "Position", `,"rank":3`)},
			{Tag: "#HELLO", Name: "BadTag", LastSnapshotHash: "h5", LastSeenAt: now, RawPayload: genuinePayload("#HELLO", "BadTag", `,"rankedElo":12000`)},
			{Tag: "#9Q2PUV8C", Name: "Mismatch", LastSnapshotHash: "h6", LastSeenAt: now, RawPayload: genuinePayload("#Y8Q2LCVP", "Mismatch", `,"rankedElo":12000`)},
		}, nil).
		Once()

	service := NewLeaderboardService(LeaderboardServiceConfig{
		Pages:        &stubPageSource{boardErr: errors.New("status 403")},
		Players:      players,
		TrackedBatch: 50,
		Logger:       logging.NewNop(),
	})

	entries, source, err := service.GetTopRankedPlayers(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, BoardSourceTracked, source)
	require.Len(t, entries, 3)

	assert.Equal(t, "#8YJ0Q2PC", entries[0].Tag)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "#P0LY8J2Q", entries[1].Tag)
	assert.Equal(t, icon, entries[1].IconID)
	assert.Equal(t, "#Q2GCUV9L", entries[2].Tag)
	assert.Equal(t, leaderboard.DefaultIconID, entries[2].IconID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestLeaderboardService_RankedFromGlobalUsesCurrentKeysOnly(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{rankings: []ExternalRanking{
		{Tag: "#P0LY8J2Q", Name: "Nova", Raw: jsonvalue.MustParse(`{"tag":"#P0LY8J2Q","rank":1,"highestRankedElo":12000}`)},
		{Tag: "#Q2GCUV9L", Name: "Raven", Raw: jsonvalue.MustParse(`{"tag":"#Q2GCUV9L","rank":2,"rankedScore":"10 400"}`)},
	}}
	service := NewLeaderboardService(LeaderboardServiceConfig{Provider: provider, Logger: logging.NewNop()})

	entries, source, err := service.GetTopRankedPlayers(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, BoardSourceGlobal, source)
	require.Len(t, entries, 1)
	assert.Equal(t, "#Q2GCUV9L", entries[0].Tag)
	assert.Equal(t, 10400, entries[0].Score)
}

func TestLeaderboardService_WorldBoardEnrichesSuspiciousRows(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		rankings: []ExternalRanking{
			{Tag: "#P0LY8J2Q", Name: "nova?", Rank: 1, Trophies: 1},
			{Tag: "#Q2GCUV9L", Name: "Raven", Rank: 2, Trophies: 1},
		},
		players: map[string]ExternalPlayer{
			"#P0LY8J2Q": {Profile: player.Profile{Tag: "#P0LY8J2Q", Name: "Nova", Trophies: 98000, IconID: 28000077}},
		},
	}
	service := NewLeaderboardService(LeaderboardServiceConfig{Provider: provider, EnrichWorkers: 2, Logger: logging.NewNop()})

	entries, source, err := service.GetTopPlayers(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, BoardSourceLiveProfiles, source)
	require.Len(t, entries, 2)
	assert.Equal(t, "Nova", entries[0].Name)
	assert.Equal(t, 98000, entries[0].Score)
	assert.Equal(t, 28000077, entries[0].IconID)
	assert.Equal(t, "Raven", entries[1].Name)
	assert.Equal(t, 1, entries[1].Score)
	assert.Equal(t, leaderboard.DefaultIconID, entries[1].IconID)
}

func TestLeaderboardService_WorldBoardHealthyRowsAndErrors(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{rankings: []ExternalRanking{
		{Tag: "#P0LY8J2Q", Name: "Nova", Rank: 1, Trophies: 98000, IconID: 28000001},
	}}
	service := NewLeaderboardService(LeaderboardServiceConfig{Provider: provider, Logger: logging.NewNop()})

	entries, source, err := service.GetTopPlayers(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, BoardSourceAPI, source)
	require.Len(t, entries, 1)
	assert.Empty(t, provider.playerCalls)

	failing := NewLeaderboardService(LeaderboardServiceConfig{
		Provider: &stubProvider{rankingErr: ErrMaintenance},
		Logger:   logging.NewNop(),
	})
	_, _, err = failing.GetTopPlayers(context.Background(), 10)
	assert.True(t, errors.Is(err, ErrMaintenance))
}

func TestLeaderboardService_EsportMergesSeeds(t *testing.T) {
	t.Parallel()

	url := "https://matcherino.com/t/pro"
	pros := proplayermock.NewRepository(t)
	pros.
		On("ListTopByEarnings", mock.Anything, 4).
		Return([]proplayer.ProPlayer{
			{PlayerTag: "#Q2GCUV9L", DisplayName: "Raven Pro", Team: "", MatcherinoURL: &url, MatcherinoEarningsUSD: 99999.6, IsActive: true},
		}, nil).
		Once()
	provider := &stubProvider{players: map[string]ExternalPlayer{
		"#Q2GCUV9L": {Profile: player.Profile{Tag: "#Q2GCUV9L", IconID: 28000009}},
	}}
	service := NewLeaderboardService(LeaderboardServiceConfig{Provider: provider, Pros: pros, Logger: logging.NewNop()})

	entries, source := service.GetTopEsportLeaders(context.Background(), 4)
	assert.Equal(t, BoardSourceProPlayers, source)
	require.Len(t, entries, 4)
	assert.Equal(t, "Raven Pro", entries[0].DisplayName)
	assert.Equal(t, "Unknown", entries[0].Team)
	assert.Equal(t, 100000, entries[0].EarningsUSD)
	assert.Equal(t, 28000009, entries[0].IconID)
	assert.Equal(t, []string{"#P0LY8J2Q", "#8YJ0Q2PC", "#2L8Q9JVC"}, []string{entries[1].Tag, entries[2].Tag, entries[3].Tag})
}

func TestLeaderboardService_EsportFallsBackToSeeds(t *testing.T) {
	t.Parallel()

	pros := proplayermock.NewRepository(t)
	pros.On("ListTopByEarnings", mock.Anything, 10).Return(nil, errors.New("db down")).Once()
	service := NewLeaderboardService(LeaderboardServiceConfig{Pros: pros, Logger: logging.NewNop()})

	entries, source := service.GetTopEsportLeaders(context.Background(), 0)
	assert.Equal(t, BoardSourceSeed, source)
	assert.Len(t, entries, 10)
}

func TestLeaderboardService_GetBoardAttachesTrends(t *testing.T) {
	t.Parallel()

	repo := leaderboardmock.NewRepository(t)
	repo.
		On("ListByTags", mock.Anything, leaderboard.TypeEsport, []string{"#P0LY8J2Q", "#Q2GCUV9L"}).
		Return([]leaderboard.SnapshotRecord{{Type: leaderboard.TypeEsport, PlayerTag: "#Q2GCUV9L", LastPosition: 2}}, nil).
		Once()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(records []leaderboard.SnapshotRecord) bool {
			return len(records) == 2 && records[0].LastValue == 48500 && records[1].LastPosition == 2
		})).
		Return(nil).
		Once()

	service := NewLeaderboardService(LeaderboardServiceConfig{
		Trends: NewTrendEngine(repo, time.Second, logging.NewNop(), nil),
		Logger: logging.NewNop(),
	})

	board, err := service.GetBoard(context.Background(), leaderboard.TypeEsport, 2)
	require.NoError(t, err)
	assert.Equal(t, BoardSourceSeed, board.Source)
	assert.Equal(t, leaderboard.Trend{Direction: leaderboard.DirectionNew}, board.Trends["#P0LY8J2Q"])
	assert.Equal(t, leaderboard.Trend{Direction: leaderboard.DirectionStable, HasHistory: true}, board.Trends["#Q2GCUV9L"])

	_, err = service.GetBoard(context.Background(), leaderboard.Type("weekly"), 2)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
