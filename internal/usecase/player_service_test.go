package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	playermock "github.com/riskibarqy/brawl-tracker/internal/mocks/domain/player"
	proplayermock "github.com/riskibarqy/brawl-tracker/internal/mocks/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	resolution RankedResolution
	calls      int
}

func (s *stubResolver) Resolve(context.Context, string, bool) RankedResolution {
	s.calls++
	return s.resolution
}

var playerServiceNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func externalPlayer(t *testing.T, tag, raw string) ExternalPlayer {
	t.Helper()
	value, err := jsonvalue.Parse([]byte(raw))
	require.NoError(t, err)
	return ExternalPlayer{
		Profile: player.Profile{
			Tag:             tag,
			Name:            "Tester",
			Trophies:        41000,
			HighestTrophies: 43000,
			Victories3v3:    12000,
			Brawlers: []player.Brawler{
				{ID: 16000000, Name: "SHELLY", Power: 11, Trophies: 1000, HighestTrophies: 1200},
			},
			Raw: value,
		},
		RawJSON: []byte(raw),
	}
}

func rankedBattle(result string) player.Battle {
	return player.Battle{
		BattleTime: "20260314T180000.000Z",
		EventMode:  "gemGrab",
		EventMap:   "Hard Rock Mine",
		Body:       jsonvalue.MustParse(`{"mode":"gemGrab","type":"soloRanked","result":"` + result + `"}`),
	}
}

func newPlayerServiceForTest(provider BrawlDataProvider, resolver RankedSnapshotResolver, players player.Repository, history player.HistoryRepository, pros proplayer.Repository) *PlayerService {
	cfg := PlayerServiceConfig{
		Provider: provider,
		Players:  players,
		History:  history,
		Pros:     pros,
		Now:      func() time.Time { return playerServiceNow },
		Logger:   logging.NewNop(),
	}
	if resolver != nil {
		cfg.Resolver = resolver
	}
	return NewPlayerService(cfg)
}

func TestPlayerService_GetPlayerBundlePersistsFirstSnapshot(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		players: map[string]ExternalPlayer{
			"#2PP": externalPlayer(t, "#2PP", `{"tag":"#2PP","name":"Tester","rankedElo":6400}`),
		},
		battlelogs: map[string][]player.Battle{
			"#2PP": {rankedBattle("victory"), rankedBattle("defeat"), rankedBattle("victory")},
		},
	}

	players := playermock.NewRepository(t)
	history := playermock.NewHistoryRepository(t)
	pros := proplayermock.NewRepository(t)

	players.On("GetByTag", mock.Anything, "#2PP").Return(player.Record{}, false, nil).Once()
	history.On("HasHistory", mock.Anything, "#2PP").Return(false, nil).Once()
	players.
		On("Upsert", mock.Anything, mock.MatchedBy(func(record player.Record) bool {
			return record.Tag == "#2PP" && record.LastSnapshotHash != "" && record.LastSeenAt.Equal(playerServiceNow)
		})).
		Return(nil).
		Once()
	history.
		On("UpsertAnalytics", mock.Anything, mock.MatchedBy(func(snapshot player.AnalyticsSnapshot) bool {
			return snapshot.PlayerTag == "#2PP" && snapshot.BattlelogSample == 3 && len(snapshot.MapsRanked) > 0
		})).
		Return(nil).
		Once()
	history.
		On("UpsertHistory", mock.Anything, mock.MatchedBy(func(point player.HistoryPoint) bool {
			return point.PlayerTag == "#2PP" && point.SnapshotDate.Equal(player.SnapshotDate(playerServiceNow))
		})).
		Return(nil).
		Once()
	history.On("ListHistory", mock.Anything, "#2PP", 120).Return([]player.HistoryPoint{}, nil).Once()
	pros.
		On("GetActiveByTag", mock.Anything, "#2PP").
		Return(proplayer.ProPlayer{PlayerTag: "#2PP", DisplayName: "Tester", Team: "Nova", IsActive: true}, true, nil).
		Once()

	service := newPlayerServiceForTest(provider, nil, players, history, pros)
	bundle, err := service.GetPlayerBundle(context.Background(), " 2pp ", false)
	require.NoError(t, err)

	assert.Equal(t, "#2PP", bundle.Tag)
	assert.Equal(t, 6400, bundle.RankedElo)
	assert.Nil(t, bundle.RankedSnapshot)
	assert.True(t, bundle.Changed)
	assert.True(t, bundle.IsProVerified)
	require.NotNil(t, bundle.ProProfile)
	assert.Equal(t, "Nova", bundle.ProProfile.Team)
	assert.Equal(t, 3, bundle.Winrates25.Overall.Matches)

	require.Len(t, bundle.History, 1)
	require.NotNil(t, bundle.History[0].ClubName)
	assert.Equal(t, "Bienvenue", *bundle.History[0].ClubName)
	assert.Equal(t, 41000, bundle.History[0].Trophies)
}

func TestPlayerService_GetPlayerBundleUnchangedSnapshotSkipsHistoryWrite(t *testing.T) {
	t.Parallel()

	ext := externalPlayer(t, "#2PP", `{"tag":"#2PP","name":"Tester"}`)
	hash, err := player.SnapshotHash(ext.Profile)
	require.NoError(t, err)

	provider := &stubProvider{players: map[string]ExternalPlayer{"#2PP": ext}}
	players := playermock.NewRepository(t)
	history := playermock.NewHistoryRepository(t)

	players.
		On("GetByTag", mock.Anything, "#2PP").
		Return(player.Record{Tag: "#2PP", LastSnapshotHash: hash, RawPayload: []byte(`{"rankedElo":5100}`)}, true, nil).
		Once()
	history.On("HasHistory", mock.Anything, "#2PP").Return(true, nil).Once()
	players.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()
	history.On("UpsertAnalytics", mock.Anything, mock.Anything).Return(nil).Once()
	history.
		On("ListHistory", mock.Anything, "#2PP", 120).
		Return([]player.HistoryPoint{{PlayerTag: "#2PP", Trophies: 40000}, {PlayerTag: "#2PP", Trophies: 41000}}, nil).
		Once()

	resolver := &stubResolver{}
	service := newPlayerServiceForTest(provider, resolver, players, history, nil)
	bundle, err := service.GetPlayerBundle(context.Background(), "#2PP", false)
	require.NoError(t, err)

	assert.False(t, bundle.Changed)
	assert.Equal(t, 5100, bundle.RankedElo, "stored score backs a payload without ranked data")
	assert.Zero(t, resolver.calls)
	assert.Len(t, bundle.History, 2)
	history.AssertNotCalled(t, "UpsertHistory", mock.Anything, mock.Anything)
}

func TestPlayerService_GetPlayerBundleStoreFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		players: map[string]ExternalPlayer{"#2PP": externalPlayer(t, "#2PP", `{"tag":"#2PP","name":"Tester"}`)},
	}
	players := playermock.NewRepository(t)
	history := playermock.NewHistoryRepository(t)
	storeErr := errors.New("connection refused")

	players.On("GetByTag", mock.Anything, "#2PP").Return(player.Record{}, false, storeErr).Once()
	history.On("HasHistory", mock.Anything, "#2PP").Return(false, storeErr).Once()
	history.On("ListHistory", mock.Anything, "#2PP", 120).Return(nil, storeErr).Once()

	label := "Mythic II"
	resolver := &stubResolver{resolution: RankedResolution{
		Snapshot: &ranked.Snapshot{Score: 7300, RankLabel: &label, Source: ranked.SourceMirror, Origin: "mirror.example/players/#2PP"},
	}}
	service := newPlayerServiceForTest(provider, resolver, players, history, nil)
	bundle, err := service.GetPlayerBundle(context.Background(), "#2PP", true)
	require.NoError(t, err)

	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 7300, bundle.RankedElo)
	assert.Equal(t, "Mythic II", bundle.RankLabel)
	require.NotNil(t, bundle.RankedSnapshot)
	assert.Equal(t, ranked.SourceMirror, bundle.RankedSnapshot.Source)
	require.Len(t, bundle.History, 1)
	assert.False(t, bundle.IsProVerified)
	players.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPlayerService_GetPlayerBundleUpstreamErrors(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		players:   map[string]ExternalPlayer{"#2PP": externalPlayer(t, "#2PP", `{"tag":"#2PP"}`)},
		battleErr: ErrMaintenance,
	}
	service := newPlayerServiceForTest(provider, nil, nil, nil, nil)

	_, err := service.GetPlayerBundle(context.Background(), "#2PP", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaintenance))

	_, err = service.GetPlayerBundle(context.Background(), "#9999", false)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = service.GetPlayerBundle(context.Background(), "  ", false)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPlayerService_GetRankedLookup(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{players: map[string]ExternalPlayer{
		"#2PP": externalPlayer(t, "#2PP", `{"tag":"#2PP","rankedElo":6100,"highestRankedElo":6900}`),
		"#8QQ": externalPlayer(t, "#8QQ", `{"tag":"#8QQ"}`),
	}}
	peak := 9100
	resolver := &stubResolver{resolution: RankedResolution{
		Snapshot: &ranked.Snapshot{PeakScore: &peak, Source: ranked.SourceScrape, Origin: "profile/8QQ"},
		Attempts: []ResolveAttempt{{Source: ranked.SourceScrape, Target: "profile/8QQ", Outcome: OutcomeHit}},
	}}
	service := newPlayerServiceForTest(provider, resolver, nil, nil, nil)

	primary, err := service.GetRankedLookup(context.Background(), "2pp", false)
	require.NoError(t, err)
	assert.Equal(t, 6100, primary.Score)
	assert.Equal(t, ranked.SourcePrimary, primary.Source)
	require.NotNil(t, primary.PeakScore)
	assert.Equal(t, 6900, *primary.PeakScore)
	assert.Empty(t, primary.Attempts)
	assert.Zero(t, resolver.calls)

	fallback, err := service.GetRankedLookup(context.Background(), "#8QQ", false)
	require.NoError(t, err)
	assert.Equal(t, 9100, fallback.Score)
	assert.Equal(t, ranked.SourceScrape, fallback.Source)
	assert.Equal(t, ranked.FormatRank(9100), fallback.RankLabel)
	assert.Len(t, fallback.Attempts, 1)

	_, err = service.GetRankedLookup(context.Background(), "#UNKNOWN", false)
	assert.True(t, errors.Is(err, ErrNotFound))
}
