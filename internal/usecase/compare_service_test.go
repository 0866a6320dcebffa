package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/brawl-tracker/internal/domain/analytics"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	playermock "github.com/riskibarqy/brawl-tracker/internal/mocks/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func comparePlayer(tag, name string, trophies int, raw string, club *player.Club) ExternalPlayer {
	return ExternalPlayer{Profile: player.Profile{
		Tag:             tag,
		Name:            name,
		Trophies:        trophies,
		HighestTrophies: trophies + 1000,
		Club:            club,
		Raw:             jsonvalue.MustParse(raw),
	}}
}

func sharedBattle(result string) player.Battle {
	return player.Battle{
		BattleTime: "20260301T101010.000Z",
		EventMode:  "brawlBall",
		EventMap:   "Super Beach",
		Body:       jsonvalue.MustParse(`{"mode":"brawlBall","type":"soloRanked","result":"` + result + `"}`),
	}
}

func clubName(name string) *string { return &name }

func TestCompareService_Compare(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		players: map[string]ExternalPlayer{
			"#2PP": comparePlayer("#2PP", "Left", 60000, `{"rankedElo":9000}`, &player.Club{Tag: "#CLUB", Name: "Alpha"}),
			"#8QQ": comparePlayer("#8QQ", "Right", 40000, `{"rankedElo":5000}`, nil),
		},
		battlelogs: map[string][]player.Battle{
			"#2PP": {sharedBattle("victory")},
			"#8QQ": {sharedBattle("defeat")},
		},
	}
	history := playermock.NewHistoryRepository(t)
	history.
		On("ListHistoryForTags", mock.Anything, []string{"#2PP", "#8QQ"}, 240).
		Return([]player.HistoryPoint{
			{PlayerTag: "#2PP", ClubName: clubName("Alpha")},
			{PlayerTag: "#8QQ", ClubName: clubName("Alpha")},
			{PlayerTag: "#8QQ", ClubName: clubName("Beta")},
		}, nil).
		Once()

	service := NewCompareService(provider, history, 0, logging.NewNop(), nil)
	result, err := service.Compare(context.Background(), "2pp", "#8qq")
	require.NoError(t, err)

	assert.Equal(t, 9000, result.Left.RankedElo)
	assert.Equal(t, 5000, result.Right.RankedElo)
	assert.Equal(t, 100.0, result.Left.Winrate25)
	require.NotNil(t, result.Left.TopRankedMap)
	assert.Equal(t, "Super Beach", *result.Left.TopRankedMap)
	assert.Nil(t, result.Left.TopTrophyMap)

	assert.Equal(t, analytics.FaceToFace{Matches: 1, LeftWins: 1}, result.FaceToFace)
	assert.Equal(t, []string{"Alpha"}, result.SharedClubs)
	assert.Equal(t, analytics.SideLeft, result.Favorite.Side)
	require.NotNil(t, result.Favorite.Tag)
	assert.Equal(t, "#2PP", *result.Favorite.Tag)
}

func TestCompareService_CompareDegradesWithoutHistory(t *testing.T) {
	t.Parallel()

	alpha := &player.Club{Tag: "#CLUB", Name: "Alpha"}
	provider := &stubProvider{players: map[string]ExternalPlayer{
		"#2PP": comparePlayer("#2PP", "Left", 40000, `{}`, alpha),
		"#8QQ": comparePlayer("#8QQ", "Right", 40000, `{}`, alpha),
	}}
	history := playermock.NewHistoryRepository(t)
	history.On("ListHistoryForTags", mock.Anything, mock.Anything, 240).Return(nil, errors.New("timeout")).Once()

	service := NewCompareService(provider, history, 0, logging.NewNop(), nil)
	result, err := service.Compare(context.Background(), "#2PP", "#8QQ")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, result.SharedClubs, "same current club counts as shared")
	assert.Equal(t, analytics.SideEven, result.Favorite.Side)
	assert.True(t, result.Favorite.SimilarStats)
	assert.Zero(t, result.FaceToFace.Matches)
}

func TestCompareService_CompareErrors(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{players: map[string]ExternalPlayer{
		"#2PP": comparePlayer("#2PP", "Left", 40000, `{}`, nil),
	}}
	service := NewCompareService(provider, nil, 0, logging.NewNop(), nil)

	_, err := service.Compare(context.Background(), "#2PP", " ")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = service.Compare(context.Background(), "#2PP", "#8QQ")
	assert.True(t, errors.Is(err, ErrNotFound))
}
