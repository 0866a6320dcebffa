package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	leaderboardmock "github.com/riskibarqy/brawl-tracker/internal/mocks/domain/leaderboard"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTrendEngine_ComputesFromPriorStateThenUpserts(t *testing.T) {
	t.Parallel()

	repo := leaderboardmock.NewRepository(t)
	var order []string
	repo.
		On("ListByTags", mock.Anything, leaderboard.TypeRanked, []string{"#AAA", "#BBB", "#CCC"}).
		Run(func(mock.Arguments) { order = append(order, "read") }).
		Return([]leaderboard.SnapshotRecord{
			{Type: leaderboard.TypeRanked, PlayerTag: "#BBB", LastPosition: 5},
			{Type: leaderboard.TypeRanked, PlayerTag: "#CCC", LastPosition: 3},
		}, nil).
		Once()
	repo.
		On("Upsert", mock.Anything, []leaderboard.SnapshotRecord{
			{Type: leaderboard.TypeRanked, PlayerTag: "#AAA", LastPosition: 1, LastValue: 11000},
			{Type: leaderboard.TypeRanked, PlayerTag: "#BBB", LastPosition: 2, LastValue: 10500},
			{Type: leaderboard.TypeRanked, PlayerTag: "#CCC", LastPosition: 3, LastValue: 9000},
		}).
		Run(func(mock.Arguments) { order = append(order, "write") }).
		Return(nil).
		Once()

	engine := NewTrendEngine(repo, 0, logging.NewNop(), nil)
	trends := engine.CompareAndPersist(context.Background(), leaderboard.TypeRanked, []leaderboard.Ranked{
		{Tag: "#aaa", Value: 11000},
		{Tag: "%23BBB", Value: 10500},
		{Tag: "#CCC", Value: 9000},
	})

	assert.Equal(t, []string{"read", "write"}, order)
	assert.Equal(t, leaderboard.Trend{Direction: leaderboard.DirectionNew, Places: 0, HasHistory: false}, trends["#AAA"])
	assert.Equal(t, leaderboard.Trend{Direction: leaderboard.DirectionUp, Places: 3, HasHistory: true}, trends["#BBB"])
	assert.Equal(t, leaderboard.Trend{Direction: leaderboard.DirectionStable, Places: 0, HasHistory: true}, trends["#CCC"])
}

func TestTrendEngine_StoreFailuresYieldEmptyTrends(t *testing.T) {
	t.Parallel()

	manager := metrics.NewManager()
	readFails := leaderboardmock.NewRepository(t)
	readFails.On("ListByTags", mock.Anything, leaderboard.TypeWorld, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	engine := NewTrendEngine(readFails, 0, logging.NewNop(), manager)
	trends := engine.CompareAndPersist(context.Background(), leaderboard.TypeWorld, []leaderboard.Ranked{{Tag: "#AAA", Value: 1}})
	assert.Empty(t, trends)
	assert.NotNil(t, trends)

	writeFails := leaderboardmock.NewRepository(t)
	writeFails.On("ListByTags", mock.Anything, leaderboard.TypeWorld, mock.Anything).Return(nil, nil).Once()
	writeFails.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("read only")).Once()

	engine = NewTrendEngine(writeFails, 0, logging.NewNop(), manager)
	assert.Empty(t, engine.CompareAndPersist(context.Background(), leaderboard.TypeWorld, []leaderboard.Ranked{{Tag: "#AAA", Value: 1}}))
	expected := `
# HELP brawl_tracker_leaderboard_trend_store_errors_total Trend computations that fell back to an empty map.
# TYPE brawl_tracker_leaderboard_trend_store_errors_total counter
brawl_tracker_leaderboard_trend_store_errors_total{type="world"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(manager.Registry(), strings.NewReader(expected), "brawl_tracker_leaderboard_trend_store_errors_total"))

	var disabled *TrendEngine
	assert.Empty(t, disabled.CompareAndPersist(context.Background(), leaderboard.TypeWorld, []leaderboard.Ranked{{Tag: "#AAA"}}))
}
