package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/brawl-tracker/internal/platform/id"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "admin-secret"

type fakeProvider struct {
	players map[string]string
}

func (f *fakeProvider) GetPlayer(_ context.Context, tag string, _ bool) (usecase.ExternalPlayer, error) {
	tag = ranked.NormalizeTag(tag)
	raw, ok := f.players[tag]
	if !ok {
		return usecase.ExternalPlayer{}, usecase.ErrNotFound
	}
	doc := jsonvalue.MustParse(raw)
	return usecase.ExternalPlayer{
		Profile: player.Profile{
			Tag:             tag,
			Name:            doc.Get("name").Text(),
			Trophies:        intOf(doc.Get("trophies")),
			HighestTrophies: intOf(doc.Get("highestTrophies")),
			Victories3v3:    intOf(doc.Get("3vs3Victories")),
			Raw:             doc,
		},
		RawJSON: []byte(raw),
	}, nil
}

func (f *fakeProvider) GetBattlelog(context.Context, string, int, bool) ([]player.Battle, error) {
	return []player.Battle{}, nil
}

func (f *fakeProvider) GetGlobalPlayerRankings(context.Context, int) ([]usecase.ExternalRanking, error) {
	return []usecase.ExternalRanking{}, nil
}

func (f *fakeProvider) GetBrawlers(context.Context) ([]metatier.CatalogBrawler, error) {
	return []metatier.CatalogBrawler{{ID: 16000000, Name: "SHELLY"}}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	provider := &fakeProvider{players: map[string]string{
		"#ABC": `{"tag":"#ABC","name":"Tester","trophies":41000,"highestTrophies":43000,"3vs3Victories":900,"rankedElo":8123}`,
	}}
	history := memory.NewHistoryRepository()
	pros := memory.NewProPlayerRepository(proplayer.ProPlayer{
		PlayerTag: "#PRO1", DisplayName: "Pro One", Team: "Team", IsActive: true, MatcherinoEarningsUSD: 1200,
	})

	handler := NewHandler(
		usecase.NewPlayerService(usecase.PlayerServiceConfig{
			Provider: provider,
			Players:  memory.NewPlayerRepository(),
			History:  history,
			Pros:     pros,
			Logger:   logger,
		}),
		usecase.NewLeaderboardService(usecase.LeaderboardServiceConfig{
			Provider: provider,
			Pros:     pros,
			Trends:   usecase.NewTrendEngine(memory.NewLeaderboardRepository(), 0, logger, nil),
			Logger:   logger,
		}),
		usecase.NewCompareService(provider, history, 0, logger, nil),
		usecase.NewMetaService(usecase.MetaServiceConfig{
			Provider: provider,
			Tiers:    memory.NewMetaTierRepository(id.NewUUIDGenerator()),
			Logger:   logger,
		}),
		usecase.NewSearchHistoryService(memory.NewSearchHistoryRepository(), logger, nil),
		usecase.NewCoachService(provider),
		logger,
	)
	return NewRouter(handler, RouterConfig{
		Logger:     logger,
		Metrics:    metrics.NewManager(),
		AdminToken: testAdminToken,
	})
}

func serve(t *testing.T, router http.Handler, method, target, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "expected object data, got %v", envelope)
	return data
}

func TestRouter_GetPlayer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, envelope := serve(t, router, http.MethodGet, "/v1/players/%23abc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, "#ABC", data["tag"])
	assert.EqualValues(t, 8123, data["rankedElo"])
	history, _ := data["history"].([]any)
	assert.Len(t, history, 1)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRouter_GetPlayerNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, envelope := serve(t, router, http.MethodGet, "/v1/players/%23NOPE", "", map[string]string{requestIDHeader: "req-1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(requestIDHeader))

	errorObj, _ := envelope["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errorObj["status"])
}

func TestRouter_GetPlayerRanked(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, envelope := serve(t, router, http.MethodGet, "/v1/players/ABC/ranked", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.EqualValues(t, 8123, data["score"])
	assert.Equal(t, string(ranked.SourcePrimary), data["source"])
}

func TestRouter_MetaTiersRequireAdminToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	body := `{"brawlerName":"Shelly","tier":"a"}`

	rec, _ := serve(t, router, http.MethodPut, "/v1/meta/tiers", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, envelope := serve(t, router, http.MethodPut, "/v1/meta/tiers", body, map[string]string{adminTokenHeader: testAdminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	saved := dataOf(t, envelope)
	assert.Equal(t, "A", saved["tier"])
	assert.Equal(t, metatier.DefaultMode, saved["mode"])

	rec, envelope = serve(t, router, http.MethodGet, "/v1/meta/tiers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items, _ := envelope["data"].([]any)
	assert.Len(t, items, 1)

	entryID, _ := saved["id"].(string)
	rec, _ = serve(t, router, http.MethodDelete, "/v1/meta/tiers/"+entryID, "", map[string]string{adminTokenHeader: testAdminToken})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = serve(t, router, http.MethodDelete, "/v1/meta/tiers/"+entryID, "", map[string]string{adminTokenHeader: testAdminToken})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(t, router, http.MethodPut, "/v1/meta/tiers", `{"brawlerName":"Shelly","tier":"Z"}`, map[string]string{adminTokenHeader: testAdminToken})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SearchHistory(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, _ := serve(t, router, http.MethodPost, "/v1/search-history", `{"sessionId":"bad id!","tag":"ABC"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, envelope := serve(t, router, http.MethodPost, "/v1/search-history", `{"sessionId":"s-1","tag":"abc","playerName":"Tester"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items, _ := dataOf(t, envelope)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "#ABC", items[0].(map[string]any)["tag"])

	rec, envelope = serve(t, router, http.MethodGet, "/v1/search-history?sessionId=unknown", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items, _ = dataOf(t, envelope)["items"].([]any)
	assert.Empty(t, items)
}

func TestRouter_Coach(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	payload := `{"player":{"tag":"#XYZ","name":"Coachee","trophies":500,"3vs3Victories":10,"soloVictories":40,"brawlers":[{"id":1,"name":"SHELLY","power":5,"trophies":100,"highestTrophies":400}]}}`
	rec, envelope := serve(t, router, http.MethodPost, "/v1/coach", payload, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, usecase.CoachModel, data["model"])
	tips, _ := data["tips"].([]any)
	assert.Len(t, tips, 3)

	rec, _ = serve(t, router, http.MethodPost, "/v1/coach", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Leaderboards(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, _ := serve(t, router, http.MethodGet, "/v1/leaderboards/galaxy", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, router, http.MethodGet, "/v1/leaderboards/esport?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, envelope := serve(t, router, http.MethodGet, "/v1/leaderboards/esport?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataOf(t, envelope)
	assert.Equal(t, "esport", data["type"])
	pros, _ := data["pros"].([]any)
	require.Len(t, pros, 1)
	first := pros[0].(map[string]any)
	assert.Equal(t, "#PRO1", first["tag"])
	trend, _ := first["trend"].(map[string]any)
	assert.Equal(t, "new", trend["direction"])
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, _ := serve(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
