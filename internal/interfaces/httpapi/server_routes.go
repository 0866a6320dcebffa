package httpapi

import (
	"net/http"

	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Manager, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{tag}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{tag}/ranked", handler.GetPlayerRanked)
	mux.HandleFunc("GET /v1/compare", handler.ComparePlayers)
	mux.HandleFunc("GET /v1/leaderboards/{type}", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/brawlers", handler.ListBrawlers)
	mux.HandleFunc("GET /v1/meta/tierlist", handler.GetTierList)
	mux.HandleFunc("GET /v1/meta/tiers", handler.ListMetaTiers)
	mux.HandleFunc("GET /v1/search-history", handler.ListSearchHistory)
	mux.HandleFunc("POST /v1/search-history", handler.RecordSearch)
	mux.HandleFunc("POST /v1/coach", handler.CoachTips)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("PUT /v1/meta/tiers", RequireAdminToken(adminToken, http.HandlerFunc(handler.UpsertMetaTier)))
	mux.Handle("DELETE /v1/meta/tiers/{id}", RequireAdminToken(adminToken, http.HandlerFunc(handler.DeleteMetaTier)))
}
