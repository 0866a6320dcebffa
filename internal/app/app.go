package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/brawl-tracker/internal/config"
	"github.com/riskibarqy/brawl-tracker/internal/interfaces/httpapi"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
)

const metricsNamespace = "brawl_tracker"

// NewHTTPServer wires repositories, upstream clients and services behind the HTTP
// router. The returned close func releases the database pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var m *metrics.Manager
	if cfg.MetricsEnabled {
		m = metrics.NewManager(metrics.WithNamespace(metricsNamespace), metrics.WithRuntimeCollectors())
	}

	repos := buildRepositories(cfg, logger)
	sources := buildUpstreams(cfg, logger, m)

	resolver := usecase.NewRankedResolver(usecase.RankedResolverConfig{
		Pages:          sources.pages,
		Mirrors:        sources.mirrors,
		AttemptTimeout: cfg.RankedAttemptTimeout,
		Logger:         logger.Named("resolver"),
		Metrics:        m,
	})
	playerSvc := usecase.NewPlayerService(usecase.PlayerServiceConfig{
		Provider:     sources.provider,
		Resolver:     resolver,
		Players:      repos.players,
		History:      repos.history,
		Pros:         repos.pros,
		StoreTimeout: cfg.DBOperationTimeout,
		Logger:       logger.Named("player"),
		Metrics:      m,
	})
	leaderboardSvc := usecase.NewLeaderboardService(usecase.LeaderboardServiceConfig{
		Provider:      sources.provider,
		Pages:         sources.pages,
		Players:       repos.players,
		Pros:          repos.pros,
		Trends:        usecase.NewTrendEngine(repos.leaderboards, cfg.DBOperationTimeout, logger.Named("trends"), m),
		TrackedBatch:  cfg.LeaderboardTrackedBatch,
		EnrichWorkers: cfg.LeaderboardEnrichWorkers,
		Logger:        logger.Named("leaderboard"),
		Metrics:       m,
	})
	compareSvc := usecase.NewCompareService(sources.provider, repos.history, cfg.DBOperationTimeout, logger.Named("compare"), m)
	metaSvc := usecase.NewMetaService(usecase.MetaServiceConfig{
		TierList:    sources.tierList,
		Provider:    sources.provider,
		Tiers:       repos.metaTiers,
		TierListTTL: cfg.TierListCacheTTL,
		Logger:      logger.Named("meta"),
	})
	searchHistorySvc := usecase.NewSearchHistoryService(repos.searchHistory, logger.Named("search_history"), m)
	coachSvc := usecase.NewCoachService(sources.provider)

	handler := httpapi.NewHandler(playerSvc, leaderboardSvc, compareSvc, metaSvc, searchHistorySvc, coachSvc, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Logger:             logger,
		Metrics:            m,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
	})
	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN not set; admin routes are disabled")
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return server, repos.close, nil
}
