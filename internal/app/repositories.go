package app

import (
	"github.com/riskibarqy/brawl-tracker/internal/config"
	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/domain/searchhistory"
	repocache "github.com/riskibarqy/brawl-tracker/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/brawl-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/brawl-tracker/internal/infrastructure/repository/postgres"
	idgen "github.com/riskibarqy/brawl-tracker/internal/platform/id"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
)

type repositories struct {
	players       player.Repository
	history       player.HistoryRepository
	leaderboards  leaderboard.Repository
	pros          proplayer.Repository
	metaTiers     metatier.Repository
	searchHistory searchhistory.Repository
	close         func() error
}

// buildRepositories selects postgres when DB_URL is set and the in-memory store
// otherwise. Pro players and meta tiers are read-mostly and sit behind a cache.
func buildRepositories(cfg config.Config, logger *logging.Logger) repositories {
	ids := idgen.NewUUIDGenerator()

	var repos repositories
	if cfg.InMemory() {
		logger.Warn("DB_URL not set; using in-memory repositories")
		repos = repositories{
			players:       memory.NewPlayerRepository(),
			history:       memory.NewHistoryRepository(),
			leaderboards:  memory.NewLeaderboardRepository(),
			pros:          memory.NewProPlayerRepository(),
			metaTiers:     memory.NewMetaTierRepository(ids),
			searchHistory: memory.NewSearchHistoryRepository(),
			close:         func() error { return nil },
		}
	} else {
		conn := postgres.NewConnector(postgres.ConnectorConfig{
			URL:                         cfg.DBURL,
			DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
			Logger:                      logger,
		})
		repos = repositories{
			players:       postgres.NewPlayerRepository(conn),
			history:       postgres.NewHistoryRepository(conn),
			leaderboards:  postgres.NewLeaderboardRepository(conn),
			pros:          postgres.NewProPlayerRepository(conn),
			metaTiers:     postgres.NewMetaTierRepository(conn, ids),
			searchHistory: postgres.NewSearchHistoryRepository(conn),
			close:         conn.Close,
		}
	}

	if cfg.CacheEnabled {
		repos.pros = repocache.NewProPlayerRepository(repos.pros, repocache.WithTTL(cfg.CacheTTL))
		repos.metaTiers = repocache.NewMetaTierRepository(repos.metaTiers, repocache.WithTTL(cfg.CacheTTL))
	}
	return repos
}
