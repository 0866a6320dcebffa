package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/platform/cache"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
)

const (
	defaultTierListTTL = 30 * time.Minute
	tierListCacheKey   = "tierlist"
	brawlerCatalogKey  = "brawlers"
)

type MetaServiceConfig struct {
	TierList    TierListSource
	Provider    BrawlDataProvider
	Tiers       metatier.Repository
	TierListTTL time.Duration
	Logger      *logging.Logger
}

// MetaService serves the public tier list, the brawler catalog and the admin-curated tiers.
type MetaService struct {
	tierList TierListSource
	provider BrawlDataProvider
	tiers    metatier.Repository
	rated    *cache.Store[[]metatier.RatedBrawler]
	catalog  *cache.Store[[]metatier.CatalogBrawler]
	logger   *logging.Logger
}

func NewMetaService(cfg MetaServiceConfig) *MetaService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.TierListTTL
	if ttl <= 0 {
		ttl = defaultTierListTTL
	}
	return &MetaService{
		tierList: cfg.TierList,
		provider: cfg.Provider,
		tiers:    cfg.Tiers,
		rated:    cache.NewStore[[]metatier.RatedBrawler](ttl),
		catalog:  cache.NewStore[[]metatier.CatalogBrawler](ttl),
		logger:   logger,
	}
}

func (s *MetaService) GetTierList(ctx context.Context) ([]metatier.RatedBrawler, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetaService.GetTierList")
	defer span.End()

	if s.tierList == nil {
		return nil, fmt.Errorf("%w: tier list source is not configured", ErrDependencyUnavailable)
	}
	rated, err := s.rated.GetOrLoad(ctx, tierListCacheKey, s.tierList.FetchBrawlerWinrates)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch tier list: %v", ErrDependencyUnavailable, err)
	}
	return rated, nil
}

func (s *MetaService) ListBrawlers(ctx context.Context) ([]metatier.CatalogBrawler, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetaService.ListBrawlers")
	defer span.End()

	brawlers, err := s.catalog.GetOrLoad(ctx, brawlerCatalogKey, s.provider.GetBrawlers)
	if err != nil {
		return nil, fmt.Errorf("list brawlers: %w", err)
	}
	return brawlers, nil
}

// ListTiers returns curated entries, optionally for one mode.
func (s *MetaService) ListTiers(ctx context.Context, mode string) ([]metatier.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetaService.ListTiers")
	defer span.End()

	entries, err := s.tiers.List(ctx, strings.TrimSpace(mode))
	if err != nil {
		return nil, fmt.Errorf("list meta tiers: %w", err)
	}
	return entries, nil
}

func (s *MetaService) UpsertTier(ctx context.Context, entry metatier.Entry) (metatier.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetaService.UpsertTier")
	defer span.End()

	entry.BrawlerName = strings.TrimSpace(entry.BrawlerName)
	entry.Tier = metatier.Tier(strings.ToUpper(strings.TrimSpace(string(entry.Tier))))
	entry.Mode = strings.TrimSpace(entry.Mode)
	if entry.Mode == "" {
		entry.Mode = metatier.DefaultMode
	}
	if err := entry.Validate(); err != nil {
		return metatier.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.tiers.Upsert(ctx, entry)
	if err != nil {
		return metatier.Entry{}, fmt.Errorf("upsert meta tier: %w", err)
	}
	s.logger.InfoContext(ctx, "meta tier saved", "brawler", saved.BrawlerName, "tier", saved.Tier, "mode", saved.Mode)
	return saved, nil
}

func (s *MetaService) DeleteTier(ctx context.Context, id string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetaService.DeleteTier")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: tier id is required", ErrInvalidInput)
	}
	deleted, err := s.tiers.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete meta tier: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: meta tier %s", ErrNotFound, id)
	}
	return nil
}
