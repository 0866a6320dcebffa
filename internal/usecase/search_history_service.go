package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/domain/searchhistory"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
)

const (
	storeOpReadSearchHistory   = "read_search_history"
	storeOpUpsertSearchHistory = "upsert_search_history"
)

// SearchHistoryResult carries the items plus a warning when the store was degraded.
type SearchHistoryResult struct {
	Items   []searchhistory.Item
	Warning string
}

type SearchHistoryService struct {
	repo    searchhistory.Repository
	now     func() time.Time
	logger  *logging.Logger
	metrics *metrics.Manager
}

func NewSearchHistoryService(repo searchhistory.Repository, logger *logging.Logger, m *metrics.Manager) *SearchHistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SearchHistoryService{repo: repo, now: time.Now, logger: logger, metrics: m}
}

// List never fails: an invalid session yields no items and a read error a warning.
func (s *SearchHistoryService) List(ctx context.Context, rawSessionID string) SearchHistoryResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SearchHistoryService.List")
	defer span.End()

	sessionID, ok := searchhistory.CleanSessionID(rawSessionID)
	if !ok || s.repo == nil {
		return SearchHistoryResult{Items: []searchhistory.Item{}}
	}
	items, err := s.repo.ListLatest(ctx, sessionID, searchhistory.MaxItems)
	if err != nil {
		s.metrics.IncStoreSkip(storeOpReadSearchHistory)
		s.logger.WarnContext(ctx, "search history read failed", "session_id", sessionID, "error", err)
		return SearchHistoryResult{Items: []searchhistory.Item{}, Warning: fmt.Sprintf("read search history: %v", err)}
	}
	return SearchHistoryResult{Items: items}
}

// Record remembers a searched tag. A failing upsert returns the single item with a
// warning; a failing read-back returns the single item alone.
func (s *SearchHistoryService) Record(ctx context.Context, rawSessionID, rawTag, rawName string) (SearchHistoryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SearchHistoryService.Record")
	defer span.End()

	sessionID, ok := searchhistory.CleanSessionID(rawSessionID)
	if !ok {
		return SearchHistoryResult{}, fmt.Errorf("%w: invalid session id", ErrInvalidInput)
	}
	if strings.TrimSpace(rawTag) == "" {
		return SearchHistoryResult{}, fmt.Errorf("%w: tag is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	item := searchhistory.Item{
		SessionID:  sessionID,
		PlayerTag:  ranked.NormalizeTag(rawTag),
		SearchedAt: now,
		UpdatedAt:  now,
	}
	if name := strings.TrimSpace(rawName); name != "" {
		item.PlayerName = &name
	}
	single := SearchHistoryResult{Items: []searchhistory.Item{item}}
	if s.repo == nil {
		return single, nil
	}

	if err := s.repo.Upsert(ctx, item); err != nil {
		s.metrics.IncStoreSkip(storeOpUpsertSearchHistory)
		s.logger.WarnContext(ctx, "search history upsert failed", "session_id", sessionID, "tag", item.PlayerTag, "error", err)
		single.Warning = fmt.Sprintf("upsert search history: %v", err)
		return single, nil
	}

	items, err := s.repo.ListLatest(ctx, sessionID, searchhistory.MaxItems)
	if err != nil {
		s.metrics.IncStoreSkip(storeOpReadSearchHistory)
		s.logger.WarnContext(ctx, "search history read-back failed", "session_id", sessionID, "error", err)
		return single, nil
	}
	return SearchHistoryResult{Items: items}, nil
}
