package usecase

import (
	"context"
	"sync"

	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
)

// stubProvider is an in-memory BrawlDataProvider keyed by normalized tag.
type stubProvider struct {
	mu          sync.Mutex
	players     map[string]ExternalPlayer
	battlelogs  map[string][]player.Battle
	rankings    []ExternalRanking
	brawlers    []metatier.CatalogBrawler
	playerErr   error
	battleErr   error
	rankingErr  error
	playerCalls map[string]int
}

func (s *stubProvider) GetPlayer(_ context.Context, tag string, _ bool) (ExternalPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag = ranked.NormalizeTag(tag)
	if s.playerCalls == nil {
		s.playerCalls = make(map[string]int)
	}
	s.playerCalls[tag]++
	if s.playerErr != nil {
		return ExternalPlayer{}, s.playerErr
	}
	p, ok := s.players[tag]
	if !ok {
		return ExternalPlayer{}, ErrNotFound
	}
	return p, nil
}

func (s *stubProvider) GetBattlelog(_ context.Context, tag string, limit int, _ bool) ([]player.Battle, error) {
	if s.battleErr != nil {
		return nil, s.battleErr
	}
	battles := s.battlelogs[ranked.NormalizeTag(tag)]
	if limit > 0 && len(battles) > limit {
		battles = battles[:limit]
	}
	return battles, nil
}

func (s *stubProvider) GetGlobalPlayerRankings(_ context.Context, limit int) ([]ExternalRanking, error) {
	if s.rankingErr != nil {
		return nil, s.rankingErr
	}
	rows := s.rankings
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubProvider) GetBrawlers(context.Context) ([]metatier.CatalogBrawler, error) {
	return s.brawlers, nil
}
