package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/brawl-tracker/internal/domain/analytics"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
)

const CoachModel = "simulated-coach-v1"

type CoachAdvice struct {
	Model string
	Tips  []string
}

type CoachService struct {
	provider BrawlDataProvider
}

func NewCoachService(provider BrawlDataProvider) *CoachService {
	return &CoachService{provider: provider}
}

// TipsForTag loads the live profile and recent battles of tag.
func (s *CoachService) TipsForTag(ctx context.Context, tag string) (CoachAdvice, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CoachService.TipsForTag")
	defer span.End()

	tag, err := cleanTag(tag)
	if err != nil {
		return CoachAdvice{}, err
	}
	external, err := s.provider.GetPlayer(ctx, tag, false)
	if err != nil {
		return CoachAdvice{}, fmt.Errorf("get player: %w", err)
	}
	battles, err := s.provider.GetBattlelog(ctx, tag, BattlelogFetchLimit, false)
	if err != nil {
		return CoachAdvice{}, fmt.Errorf("get battlelog: %w", err)
	}
	return s.TipsForProfile(external.Profile, battles), nil
}

// TipsForProfile works on a caller-supplied profile, battles may be empty.
func (s *CoachService) TipsForProfile(p player.Profile, battles []player.Battle) CoachAdvice {
	return CoachAdvice{Model: CoachModel, Tips: analytics.CoachTips(p, battles)}
}
