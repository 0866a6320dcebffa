package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/analytics"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
)

const sharedHistoryLimit = 240

// CompareSide is the per-player half of a comparison.
type CompareSide struct {
	Tag             string
	Name            string
	Trophies        int
	HighestTrophies int
	RankedElo       int
	RankedLabel     string
	RankedWinrate25 float64
	TrophyWinrate25 float64
	TopRankedMap    *string
	TopTrophyMap    *string
	Winrate25       float64
}

type Comparison struct {
	Left        CompareSide
	Right       CompareSide
	FaceToFace  analytics.FaceToFace
	SharedClubs []string
	Favorite    analytics.Favorite
}

type CompareService struct {
	provider     BrawlDataProvider
	history      player.HistoryRepository
	storeTimeout time.Duration
	logger       *logging.Logger
	metrics      *metrics.Manager
}

func NewCompareService(provider BrawlDataProvider, history player.HistoryRepository, storeTimeout time.Duration, logger *logging.Logger, m *metrics.Manager) *CompareService {
	if logger == nil {
		logger = logging.Default()
	}
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &CompareService{
		provider:     provider,
		history:      history,
		storeTimeout: storeTimeout,
		logger:       logger,
		metrics:      m,
	}
}

// Compare fetches both players, their battlelogs and shared history in parallel.
// A failing history read degrades to no shared clubs.
func (s *CompareService) Compare(ctx context.Context, leftRaw, rightRaw string) (Comparison, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompareService.Compare")
	defer span.End()

	if strings.TrimSpace(leftRaw) == "" || strings.TrimSpace(rightRaw) == "" {
		return Comparison{}, fmt.Errorf("%w: left and right tags are required", ErrInvalidInput)
	}
	leftTag := ranked.NormalizeTag(leftRaw)
	rightTag := ranked.NormalizeTag(rightRaw)

	var (
		leftPlayer, rightPlayer   ExternalPlayer
		leftBattles, rightBattles []player.Battle
		history                   []player.HistoryPoint
	)
	fetches := pool.New().WithContext(ctx)
	fetches.Go(func(ctx context.Context) (err error) {
		leftPlayer, err = s.provider.GetPlayer(ctx, leftTag, false)
		return wrapFetch("get left player", err)
	})
	fetches.Go(func(ctx context.Context) (err error) {
		rightPlayer, err = s.provider.GetPlayer(ctx, rightTag, false)
		return wrapFetch("get right player", err)
	})
	fetches.Go(func(ctx context.Context) (err error) {
		leftBattles, err = s.provider.GetBattlelog(ctx, leftTag, BattlelogFetchLimit, false)
		return wrapFetch("get left battlelog", err)
	})
	fetches.Go(func(ctx context.Context) (err error) {
		rightBattles, err = s.provider.GetBattlelog(ctx, rightTag, BattlelogFetchLimit, false)
		return wrapFetch("get right battlelog", err)
	})
	fetches.Go(func(ctx context.Context) error {
		history = s.sharedHistory(ctx, leftTag, rightTag)
		return nil
	})
	if err := fetches.Wait(); err != nil {
		return Comparison{}, err
	}

	left := compareSide(leftTag, leftPlayer.Profile, leftBattles)
	right := compareSide(rightTag, rightPlayer.Profile, rightBattles)

	shared := analytics.SharedClubs(history, leftTag, rightTag)
	leftClub := analytics.CurrentClubLabel(leftPlayer.Profile.Club)
	if leftClub != "" && leftClub == analytics.CurrentClubLabel(rightPlayer.Profile.Club) && !slices.Contains(shared, leftClub) {
		shared = append(shared, leftClub)
	}

	favorite := analytics.DecideFavorite(
		analytics.Contender{Tag: leftTag, Name: left.Name, RankedElo: left.RankedElo, RankedWinrate: left.RankedWinrate25, Trophies: left.Trophies, Highest: left.HighestTrophies},
		analytics.Contender{Tag: rightTag, Name: right.Name, RankedElo: right.RankedElo, RankedWinrate: right.RankedWinrate25, Trophies: right.Trophies, Highest: right.HighestTrophies},
		shared,
	)

	return Comparison{
		Left:        left,
		Right:       right,
		FaceToFace:  analytics.FaceToFaceFromBattlelogs(leftBattles, rightBattles),
		SharedClubs: shared,
		Favorite:    favorite,
	}, nil
}

func (s *CompareService) sharedHistory(ctx context.Context, leftTag, rightTag string) []player.HistoryPoint {
	if s.history == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	points, err := s.history.ListHistoryForTags(ctx, []string{leftTag, rightTag}, sharedHistoryLimit)
	if err != nil {
		s.metrics.IncStoreSkip(storeOpReadSharedHistory)
		s.logger.WarnContext(ctx, "shared history read skipped", "left", leftTag, "right", rightTag, "error", err)
		return nil
	}
	return points
}

func compareSide(tag string, p player.Profile, battles []player.Battle) CompareSide {
	stats := analytics.ComputeBattlelogAnalytics(battles, tag, BattlelogFetchLimit)
	score := ranked.ExtractRankedElo(p.Raw)

	side := CompareSide{
		Tag:             tag,
		Name:            p.Name,
		Trophies:        p.Trophies,
		HighestTrophies: p.HighestTrophies,
		RankedElo:       score,
		RankedLabel:     ranked.FormatRank(score),
		RankedWinrate25: valueOrZero(stats.RankedWinrate25),
		TrophyWinrate25: valueOrZero(stats.TrophyWinrate25),
	}
	if len(stats.MapsRanked) > 0 {
		side.TopRankedMap = &stats.MapsRanked[0].Map
	}
	if len(stats.MapsTrophies) > 0 {
		side.TopTrophyMap = &stats.MapsTrophies[0].Map
	}
	side.Winrate25 = side.TrophyWinrate25
	if side.RankedWinrate25 > 0 {
		side.Winrate25 = side.RankedWinrate25
	}
	return side
}

func wrapFetch(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
