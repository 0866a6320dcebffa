package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/brawl-tracker/internal/domain/analytics"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
)

const (
	BattlelogFetchLimit      = 60
	historyReadLimit         = 120
	topBrawlersLimit         = 10
	defaultStoreTimeout      = 2500 * time.Millisecond
	welcomeClubName          = "Bienvenue"
	storeOpReadPlayer        = "read_player"
	storeOpHasHistory        = "has_history"
	storeOpUpsertPlayer      = "upsert_player"
	storeOpUpsertAnalytics   = "upsert_analytics"
	storeOpUpsertHistory     = "upsert_history"
	storeOpReadHistory       = "read_history"
	storeOpReadProPlayer     = "read_pro_player"
	storeOpReadSharedHistory = "read_shared_history"
)

// PlayerBundle is everything the profile page shows for one player.
type PlayerBundle struct {
	Tag                    string
	Player                 player.Profile
	Battlelog              []player.Battle
	Winrates25             analytics.Breakdown
	Analytics              analytics.BattlelogAnalytics
	EstimatedPlaytimeHours float64
	AccountValueGems       int
	RankedElo              int
	RankLabel              string
	// RankedSnapshot is set when the score came from a secondary source.
	RankedSnapshot *ranked.Snapshot
	TopBrawlers    []analytics.PlayedBrawler
	History        []player.HistoryPoint
	IsProVerified  bool
	ProProfile     *proplayer.ProPlayer
	// Changed reports a snapshot hash different from the stored one.
	Changed bool
}

// RankedLookup is the answer of the standalone ranked endpoint.
type RankedLookup struct {
	Tag       string
	Score     int
	RankLabel string
	PeakScore *int
	Source    ranked.Source
	Origin    string
	Attempts  []ResolveAttempt
}

type PlayerServiceConfig struct {
	Provider     BrawlDataProvider
	Resolver     RankedSnapshotResolver
	Players      player.Repository
	History      player.HistoryRepository
	Pros         proplayer.Repository
	StoreTimeout time.Duration
	Now          func() time.Time
	Logger       *logging.Logger
	Metrics      *metrics.Manager
}

type PlayerService struct {
	provider     BrawlDataProvider
	resolver     RankedSnapshotResolver
	players      player.Repository
	history      player.HistoryRepository
	pros         proplayer.Repository
	storeTimeout time.Duration
	now          func() time.Time
	logger       *logging.Logger
	metrics      *metrics.Manager
}

func NewPlayerService(cfg PlayerServiceConfig) *PlayerService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &PlayerService{
		provider:     cfg.Provider,
		resolver:     cfg.Resolver,
		players:      cfg.Players,
		history:      cfg.History,
		pros:         cfg.Pros,
		storeTimeout: timeout,
		now:          now,
		logger:       logger,
		metrics:      cfg.Metrics,
	}
}

// GetPlayerBundle fetches profile and battlelog concurrently, derives the analytics,
// persists the snapshot best effort and reads back the daily history. Only the two
// upstream fetches may fail the call.
func (s *PlayerService) GetPlayerBundle(ctx context.Context, tag string, forceRefresh bool) (PlayerBundle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayerBundle")
	defer span.End()

	tag, err := cleanTag(tag)
	if err != nil {
		return PlayerBundle{}, err
	}

	var (
		external ExternalPlayer
		battles  []player.Battle
	)
	fetches := pool.New().WithContext(ctx)
	fetches.Go(func(ctx context.Context) error {
		p, err := s.provider.GetPlayer(ctx, tag, forceRefresh)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		external = p
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		items, err := s.provider.GetBattlelog(ctx, tag, BattlelogFetchLimit, forceRefresh)
		if err != nil {
			return fmt.Errorf("get battlelog: %w", err)
		}
		battles = items
		return nil
	})
	if err := fetches.Wait(); err != nil {
		return PlayerBundle{}, err
	}

	profile := external.Profile
	profile.Tag = tag
	now := s.now()

	bundle := PlayerBundle{
		Tag:                    tag,
		Player:                 profile,
		Battlelog:              battles,
		Winrates25:             analytics.Winrate25(battles),
		Analytics:              analytics.ComputeBattlelogAnalytics(battles, tag, BattlelogFetchLimit),
		EstimatedPlaytimeHours: analytics.EstimatePlaytimeHours(profile),
		AccountValueGems:       analytics.EstimateAccountValue(profile),
		TopBrawlers:            analytics.TopPlayedBrawlers(profile.Brawlers, topBrawlersLimit),
		Changed:                true,
	}
	playtimeMinutes := math.Round(bundle.EstimatedPlaytimeHours*60*100) / 100
	persistedWinrate := persistedWinrate(bundle.Winrates25)

	previous, hasPrevious := s.readPreviousRecord(ctx, tag)
	bundle.RankedElo = s.rankedScore(profile.Raw, previous, hasPrevious)
	if bundle.RankedElo <= 0 && s.resolver != nil {
		if snapshot := s.resolver.Resolve(ctx, tag, forceRefresh).Snapshot; snapshot != nil {
			bundle.RankedSnapshot = snapshot
			bundle.RankedElo = snapshotScore(*snapshot)
		}
	}
	bundle.RankLabel = ranked.FormatRank(bundle.RankedElo)
	if bundle.RankedSnapshot != nil && bundle.RankedSnapshot.RankLabel != nil {
		bundle.RankLabel = *bundle.RankedSnapshot.RankLabel
	}

	hash, err := player.SnapshotHash(profile)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot hash failed", "tag", tag, "error", err)
	}
	if hasPrevious && hash != "" {
		bundle.Changed = previous.LastSnapshotHash != hash
	}

	if hash != "" {
		s.persistSnapshot(ctx, bundle, external.RawJSON, hash, playtimeMinutes, persistedWinrate, now)
	}

	bundle.History = s.readHistory(ctx, tag)
	if len(bundle.History) == 0 {
		bundle.History = []player.HistoryPoint{syntheticHistoryPoint(profile, external.RawJSON, playtimeMinutes, persistedWinrate, now)}
	}

	if pro, ok := s.readProProfile(ctx, tag); ok {
		bundle.IsProVerified = true
		bundle.ProProfile = &pro
	}
	return bundle, nil
}

// GetRankedLookup answers from the primary payload when it carries a score and falls
// back to the secondary sources otherwise. A missing player is the only error.
func (s *PlayerService) GetRankedLookup(ctx context.Context, tag string, forceRefresh bool) (RankedLookup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetRankedLookup")
	defer span.End()

	tag, err := cleanTag(tag)
	if err != nil {
		return RankedLookup{}, err
	}
	lookup := RankedLookup{Tag: tag}

	external, err := s.provider.GetPlayer(ctx, tag, forceRefresh)
	switch {
	case errors.Is(err, ErrNotFound):
		return RankedLookup{}, fmt.Errorf("get player: %w", err)
	case err != nil:
		s.logger.WarnContext(ctx, "primary payload unavailable for ranked lookup", "tag", tag, "error", err)
	default:
		if score := ranked.ExtractRankedElo(external.Profile.Raw); score > 0 {
			lookup.Score = score
			lookup.RankLabel = ranked.FormatRank(score)
			lookup.Source = ranked.SourcePrimary
			if peak := ranked.ExtractPeakRankedElo(external.Profile.Raw); peak > 0 {
				lookup.PeakScore = &peak
			}
			return lookup, nil
		}
	}

	if s.resolver == nil {
		lookup.RankLabel = ranked.FormatRank(0)
		return lookup, nil
	}
	resolution := s.resolver.Resolve(ctx, tag, forceRefresh)
	lookup.Attempts = resolution.Attempts
	if resolution.Snapshot == nil {
		lookup.RankLabel = ranked.FormatRank(0)
		return lookup, nil
	}

	snapshot := *resolution.Snapshot
	lookup.Score = snapshotScore(snapshot)
	lookup.PeakScore = snapshot.PeakScore
	lookup.Source = snapshot.Source
	lookup.Origin = snapshot.Origin
	lookup.RankLabel = ranked.FormatRank(lookup.Score)
	if snapshot.RankLabel != nil {
		lookup.RankLabel = *snapshot.RankLabel
	}
	return lookup, nil
}

// snapshotScore prefers the current score and falls back to the peak when a source
// only shows the season high.
func snapshotScore(snapshot ranked.Snapshot) int {
	if snapshot.Score > 0 {
		return snapshot.Score
	}
	if snapshot.PeakScore != nil {
		return *snapshot.PeakScore
	}
	return 0
}

func (s *PlayerService) rankedScore(raw jsonvalue.Value, previous player.Record, hasPrevious bool) int {
	var opts []ranked.ExtractOption
	if hasPrevious && len(previous.RawPayload) > 0 {
		if stored, err := jsonvalue.Parse(previous.RawPayload); err == nil {
			if score := ranked.ExtractCurrentRankedElo(stored); score > 0 {
				opts = append(opts, ranked.WithStoredFallback(score))
			}
		}
	}
	return ranked.ExtractRankedElo(raw, opts...)
}

func persistedWinrate(b analytics.Breakdown) float64 {
	if b.RankedWinrate != nil {
		return *b.RankedWinrate
	}
	if b.LadderWinrate != nil {
		return *b.LadderWinrate
	}
	return b.Overall.Winrate
}

func (s *PlayerService) readPreviousRecord(ctx context.Context, tag string) (player.Record, bool) {
	if s.players == nil {
		return player.Record{}, false
	}
	var (
		record player.Record
		found  bool
	)
	err := s.withStoreTimeout(ctx, func(ctx context.Context) error {
		var err error
		record, found, err = s.players.GetByTag(ctx, tag)
		return err
	})
	if err != nil {
		s.skipStore(ctx, storeOpReadPlayer, tag, err)
		return player.Record{}, false
	}
	return record, found
}

// persistSnapshot writes player, analytics and (when changed or first seen) the daily
// history point. The first failing step skips the remaining ones.
func (s *PlayerService) persistSnapshot(ctx context.Context, bundle PlayerBundle, raw []byte, hash string, playtimeMinutes, winrate float64, now time.Time) {
	if s.players == nil || s.history == nil {
		return
	}
	tag := bundle.Tag

	var historyExists bool
	if err := s.withStoreTimeout(ctx, func(ctx context.Context) error {
		var err error
		historyExists, err = s.history.HasHistory(ctx, tag)
		return err
	}); err != nil {
		s.skipStore(ctx, storeOpHasHistory, tag, err)
		return
	}

	record := player.ToRecord(bundle.Player, raw, hash, playtimeMinutes, winrate)
	record.LastSeenAt = now
	record.UpdatedAt = now
	if err := s.withStoreTimeout(ctx, func(ctx context.Context) error {
		return s.players.Upsert(ctx, record)
	}); err != nil {
		s.skipStore(ctx, storeOpUpsertPlayer, tag, err)
		return
	}

	snapshot, err := analyticsSnapshot(tag, bundle.Analytics, len(bundle.Battlelog), now)
	if err == nil {
		err = s.withStoreTimeout(ctx, func(ctx context.Context) error {
			return s.history.UpsertAnalytics(ctx, snapshot)
		})
	}
	if err != nil {
		s.skipStore(ctx, storeOpUpsertAnalytics, tag, err)
		return
	}

	if bundle.Changed || !historyExists {
		point := historyPoint(bundle.Player, raw, playtimeMinutes, winrate, now)
		if err := s.withStoreTimeout(ctx, func(ctx context.Context) error {
			return s.history.UpsertHistory(ctx, point)
		}); err != nil {
			s.skipStore(ctx, storeOpUpsertHistory, tag, err)
		}
	}
}

func (s *PlayerService) readHistory(ctx context.Context, tag string) []player.HistoryPoint {
	if s.history == nil {
		return nil
	}
	var points []player.HistoryPoint
	if err := s.withStoreTimeout(ctx, func(ctx context.Context) error {
		var err error
		points, err = s.history.ListHistory(ctx, tag, historyReadLimit)
		return err
	}); err != nil {
		s.skipStore(ctx, storeOpReadHistory, tag, err)
		return nil
	}
	return points
}

func (s *PlayerService) readProProfile(ctx context.Context, tag string) (proplayer.ProPlayer, bool) {
	if s.pros == nil {
		return proplayer.ProPlayer{}, false
	}
	var (
		pro   proplayer.ProPlayer
		found bool
	)
	if err := s.withStoreTimeout(ctx, func(ctx context.Context) error {
		var err error
		pro, found, err = s.pros.GetActiveByTag(ctx, tag)
		return err
	}); err != nil {
		s.skipStore(ctx, storeOpReadProPlayer, tag, err)
		return proplayer.ProPlayer{}, false
	}
	return pro, found
}

func (s *PlayerService) withStoreTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return fn(ctx)
}

func (s *PlayerService) skipStore(ctx context.Context, op, tag string, err error) {
	s.metrics.IncStoreSkip(op)
	s.logger.WarnContext(ctx, "store operation skipped", "operation", op, "tag", tag, "error", err)
}

func analyticsSnapshot(tag string, a analytics.BattlelogAnalytics, sample int, now time.Time) (player.AnalyticsSnapshot, error) {
	snapshot := player.AnalyticsSnapshot{
		PlayerTag:           tag,
		SnapshotDate:        player.SnapshotDate(now),
		RankedWinrate25:     a.RankedWinrate25,
		TrophyWinrate25:     a.TrophyWinrate25,
		RankedMatchesSample: a.RankedSampleMatches,
		TrophyMatchesSample: a.TrophySampleMatches,
		BattlelogSample:     sample,
		UpdatedAt:           now,
	}
	var err error
	if snapshot.MapsRanked, err = sonic.Marshal(a.MapsRanked); err != nil {
		return snapshot, fmt.Errorf("encode ranked maps: %w", err)
	}
	if snapshot.MapsTrophies, err = sonic.Marshal(a.MapsTrophies); err != nil {
		return snapshot, fmt.Errorf("encode trophy maps: %w", err)
	}
	if snapshot.TopBrawlersRanked, err = sonic.Marshal(a.TopBrawlersRanked); err != nil {
		return snapshot, fmt.Errorf("encode ranked brawlers: %w", err)
	}
	if snapshot.TopBrawlersTrophies, err = sonic.Marshal(a.TopBrawlersTrophies); err != nil {
		return snapshot, fmt.Errorf("encode trophy brawlers: %w", err)
	}
	if snapshot.RankedBans, err = sonic.Marshal(a.RankedBans); err != nil {
		return snapshot, fmt.Errorf("encode ranked bans: %w", err)
	}
	return snapshot, nil
}

func historyPoint(p player.Profile, raw []byte, playtimeMinutes, winrate float64, now time.Time) player.HistoryPoint {
	point := player.HistoryPoint{
		PlayerTag:                p.Tag,
		SnapshotDate:             player.SnapshotDate(now),
		Trophies:                 p.Trophies,
		HighestTrophies:          p.HighestTrophies,
		EstimatedPlaytimeMinutes: playtimeMinutes,
		Winrate25:                winrate,
		RawPayload:               raw,
		CreatedAt:                now,
	}
	if p.Club != nil {
		if p.Club.Tag != "" {
			clubTag := p.Club.Tag
			point.ClubTag = &clubTag
		}
		if p.Club.Name != "" {
			clubName := p.Club.Name
			point.ClubName = &clubName
		}
	}
	return point
}

// syntheticHistoryPoint seeds the chart of a player seen for the first time.
func syntheticHistoryPoint(p player.Profile, raw []byte, playtimeMinutes, winrate float64, now time.Time) player.HistoryPoint {
	point := historyPoint(p, raw, playtimeMinutes, winrate, now)
	if point.ClubName == nil {
		welcome := welcomeClubName
		point.ClubName = &welcome
	}
	return point
}

func cleanTag(raw string) (string, error) {
	tag := ranked.NormalizeTag(raw)
	if tag == "#" {
		return "", fmt.Errorf("%w: player tag is required", ErrInvalidInput)
	}
	return tag, nil
}
