package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/htmltext"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
)

const (
	DefaultBoardLimit        = 10
	MaxBoardLimit            = 100
	defaultTrackedBatch      = 500
	defaultEnrichWorkers     = 8
	globalRankingScanLimit   = 200
	suspiciousTrophyCeiling  = 25
	suspiciousTrophyMaxFloor = 1000
)

// BoardSource names the source that produced a board.
type BoardSource string

const (
	BoardSourceScrape       BoardSource = "scrape"
	BoardSourceTracked      BoardSource = "tracked"
	BoardSourceGlobal       BoardSource = "global"
	BoardSourceAPI          BoardSource = "api"
	BoardSourceLiveProfiles BoardSource = "live_profiles"
	BoardSourceProPlayers   BoardSource = "pro_players"
	BoardSourceSeed         BoardSource = "seed"
)

// Board is a built leaderboard with its trend annotations keyed by normalized tag.
// Players is set for world and ranked boards, Pros for the esport board.
type Board struct {
	Type    leaderboard.Type
	Source  BoardSource
	Players []leaderboard.Entry
	Pros    []leaderboard.EsportEntry
	Trends  map[string]leaderboard.Trend
}

type LeaderboardServiceConfig struct {
	Provider      BrawlDataProvider
	Pages         ProfilePageSource
	Players       player.Repository
	Pros          proplayer.Repository
	Trends        *TrendEngine
	TrackedBatch  int
	EnrichWorkers int
	Logger        *logging.Logger
	Metrics       *metrics.Manager
}

type LeaderboardService struct {
	provider      BrawlDataProvider
	pages         ProfilePageSource
	players       player.Repository
	pros          proplayer.Repository
	trends        *TrendEngine
	trackedBatch  int
	enrichWorkers int
	logger        *logging.Logger
	metrics       *metrics.Manager
}

func NewLeaderboardService(cfg LeaderboardServiceConfig) *LeaderboardService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	batch := cfg.TrackedBatch
	if batch <= 0 {
		batch = defaultTrackedBatch
	}
	workers := cfg.EnrichWorkers
	if workers <= 0 {
		workers = defaultEnrichWorkers
	}
	return &LeaderboardService{
		provider:      cfg.Provider,
		pages:         cfg.Pages,
		players:       cfg.Players,
		pros:          cfg.Pros,
		trends:        cfg.Trends,
		trackedBatch:  batch,
		enrichWorkers: workers,
		logger:        logger,
		metrics:       cfg.Metrics,
	}
}

// ClampBoardLimit maps non-positive limits to the default and caps large ones.
func ClampBoardLimit(limit int) int {
	if limit <= 0 {
		return DefaultBoardLimit
	}
	return min(limit, MaxBoardLimit)
}

// GetBoard builds the board of boardType and annotates it with trends.
func (s *LeaderboardService) GetBoard(ctx context.Context, boardType leaderboard.Type, limit int) (Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetBoard")
	defer span.End()

	if !boardType.Valid() {
		return Board{}, fmt.Errorf("%w: unknown leaderboard type %q", ErrInvalidInput, boardType)
	}
	limit = ClampBoardLimit(limit)

	board := Board{Type: boardType}
	var (
		values []leaderboard.Ranked
		err    error
	)
	switch boardType {
	case leaderboard.TypeRanked:
		board.Players, board.Source, err = s.GetTopRankedPlayers(ctx, limit)
		values = rankedValues(board.Players)
	case leaderboard.TypeWorld:
		board.Players, board.Source, err = s.GetTopPlayers(ctx, limit)
		values = rankedValues(board.Players)
	case leaderboard.TypeEsport:
		board.Pros, board.Source = s.GetTopEsportLeaders(ctx, limit)
		values = make([]leaderboard.Ranked, 0, len(board.Pros))
		for _, pro := range board.Pros {
			values = append(values, leaderboard.Ranked{Tag: pro.Tag, Value: pro.EarningsUSD})
		}
	}
	if err != nil {
		return Board{}, err
	}

	s.metrics.IncLeaderboardBuild(string(boardType), string(board.Source))
	board.Trends = s.trends.CompareAndPersist(ctx, boardType, values)
	return board, nil
}

func rankedValues(entries []leaderboard.Entry) []leaderboard.Ranked {
	out := make([]leaderboard.Ranked, 0, len(entries))
	for _, entry := range entries {
		out = append(out, leaderboard.Ranked{Tag: entry.Tag, Value: entry.Score})
	}
	return out
}

// GetTopRankedPlayers tries the scraped leaderboard page, then tracked players, then
// the global ranking. When all three come back empty it fails with
// ErrLeaderboardUnavailable: no synthetic ranked board is ever served.
func (s *LeaderboardService) GetTopRankedPlayers(ctx context.Context, limit int) ([]leaderboard.Entry, BoardSource, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetTopRankedPlayers")
	defer span.End()

	limit = ClampBoardLimit(limit)
	if entries := s.rankedFromPage(ctx, limit); len(entries) > 0 {
		return entries, BoardSourceScrape, nil
	}
	if entries := s.rankedFromTracked(ctx, limit); len(entries) > 0 {
		return entries, BoardSourceTracked, nil
	}
	if entries := s.rankedFromGlobal(ctx, limit); len(entries) > 0 {
		return entries, BoardSourceGlobal, nil
	}
	return nil, "", fmt.Errorf("%w: no ranked source produced entries", ErrLeaderboardUnavailable)
}

func (s *LeaderboardService) rankedFromPage(ctx context.Context, limit int) []leaderboard.Entry {
	if s.pages == nil {
		return nil
	}
	page, err := s.pages.FetchRankedLeaderboardPage(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "ranked leaderboard page unavailable", "error", err)
		return nil
	}
	if htmltext.IsBotChallenge(page) {
		s.logger.DebugContext(ctx, "ranked leaderboard page is a bot challenge")
		return nil
	}
	return leaderboard.ParseRankedLeaderboardText(htmltext.Flatten(page), limit)
}

// rankedFromTracked rebuilds the board from stored player payloads. Only records that
// came from the game API (snapshot hash set) and still look like a real profile count.
func (s *LeaderboardService) rankedFromTracked(ctx context.Context, limit int) []leaderboard.Entry {
	if s.players == nil {
		return nil
	}
	records, err := s.players.ListRecent(ctx, s.trackedBatch)
	if err != nil {
		s.logger.WarnContext(ctx, "list tracked players failed", "error", err)
		return nil
	}

	best := make(map[string]leaderboard.Entry, len(records))
	for _, record := range records {
		tag := ranked.NormalizeTag(record.Tag)
		if !ranked.IsPlausibleTag(tag) || strings.TrimSpace(record.LastSnapshotHash) == "" || len(record.RawPayload) == 0 {
			continue
		}
		raw, err := jsonvalue.Parse(record.RawPayload)
		if err != nil || !player.LooksGenuineProfile(raw, tag) {
			continue
		}
		score := ranked.ExtractRankedElo(raw)
		if score <= 0 {
			continue
		}
		if prev, ok := best[tag]; ok && prev.Score >= score {
			continue
		}

		entry := leaderboard.Entry{
			Tag:        tag,
			Name:       record.Name,
			Score:      score,
			IconID:     leaderboard.DefaultIconID,
			LastSeenAt: record.LastSeenAt,
		}
		if record.IconID != nil && *record.IconID > 0 {
			entry.IconID = *record.IconID
		}
		if record.ClubName != nil {
			entry.ClubName = *record.ClubName
		}
		best[tag] = entry
	}

	entries := make([]leaderboard.Entry, 0, len(best))
	for _, entry := range best {
		entries = append(entries, entry)
	}
	entries = leaderboard.SortByScore(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// rankedFromGlobal reads only current-score keys: the global ranking carries
// positions and trophies that must never pass for ranked points.
func (s *LeaderboardService) rankedFromGlobal(ctx context.Context, limit int) []leaderboard.Entry {
	if s.provider == nil {
		return nil
	}
	rows, err := s.provider.GetGlobalPlayerRankings(ctx, globalRankingScanLimit)
	if err != nil {
		s.logger.DebugContext(ctx, "global ranking unavailable for ranked board", "error", err)
		return nil
	}

	seen := make(map[string]struct{}, len(rows))
	entries := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		tag := ranked.NormalizeTag(row.Tag)
		if !ranked.IsPlausibleTag(tag) {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		score := ranked.ExtractCurrentRankedElo(row.Raw)
		if score <= 0 {
			continue
		}
		seen[tag] = struct{}{}
		entries = append(entries, leaderboard.Entry{
			Tag:      tag,
			Name:     row.Name,
			Score:    score,
			IconID:   iconOrDefault(row.IconID),
			ClubName: row.ClubName,
		})
	}
	entries = leaderboard.SortByScore(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// GetTopPlayers is the world trophy board. The global endpoint sometimes reports
// placeholder trophy counts; then every row is refreshed from the live profile.
func (s *LeaderboardService) GetTopPlayers(ctx context.Context, limit int) ([]leaderboard.Entry, BoardSource, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetTopPlayers")
	defer span.End()

	limit = ClampBoardLimit(limit)
	if s.provider == nil {
		return nil, "", fmt.Errorf("%w: game api is not configured", ErrDependencyUnavailable)
	}
	rows, err := s.provider.GetGlobalPlayerRankings(ctx, limit)
	if err != nil {
		return nil, "", fmt.Errorf("get global rankings: %w", err)
	}

	entries := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, leaderboard.Entry{
			Tag:      ranked.NormalizeTag(row.Tag),
			Name:     row.Name,
			Rank:     row.Rank,
			Score:    row.Trophies,
			IconID:   iconOrDefault(row.IconID),
			ClubName: row.ClubName,
		})
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	source := BoardSourceAPI
	if looksSuspicious(entries) {
		s.enrichFromProfiles(ctx, entries)
		source = BoardSourceLiveProfiles
	}
	return entries, source, nil
}

func looksSuspicious(entries []leaderboard.Entry) bool {
	if len(entries) == 0 {
		return false
	}
	allTiny := true
	maxTrophies := 0
	for _, entry := range entries {
		if entry.Score > suspiciousTrophyCeiling {
			allTiny = false
		}
		maxTrophies = max(maxTrophies, entry.Score)
	}
	return allTiny || maxTrophies < suspiciousTrophyMaxFloor
}

// enrichFromProfiles overwrites name, trophies and icon from live profiles. Rows whose
// profile cannot be fetched keep their ranking values.
func (s *LeaderboardService) enrichFromProfiles(ctx context.Context, entries []leaderboard.Entry) {
	s.forEachConcurrently(ctx, len(entries), func(i int) {
		profile, err := s.provider.GetPlayer(ctx, entries[i].Tag, false)
		if err != nil {
			s.logger.DebugContext(ctx, "world board profile enrichment failed", "tag", entries[i].Tag, "error", err)
			return
		}
		if profile.Profile.Name != "" {
			entries[i].Name = profile.Profile.Name
		}
		entries[i].Score = profile.Profile.Trophies
		if profile.Profile.IconID > 0 {
			entries[i].IconID = profile.Profile.IconID
		}
	})
}

// GetTopEsportLeaders lists active pros by earnings, topped up with the static seeds
// when fewer than limit are stored.
func (s *LeaderboardService) GetTopEsportLeaders(ctx context.Context, limit int) ([]leaderboard.EsportEntry, BoardSource) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetTopEsportLeaders")
	defer span.End()

	limit = ClampBoardLimit(limit)
	if s.pros == nil {
		return leaderboard.EsportSeeds(limit), BoardSourceSeed
	}
	pros, err := s.pros.ListTopByEarnings(ctx, limit)
	if err != nil {
		s.logger.WarnContext(ctx, "list pro players failed", "error", err)
		return leaderboard.EsportSeeds(limit), BoardSourceSeed
	}
	if len(pros) == 0 {
		return leaderboard.EsportSeeds(limit), BoardSourceSeed
	}

	entries := make([]leaderboard.EsportEntry, len(pros))
	for i, pro := range pros {
		earnings := int(math.Round(pro.MatcherinoEarningsUSD))
		displayName := strings.TrimSpace(pro.DisplayName)
		if displayName == "" {
			displayName = pro.PlayerTag
		}
		team := strings.TrimSpace(pro.Team)
		if team == "" {
			team = "Unknown"
		}
		entries[i] = leaderboard.EsportEntry{
			Tag:           ranked.NormalizeTag(pro.PlayerTag),
			DisplayName:   displayName,
			Team:          team,
			MatcherinoURL: pro.MatcherinoURL,
			EarningsUSD:   earnings,
			IconID:        leaderboard.DefaultIconID,
			Score:         earnings,
		}
	}
	if s.provider != nil {
		s.forEachConcurrently(ctx, len(entries), func(i int) {
			profile, err := s.provider.GetPlayer(ctx, entries[i].Tag, false)
			if err == nil && profile.Profile.IconID > 0 {
				entries[i].IconID = profile.Profile.IconID
			}
		})
	}

	if len(entries) >= limit {
		return entries[:limit], BoardSourceProPlayers
	}
	used := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		used[entry.Tag] = struct{}{}
	}
	for _, seed := range leaderboard.EsportSeeds(limit) {
		if len(entries) >= limit {
			break
		}
		if _, dup := used[ranked.NormalizeTag(seed.Tag)]; dup {
			continue
		}
		entries = append(entries, seed)
	}
	return entries, BoardSourceProPlayers
}

// forEachConcurrently runs fn for 0..n-1 on an ants pool and waits for all of them.
// If the pool cannot be created the calls run inline.
func (s *LeaderboardService) forEachConcurrently(ctx context.Context, n int, fn func(i int)) {
	if n == 0 {
		return
	}
	pool, err := ants.NewPool(min(s.enrichWorkers, n), ants.WithExpiryDuration(10*time.Second))
	if err != nil {
		s.logger.WarnContext(ctx, "create enrichment pool failed", "error", err)
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			fn(i)
		}); err != nil {
			workers.Done()
			fn(i)
		}
	}
	workers.Wait()
}

func iconOrDefault(id int) int {
	if id > 0 {
		return id
	}
	return leaderboard.DefaultIconID
}
