package httpapi

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/brawl-tracker/internal/domain/analytics"
	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/domain/searchhistory"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
)

type upsertMetaTierRequest struct {
	BrawlerName string `json:"brawlerName" validate:"required,max=64"`
	Tier        string `json:"tier" validate:"required,oneof=S A B C s a b c"`
	Mode        string `json:"mode" validate:"omitempty,max=64"`
}

type recordSearchRequest struct {
	SessionID  string `json:"sessionId"`
	Tag        string `json:"tag"`
	PlayerName string `json:"playerName"`
}

type coachRequest struct {
	Tag    string              `json:"tag"`
	Player jsoniter.RawMessage `json:"player"`
}

type playerBundleDTO struct {
	Tag                    string                       `json:"tag"`
	Player                 jsonvalue.Value              `json:"player"`
	Battlelog              []battleDTO                  `json:"battlelog"`
	Winrates25             analytics.Breakdown          `json:"winrates25"`
	BattlelogAnalytics     analytics.BattlelogAnalytics `json:"battlelogAnalytics"`
	EstimatedPlaytimeHours float64                      `json:"estimatedPlaytimeHours"`
	AccountValueGems       int                          `json:"accountValueGems"`
	RankedElo              int                          `json:"rankedElo"`
	RankLabel              string                       `json:"rankLabel"`
	RankedSnapshot         *rankedSnapshotDTO           `json:"rankedSnapshot"`
	TopBrawlers            []analytics.PlayedBrawler    `json:"topBrawlers"`
	History                []historyPointDTO            `json:"history"`
	IsProVerified          bool                         `json:"isProVerified"`
	ProProfile             *proProfileDTO               `json:"proProfile"`
	Changed                bool                         `json:"changed"`
}

type battleDTO struct {
	BattleTime string          `json:"battleTime"`
	Event      battleEventDTO  `json:"event"`
	Battle     jsonvalue.Value `json:"battle"`
}

type battleEventDTO struct {
	ID   int    `json:"id"`
	Mode string `json:"mode"`
	Map  string `json:"map"`
}

type rankedSnapshotDTO struct {
	Score     int     `json:"score"`
	RankLabel *string `json:"rankLabel"`
	PeakScore *int    `json:"peakScore"`
	Source    string  `json:"source"`
	Origin    string  `json:"origin,omitempty"`
}

type historyPointDTO struct {
	SnapshotDate             string  `json:"snapshotDate"`
	Trophies                 int     `json:"trophies"`
	HighestTrophies          int     `json:"highestTrophies"`
	ClubTag                  *string `json:"clubTag"`
	ClubName                 *string `json:"clubName"`
	EstimatedPlaytimeMinutes float64 `json:"estimatedPlaytimeMinutes"`
	Winrate25                float64 `json:"winrate25"`
}

type proProfileDTO struct {
	DisplayName   string  `json:"displayName"`
	Team          string  `json:"team"`
	MercatoStatus string  `json:"mercatoStatus"`
	MatcherinoURL *string `json:"matcherinoUrl"`
	EarningsUSD   float64 `json:"earningsUsd"`
}

type rankedLookupDTO struct {
	Tag       string       `json:"tag"`
	Score     int          `json:"score"`
	RankLabel string       `json:"rankLabel"`
	PeakScore *int         `json:"peakScore"`
	Source    string       `json:"source,omitempty"`
	Origin    string       `json:"origin,omitempty"`
	Attempts  []attemptDTO `json:"attempts,omitempty"`
}

type attemptDTO struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

type leaderboardDTO struct {
	Type    string                `json:"type"`
	Source  string                `json:"source"`
	Players []leaderboardEntryDTO `json:"players,omitempty"`
	Pros    []esportEntryDTO      `json:"pros,omitempty"`
}

type trendDTO struct {
	Direction  string `json:"direction"`
	Places     int    `json:"places"`
	HasHistory bool   `json:"hasHistory"`
}

type leaderboardEntryDTO struct {
	Tag      string    `json:"tag"`
	Name     string    `json:"name"`
	Rank     int       `json:"rank"`
	Score    int       `json:"score"`
	IconID   int       `json:"iconId"`
	ClubName string    `json:"clubName,omitempty"`
	Trend    *trendDTO `json:"trend,omitempty"`
}

type esportEntryDTO struct {
	Rank          int       `json:"rank"`
	Tag           string    `json:"tag"`
	DisplayName   string    `json:"displayName"`
	Team          string    `json:"team"`
	MatcherinoURL *string   `json:"matcherinoUrl"`
	EarningsUSD   int       `json:"earningsUsd"`
	IconID        int       `json:"iconId"`
	Score         int       `json:"score"`
	Trend         *trendDTO `json:"trend,omitempty"`
}

type compareSideDTO struct {
	Tag             string  `json:"tag"`
	Name            string  `json:"name"`
	Trophies        int     `json:"trophies"`
	HighestTrophies int     `json:"highestTrophies"`
	RankedElo       int     `json:"rankedElo"`
	RankedLabel     string  `json:"rankedLabel"`
	RankedWinrate25 float64 `json:"rankedWinrate25"`
	TrophyWinrate25 float64 `json:"trophyWinrate25"`
	TopRankedMap    *string `json:"topRankedMap"`
	TopTrophyMap    *string `json:"topTrophyMap"`
	Winrate25       float64 `json:"winrate25"`
}

type comparisonDTO struct {
	Left        compareSideDTO       `json:"left"`
	Right       compareSideDTO       `json:"right"`
	FaceToFace  analytics.FaceToFace `json:"faceToFace"`
	SharedClubs []string             `json:"sharedClubs"`
	Favorite    analytics.Favorite   `json:"favorite"`
}

type ratedBrawlerDTO struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
	Winrate  float64 `json:"winrate"`
	Tier     string  `json:"tier"`
}

type catalogBrawlerDTO struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	StarPowers []string `json:"starPowers"`
	Gadgets    []string `json:"gadgets"`
}

type metaTierDTO struct {
	ID          string `json:"id"`
	BrawlerName string `json:"brawlerName"`
	Tier        string `json:"tier"`
	Mode        string `json:"mode"`
}

type searchHistoryDTO struct {
	Items   []searchHistoryItemDTO `json:"items"`
	Warning string                 `json:"warning,omitempty"`
}

type searchHistoryItemDTO struct {
	Tag        string  `json:"tag"`
	Name       *string `json:"name"`
	SearchedAt string  `json:"searchedAt"`
}

type coachDTO struct {
	Model string   `json:"model"`
	Tips  []string `json:"tips"`
}

func playerBundleToDTO(b usecase.PlayerBundle) playerBundleDTO {
	out := playerBundleDTO{
		Tag:                    b.Tag,
		Player:                 b.Player.Raw,
		Battlelog:              make([]battleDTO, 0, len(b.Battlelog)),
		Winrates25:             b.Winrates25,
		BattlelogAnalytics:     b.Analytics,
		EstimatedPlaytimeHours: b.EstimatedPlaytimeHours,
		AccountValueGems:       b.AccountValueGems,
		RankedElo:              b.RankedElo,
		RankLabel:              b.RankLabel,
		TopBrawlers:            b.TopBrawlers,
		History:                make([]historyPointDTO, 0, len(b.History)),
		IsProVerified:          b.IsProVerified,
		Changed:                b.Changed,
	}
	for _, battle := range b.Battlelog {
		out.Battlelog = append(out.Battlelog, battleDTO{
			BattleTime: battle.BattleTime,
			Event:      battleEventDTO{ID: battle.EventID, Mode: battle.EventMode, Map: battle.EventMap},
			Battle:     battle.Body,
		})
	}
	if b.RankedSnapshot != nil {
		snapshot := rankedSnapshotToDTO(*b.RankedSnapshot)
		out.RankedSnapshot = &snapshot
	}
	for _, point := range b.History {
		out.History = append(out.History, historyPointToDTO(point))
	}
	if b.ProProfile != nil {
		pro := proProfileToDTO(*b.ProProfile)
		out.ProProfile = &pro
	}
	return out
}

func rankedSnapshotToDTO(s ranked.Snapshot) rankedSnapshotDTO {
	return rankedSnapshotDTO{
		Score:     s.Score,
		RankLabel: s.RankLabel,
		PeakScore: s.PeakScore,
		Source:    string(s.Source),
		Origin:    s.Origin,
	}
}

func historyPointToDTO(p player.HistoryPoint) historyPointDTO {
	return historyPointDTO{
		SnapshotDate:             p.SnapshotDate.UTC().Format(time.DateOnly),
		Trophies:                 p.Trophies,
		HighestTrophies:          p.HighestTrophies,
		ClubTag:                  p.ClubTag,
		ClubName:                 p.ClubName,
		EstimatedPlaytimeMinutes: p.EstimatedPlaytimeMinutes,
		Winrate25:                p.Winrate25,
	}
}

func proProfileToDTO(p proplayer.ProPlayer) proProfileDTO {
	return proProfileDTO{
		DisplayName:   p.DisplayName,
		Team:          p.Team,
		MercatoStatus: p.MercatoStatus,
		MatcherinoURL: p.MatcherinoURL,
		EarningsUSD:   p.MatcherinoEarningsUSD,
	}
}

func rankedLookupToDTO(l usecase.RankedLookup) rankedLookupDTO {
	out := rankedLookupDTO{
		Tag:       l.Tag,
		Score:     l.Score,
		RankLabel: l.RankLabel,
		PeakScore: l.PeakScore,
		Source:    string(l.Source),
		Origin:    l.Origin,
	}
	for _, attempt := range l.Attempts {
		out.Attempts = append(out.Attempts, attemptDTO{
			Source:  string(attempt.Source),
			Target:  attempt.Target,
			Outcome: string(attempt.Outcome),
			Detail:  attempt.Detail,
		})
	}
	return out
}

func trendFor(trends map[string]leaderboard.Trend, tag string) *trendDTO {
	trend, ok := trends[ranked.NormalizeTag(tag)]
	if !ok {
		return nil
	}
	return &trendDTO{Direction: string(trend.Direction), Places: trend.Places, HasHistory: trend.HasHistory}
}

func boardToDTO(board usecase.Board) leaderboardDTO {
	out := leaderboardDTO{Type: string(board.Type), Source: string(board.Source)}
	if board.Type == leaderboard.TypeEsport {
		out.Pros = make([]esportEntryDTO, 0, len(board.Pros))
		for i, pro := range board.Pros {
			out.Pros = append(out.Pros, esportEntryDTO{
				Rank:          i + 1,
				Tag:           pro.Tag,
				DisplayName:   pro.DisplayName,
				Team:          pro.Team,
				MatcherinoURL: pro.MatcherinoURL,
				EarningsUSD:   pro.EarningsUSD,
				IconID:        pro.IconID,
				Score:         pro.Score,
				Trend:         trendFor(board.Trends, pro.Tag),
			})
		}
		return out
	}

	out.Players = make([]leaderboardEntryDTO, 0, len(board.Players))
	for _, entry := range board.Players {
		out.Players = append(out.Players, leaderboardEntryDTO{
			Tag:      entry.Tag,
			Name:     entry.Name,
			Rank:     entry.Rank,
			Score:    entry.Score,
			IconID:   entry.IconID,
			ClubName: entry.ClubName,
			Trend:    trendFor(board.Trends, entry.Tag),
		})
	}
	return out
}

func compareSideToDTO(s usecase.CompareSide) compareSideDTO {
	return compareSideDTO{
		Tag:             s.Tag,
		Name:            s.Name,
		Trophies:        s.Trophies,
		HighestTrophies: s.HighestTrophies,
		RankedElo:       s.RankedElo,
		RankedLabel:     s.RankedLabel,
		RankedWinrate25: s.RankedWinrate25,
		TrophyWinrate25: s.TrophyWinrate25,
		TopRankedMap:    s.TopRankedMap,
		TopTrophyMap:    s.TopTrophyMap,
		Winrate25:       s.Winrate25,
	}
}

func comparisonToDTO(c usecase.Comparison) comparisonDTO {
	shared := c.SharedClubs
	if shared == nil {
		shared = []string{}
	}
	return comparisonDTO{
		Left:        compareSideToDTO(c.Left),
		Right:       compareSideToDTO(c.Right),
		FaceToFace:  c.FaceToFace,
		SharedClubs: shared,
		Favorite:    c.Favorite,
	}
}

func ratedBrawlersToDTO(items []metatier.RatedBrawler) []ratedBrawlerDTO {
	out := make([]ratedBrawlerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ratedBrawlerDTO{
			ID:       item.ID,
			Name:     item.Name,
			ImageURL: item.ImageURL,
			Winrate:  item.Winrate,
			Tier:     string(item.Tier),
		})
	}
	return out
}

func catalogBrawlersToDTO(items []metatier.CatalogBrawler) []catalogBrawlerDTO {
	out := make([]catalogBrawlerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, catalogBrawlerDTO{
			ID:         item.ID,
			Name:       item.Name,
			StarPowers: nonNilStrings(item.StarPowers),
			Gadgets:    nonNilStrings(item.Gadgets),
		})
	}
	return out
}

func metaTierToDTO(e metatier.Entry) metaTierDTO {
	return metaTierDTO{ID: e.ID, BrawlerName: e.BrawlerName, Tier: string(e.Tier), Mode: e.Mode}
}

func searchHistoryToDTO(result usecase.SearchHistoryResult) searchHistoryDTO {
	out := searchHistoryDTO{
		Items:   make([]searchHistoryItemDTO, 0, len(result.Items)),
		Warning: result.Warning,
	}
	for _, item := range result.Items {
		out.Items = append(out.Items, searchHistoryItemToDTO(item))
	}
	return out
}

func searchHistoryItemToDTO(item searchhistory.Item) searchHistoryItemDTO {
	return searchHistoryItemDTO{
		Tag:        item.PlayerTag,
		Name:       item.PlayerName,
		SearchedAt: item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
