package player

import (
	"fmt"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
)

type Club struct {
	Tag  string
	Name string
}

type Brawler struct {
	ID              int
	Name            string
	Power           int
	Rank            int
	Trophies        int
	HighestTrophies int
}

// Profile is a live player payload from the game API. Raw keeps the full document
// for fields the typed view does not model (ranked data drifts between API versions).
type Profile struct {
	Tag             string
	Name            string
	NameColor       string
	IconID          int
	Trophies        int
	HighestTrophies int
	ExpLevel        int
	Victories3v3    int
	SoloVictories   int
	DuoVictories    int
	Club            *Club
	Brawlers        []Brawler
	Raw             jsonvalue.Value
}

func (p Profile) Validate() error {
	if p.Tag == "" {
		return fmt.Errorf("player tag is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

func (p Profile) TotalVictories() int {
	return p.Victories3v3 + p.SoloVictories + p.DuoVictories
}

// Battle is one battlelog item. Body is the untyped "battle" object: its shape
// depends on the mode (teams, players, rank, bans...).
type Battle struct {
	BattleTime string
	EventID    int
	EventMode  string
	EventMap   string
	Body       jsonvalue.Value
}

// Record is the persisted row for a tracked player.
type Record struct {
	Tag                      string
	Name                     string
	Trophies                 int
	HighestTrophies          int
	ExpLevel                 *int
	Victories3v3             int
	SoloVictories            int
	DuoVictories             int
	ClubTag                  *string
	ClubName                 *string
	IconID                   *int
	EstimatedPlaytimeMinutes float64
	LastBattlelogWinrate     float64
	LastSnapshotHash         string
	RawPayload               []byte
	LastSeenAt               time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// HistoryPoint is the daily snapshot row, one per (tag, date).
type HistoryPoint struct {
	ID                       int64
	PlayerTag                string
	SnapshotDate             time.Time
	Trophies                 int
	HighestTrophies          int
	ClubTag                  *string
	ClubName                 *string
	EstimatedPlaytimeMinutes float64
	Winrate25                float64
	RawPayload               []byte
	CreatedAt                time.Time
}

// AnalyticsSnapshot stores the derived battlelog analytics of one day.
type AnalyticsSnapshot struct {
	PlayerTag           string
	SnapshotDate        time.Time
	RankedWinrate25     *float64
	TrophyWinrate25     *float64
	RankedMatchesSample int
	TrophyMatchesSample int
	MapsRanked          []byte
	MapsTrophies        []byte
	TopBrawlersRanked   []byte
	TopBrawlersTrophies []byte
	RankedBans          []byte
	BattlelogSample     int
	UpdatedAt           time.Time
}

// SnapshotDate truncates t to its UTC calendar day.
func SnapshotDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
