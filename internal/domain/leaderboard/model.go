package leaderboard

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeWorld  Type = "world"
	TypeRanked Type = "ranked"
	TypeEsport Type = "esport"
)

func (t Type) Valid() bool {
	switch t {
	case TypeWorld, TypeRanked, TypeEsport:
		return true
	}
	return false
}

// DefaultIconID is the profile icon shown when a source omits one.
const DefaultIconID = 28000000

// Entry is one row of a built board. Rank is 1-based and unique within a board.
type Entry struct {
	Tag        string
	Name       string
	Rank       int
	Score      int
	IconID     int
	ClubName   string
	LastSeenAt time.Time
}

// EsportEntry is a professional player ranked by tournament earnings.
type EsportEntry struct {
	Tag           string
	DisplayName   string
	Team          string
	MatcherinoURL *string
	EarningsUSD   int
	IconID        int
	Score         int
}

// SnapshotRecord is the last observed position of one tag on one board.
type SnapshotRecord struct {
	Type         Type
	PlayerTag    string
	LastPosition int
	LastValue    int
}

func (r SnapshotRecord) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("invalid leaderboard type: %q", r.Type)
	}
	if r.PlayerTag == "" {
		return fmt.Errorf("leaderboard snapshot player tag is required")
	}
	if r.LastPosition < 1 {
		return fmt.Errorf("leaderboard snapshot position must be >= 1")
	}
	return nil
}

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
	DirectionNew    Direction = "new"
)

type Trend struct {
	Direction  Direction
	Places     int
	HasHistory bool
}

// Ranked is one (tag, value) pair in board order, the input of trend computation.
type Ranked struct {
	Tag   string
	Value int
}
