package metatier

import (
	"fmt"
	"strings"
)

type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// DefaultMode is the mode an entry applies to when none is given.
const DefaultMode = "global"

func (t Tier) Valid() bool {
	switch t {
	case TierS, TierA, TierB, TierC:
		return true
	}
	return false
}

// TierFromWinrate buckets a brawler winrate percentage.
func TierFromWinrate(winrate float64) Tier {
	switch {
	case winrate >= 58:
		return TierS
	case winrate >= 53:
		return TierA
	case winrate >= 49:
		return TierB
	default:
		return TierC
	}
}

// Entry is an admin-curated tier assignment, unique per (brawler, mode).
type Entry struct {
	ID          string
	BrawlerName string
	Tier        Tier
	Mode        string
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.BrawlerName) == "" {
		return fmt.Errorf("brawler name is required")
	}
	if !e.Tier.Valid() {
		return fmt.Errorf("tier %q is not one of S, A, B, C", e.Tier)
	}
	if strings.TrimSpace(e.Mode) == "" {
		return fmt.Errorf("mode is required")
	}
	return nil
}

// RatedBrawler is a tier list row computed from public winrates.
type RatedBrawler struct {
	ID       int
	Name     string
	ImageURL *string
	Winrate  float64
	Tier     Tier
}

// Catalog entry from the game API brawler list.
type CatalogBrawler struct {
	ID         int
	Name       string
	StarPowers []string
	Gadgets    []string
}
