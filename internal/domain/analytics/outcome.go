package analytics

import (
	"math"
	"strings"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

type MatchType string

const (
	MatchRanked MatchType = "ranked"
	MatchLadder MatchType = "ladder"
)

var rankedModeMarkers = []string{
	"ranked",
	"powermatch",
	"power match",
	"powerleague",
	"power league",
	"soloranked",
	"solo ranked",
	"teamranked",
	"team ranked",
}

// NormalizeResult maps a free-form battle result to an outcome.
func NormalizeResult(result string) (Outcome, bool) {
	value := strings.ToLower(result)
	switch {
	case strings.Contains(value, "victory"), strings.Contains(value, "win"):
		return OutcomeWin, true
	case strings.Contains(value, "defeat"), strings.Contains(value, "loss"), strings.Contains(value, "lose"):
		return OutcomeLoss, true
	case strings.Contains(value, "draw"):
		return OutcomeDraw, true
	}
	return "", false
}

// ParseOutcome reads the result of a battle. Showdown battles carry a finishing rank
// instead; only first place counts as a win there.
func ParseOutcome(b player.Battle) (Outcome, bool) {
	result, _ := b.Body.Get("result").Str()
	if outcome, ok := NormalizeResult(result); ok {
		return outcome, true
	}
	if rank, ok := b.Body.Get("rank").Num(); ok {
		if rank == 1 {
			return OutcomeWin, true
		}
		return OutcomeLoss, true
	}
	return "", false
}

func ClassifyMatchType(b player.Battle) MatchType {
	mode, ok := b.Body.Get("mode").Str()
	if !ok || mode == "" {
		mode = b.EventMode
	}
	kind, _ := b.Body.Get("type").Str()
	key := strings.ToLower(mode + " " + kind)
	for _, marker := range rankedModeMarkers {
		if strings.Contains(key, marker) {
			return MatchRanked
		}
	}
	return MatchLadder
}

// ModeOf returns the battle mode with the event mode as fallback.
func ModeOf(b player.Battle) string {
	if mode, ok := b.Body.Get("mode").Str(); ok && mode != "" {
		return mode
	}
	if b.EventMode != "" {
		return b.EventMode
	}
	return "unknown"
}

func round(value float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(value*p) / p
}
