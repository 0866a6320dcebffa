package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
)

const (
	minutesPerVictory   = 3.5
	brawlerValue        = 170
	brawlerUpgradeValue = 80
	maxedBrawlerBonus   = 50
	maxedPowerLevel     = 11
	trophiesPerGame     = 8
)

// EstimatePlaytimeMinutes approximates time spent from the victory count.
func EstimatePlaytimeMinutes(victories int) float64 {
	if victories < 0 {
		victories = 0
	}
	return round(float64(victories)*minutesPerVictory, 2)
}

// EstimatePlaytimeHours is the hour view of EstimatePlaytimeMinutes over all victories.
func EstimatePlaytimeHours(p player.Profile) float64 {
	return round(EstimatePlaytimeMinutes(p.TotalVictories())/60, 2)
}

// EstimateAccountValue is a gem-equivalent estimate of the unlocked roster.
func EstimateAccountValue(p player.Profile) int {
	maxed := 0
	for _, b := range p.Brawlers {
		if b.Power >= maxedPowerLevel {
			maxed++
		}
	}
	return len(p.Brawlers)*brawlerValue + maxed*maxedBrawlerBonus + len(p.Brawlers)*brawlerUpgradeValue
}

type PlayedBrawler struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Trophies        int    `json:"trophies"`
	HighestTrophies int    `json:"highestTrophies"`
	Rank            int    `json:"rank"`
	Power           int    `json:"power"`
	Prestige        int    `json:"prestige"`
	GamesEstimate   int    `json:"gamesEstimate"`
}

// TopPlayedBrawlers ranks brawlers by current trophies.
func TopPlayedBrawlers(brawlers []player.Brawler, limit int) []PlayedBrawler {
	if limit <= 0 {
		limit = 10
	}
	sorted := append([]player.Brawler(nil), brawlers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Trophies > sorted[j].Trophies })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]PlayedBrawler, 0, len(sorted))
	for _, b := range sorted {
		out = append(out, PlayedBrawler{
			ID:              b.ID,
			Name:            BrawlerName(b),
			Trophies:        b.Trophies,
			HighestTrophies: b.HighestTrophies,
			Rank:            b.Rank,
			Power:           b.Power,
			Prestige:        max(0, b.HighestTrophies-b.Trophies),
			GamesEstimate:   int(math.Round(float64(b.Trophies) / trophiesPerGame)),
		})
	}
	return out
}

func BrawlerName(b player.Brawler) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("Brawler #%d", b.ID)
}
