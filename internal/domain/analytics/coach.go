package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
)

const (
	coachSample        = 25
	coachMinModeGames  = 3
	coachPowerTarget   = 9
	coachTrophyGapTips = 100
	maxCoachTips       = 3
)

// CoachTips builds up to three French training tips: the weakest recent mode, the
// roster power level and the brawler that lost the most trophies from its peak.
func CoachTips(p player.Profile, battles []player.Battle) []string {
	tips := make([]string, 0, maxCoachTips)

	if mode, rate, ok := weakestMode(battles); ok {
		tips = append(tips, fmt.Sprintf(
			"Ton mode le moins rentable est %s (%.0f%% WR): révise tes drafts et ton placement sur ce mode en priorité.",
			mode, rate,
		))
	} else if p.Victories3v3 < p.SoloVictories+p.DuoVictories {
		tips = append(tips, "Tu as plus de victoires en solo/duo qu'en 3v3: ajoute des sessions en équipe pour progresser en macro et objectifs.")
	} else {
		tips = append(tips, "Ton volume 3v3 est solide: spécialise-toi sur 2 modes principaux pour monter plus vite ton winrate global.")
	}

	avg := averagePower(p.Brawlers)
	if avg < coachPowerTarget {
		tips = append(tips, fmt.Sprintf("Ta puissance moyenne est de %.1f: monte d'abord 8 brawlers à Power 10+ pour stabiliser tes résultats.", avg))
	} else {
		tips = append(tips, fmt.Sprintf("Ta puissance moyenne est %.1f: travaille surtout le positionnement et le timing de gadget pour convertir plus de parties.", avg))
	}

	if gap, ok := topGapBrawler(p.Brawlers); ok && gap.HighestTrophies-gap.Trophies >= coachTrophyGapTips {
		tips = append(tips, fmt.Sprintf("Tu as perdu du terrain sur %s: concentre 15-20 parties dessus pour récupérer ce pic de trophées.", BrawlerName(gap)))
	} else {
		tips = append(tips, "Tes brawlers sont stables: pour passer un cap, cible les compos meta et évite de changer de brawler toutes les 2 parties.")
	}

	return tips
}

type modeRecord struct {
	mode         string
	wins, losses int
}

func weakestMode(battles []player.Battle) (string, float64, bool) {
	if len(battles) > coachSample {
		battles = battles[:coachSample]
	}
	var order []string
	stats := map[string]*modeRecord{}
	for _, b := range battles {
		mode := ModeOf(b)
		stat, ok := stats[mode]
		if !ok {
			stat = &modeRecord{mode: mode}
			stats[mode] = stat
			order = append(order, mode)
		}
		result, _ := b.Body.Get("result").Str()
		value := strings.ToLower(result)
		switch {
		case strings.Contains(value, "victory"), strings.Contains(value, "win"):
			stat.wins++
		case strings.Contains(value, "defeat"), strings.Contains(value, "loss"), strings.Contains(value, "lose"):
			stat.losses++
		}
	}

	weakest := ""
	weakestRate := 101.0
	for _, mode := range order {
		stat := stats[mode]
		matches := stat.wins + stat.losses
		if matches < coachMinModeGames {
			continue
		}
		rate := float64(stat.wins) / float64(matches) * 100
		if rate < weakestRate {
			weakestRate = rate
			weakest = mode
		}
	}
	return weakest, weakestRate, weakest != ""
}

func averagePower(brawlers []player.Brawler) float64 {
	if len(brawlers) == 0 {
		return 0
	}
	total := 0
	for _, b := range brawlers {
		total += b.Power
	}
	return float64(total) / float64(len(brawlers))
}

func topGapBrawler(brawlers []player.Brawler) (player.Brawler, bool) {
	if len(brawlers) == 0 {
		return player.Brawler{}, false
	}
	sorted := append([]player.Brawler(nil), brawlers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].HighestTrophies-sorted[i].Trophies > sorted[j].HighestTrophies-sorted[j].Trophies
	})
	return sorted[0], true
}
