package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
)

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideEven  Side = "even"
)

const (
	eloEdge           = 250
	winrateEdge       = 3.0
	trophyEdge        = 250
	highestEdge       = 500
	similarEloGap     = 200
	similarWinrateGap = 2.5
)

type FaceToFace struct {
	Matches   int `json:"matches"`
	LeftWins  int `json:"leftWins"`
	RightWins int `json:"rightWins"`
	Draws     int `json:"draws"`
}

func battleKey(b player.Battle) string {
	return b.BattleTime + "|" + b.EventMode + "|" + b.EventMap
}

// FaceToFaceFromBattlelogs matches battles present in both logs by time, mode and map.
func FaceToFaceFromBattlelogs(left, right []player.Battle) FaceToFace {
	type leftResult struct {
		outcome Outcome
		ok      bool
	}
	seen := make(map[string]leftResult, len(left))
	for _, b := range left {
		key := battleKey(b)
		if strings.HasPrefix(key, "||") {
			continue
		}
		result, _ := b.Body.Get("result").Str()
		outcome, ok := NormalizeResult(result)
		seen[key] = leftResult{outcome: outcome, ok: ok}
	}

	var out FaceToFace
	for _, b := range right {
		l, found := seen[battleKey(b)]
		if !found {
			continue
		}
		out.Matches++
		result, _ := b.Body.Get("result").Str()
		r, rok := NormalizeResult(result)
		switch {
		case (l.ok && l.outcome == OutcomeWin) || (rok && r == OutcomeLoss):
			out.LeftWins++
		case (rok && r == OutcomeWin) || (l.ok && l.outcome == OutcomeLoss):
			out.RightWins++
		default:
			out.Draws++
		}
	}
	return out
}

// Contender is one side of a comparison.
type Contender struct {
	Tag           string
	Name          string
	RankedElo     int
	RankedWinrate float64
	Trophies      int
	Highest       int
}

type Favorite struct {
	Side         Side     `json:"side"`
	Tag          *string  `json:"tag"`
	Name         *string  `json:"name"`
	Reasons      []string `json:"reasons"`
	SimilarStats bool     `json:"similarStats"`
}

// DecideFavorite scores both sides: a clear ranked edge weighs 3, a recent ranked
// winrate edge 2, trophies and best trophies 1 each.
func DecideFavorite(left, right Contender, sharedClubs []string) Favorite {
	leftScore, rightScore := 0, 0
	reasons := []string{}

	switch {
	case left.RankedElo > right.RankedElo+eloEdge:
		leftScore += 3
		reasons = append(reasons, fmt.Sprintf("%s a un avantage ranked net.", left.Name))
	case right.RankedElo > left.RankedElo+eloEdge:
		rightScore += 3
		reasons = append(reasons, fmt.Sprintf("%s a un avantage ranked net.", right.Name))
	}

	switch {
	case left.RankedWinrate > right.RankedWinrate+winrateEdge:
		leftScore += 2
		reasons = append(reasons, fmt.Sprintf("%s a un meilleur winrate recent en ranked.", left.Name))
	case right.RankedWinrate > left.RankedWinrate+winrateEdge:
		rightScore += 2
		reasons = append(reasons, fmt.Sprintf("%s a un meilleur winrate recent en ranked.", right.Name))
	}

	switch {
	case left.Trophies > right.Trophies+trophyEdge:
		leftScore++
	case right.Trophies > left.Trophies+trophyEdge:
		rightScore++
	}

	switch {
	case left.Highest > right.Highest+highestEdge:
		leftScore++
	case right.Highest > left.Highest+highestEdge:
		rightScore++
	}

	if len(sharedClubs) > 0 {
		reasons = append(reasons, fmt.Sprintf("Historique commun: %s.", strings.Join(sharedClubs, ", ")))
	}

	similar := SimilarStats(left, right)
	if similar {
		reasons = append(reasons, "Niveau statistique tres proche sur l'echantillon recent.")
	}

	out := Favorite{Side: SideEven, Reasons: reasons, SimilarStats: similar}
	switch {
	case leftScore > rightScore:
		out.Side, out.Tag, out.Name = SideLeft, &left.Tag, &left.Name
	case rightScore > leftScore:
		out.Side, out.Tag, out.Name = SideRight, &right.Tag, &right.Name
	}
	return out
}

func SimilarStats(left, right Contender) bool {
	eloGap := left.RankedElo - right.RankedElo
	if eloGap < 0 {
		eloGap = -eloGap
	}
	return eloGap <= similarEloGap && math.Abs(left.RankedWinrate-right.RankedWinrate) <= similarWinrateGap
}

// SharedClubs lists clubs both players appear in across their history, preferring
// club names over tags, in first-seen order of the left player.
func SharedClubs(history []player.HistoryPoint, leftTag, rightTag string) []string {
	var leftOrder []string
	leftSet := map[string]struct{}{}
	rightSet := map[string]struct{}{}
	for _, row := range history {
		club := clubLabel(row.ClubName, row.ClubTag)
		if club == "" {
			continue
		}
		switch row.PlayerTag {
		case leftTag:
			if _, ok := leftSet[club]; !ok {
				leftSet[club] = struct{}{}
				leftOrder = append(leftOrder, club)
			}
		case rightTag:
			rightSet[club] = struct{}{}
		}
	}

	out := []string{}
	for _, club := range leftOrder {
		if _, ok := rightSet[club]; ok {
			out = append(out, club)
		}
	}
	return out
}

// CurrentClubLabel prefers the club name over its tag.
func CurrentClubLabel(club *player.Club) string {
	if club == nil {
		return ""
	}
	if name := strings.TrimSpace(club.Name); name != "" {
		return name
	}
	return strings.TrimSpace(club.Tag)
}

func clubLabel(name, tag *string) string {
	if name != nil && strings.TrimSpace(*name) != "" {
		return strings.TrimSpace(*name)
	}
	if tag != nil {
		return strings.TrimSpace(*tag)
	}
	return ""
}
