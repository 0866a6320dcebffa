package analytics

import "github.com/riskibarqy/brawl-tracker/internal/domain/player"

const (
	winrateSample   = 25
	winrateScanSize = 60
)

type Summary struct {
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	Matches int     `json:"matches"`
	Winrate float64 `json:"winrate"`
}

func (s *Summary) add(outcome Outcome) {
	switch outcome {
	case OutcomeWin:
		s.Wins++
	case OutcomeLoss:
		s.Losses++
	case OutcomeDraw:
		s.Draws++
	}
}

func (s Summary) finish() Summary {
	s.Matches = s.Wins + s.Losses + s.Draws
	if s.Matches > 0 {
		s.Winrate = round(float64(s.Wins)/float64(s.Matches)*100, 2)
	}
	return s
}

type Breakdown struct {
	Overall       Summary  `json:"overall"`
	Ranked        Summary  `json:"ranked"`
	Ladder        Summary  `json:"ladder"`
	RankedWinrate *float64 `json:"rankedWinrate"`
	LadderWinrate *float64 `json:"ladderWinrate"`
}

type classified struct {
	kind    MatchType
	outcome Outcome
}

func summarize(entries []classified) Breakdown {
	var overall, rankedSummary, ladder Summary
	for _, entry := range entries {
		overall.add(entry.outcome)
		switch entry.kind {
		case MatchRanked:
			rankedSummary.add(entry.outcome)
		case MatchLadder:
			ladder.add(entry.outcome)
		}
	}

	out := Breakdown{
		Overall: overall.finish(),
		Ranked:  rankedSummary.finish(),
		Ladder:  ladder.finish(),
	}
	if out.Ranked.Matches > 0 {
		v := out.Ranked.Winrate
		out.RankedWinrate = &v
	}
	if out.Ladder.Matches > 0 {
		v := out.Ladder.Winrate
		out.LadderWinrate = &v
	}
	return out
}

// Winrate25 summarizes the first 25 battles with a readable outcome among the 60 most recent.
func Winrate25(battles []player.Battle) Breakdown {
	if len(battles) > winrateScanSize {
		battles = battles[:winrateScanSize]
	}
	entries := make([]classified, 0, winrateSample)
	for _, b := range battles {
		outcome, ok := ParseOutcome(b)
		if !ok {
			continue
		}
		entries = append(entries, classified{kind: ClassifyMatchType(b), outcome: outcome})
		if len(entries) >= winrateSample {
			break
		}
	}
	return summarize(entries)
}
