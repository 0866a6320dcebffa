package leaderboard

import (
	"regexp"
	"sort"

	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
)

// rankedLinePattern matches "<rank> <name> #<tag> <score>" in flattened leaderboard text.
// Scores may be grouped ("11 250", "11,250").
var rankedLinePattern = regexp.MustCompile(
	`(?:^|\s)(\d{1,3})\.?\s+([^#]{1,40}?)\s+#([0-9A-Za-z]{3,15})\s+(\d{4,5}|\d{1,2}[,\x{00A0}\x{202F} ]\d{3}|\d{1,3})\b`,
)

// innerRank catches a row whose match started at an earlier number in a page header
// ("Top 100 players 1 Nova #..."): the last "<n> " token before the tag is the rank.
var innerRank = regexp.MustCompile(`^(?:.*\s)?(\d{1,3})\.?\s+(\S.*)$`)

// ParseRankedLeaderboardText extracts board rows from flattened text. Rows with a
// malformed tag or a score outside the ranked band are dropped; duplicates keep the
// first row. Output is ordered by rank, then score descending, and cut to limit.
func ParseRankedLeaderboardText(text string, limit int) []Entry {
	matches := rankedLinePattern.FindAllStringSubmatch(text, -1)
	entries := make([]Entry, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, m := range matches {
		tag := ranked.NormalizeTag(m[3])
		if !ranked.IsPlausibleTag(tag) {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}

		rankText, name := m[1], m[2]
		if inner := innerRank.FindStringSubmatch(name); inner != nil {
			rankText, name = inner[1], inner[2]
		}
		rank, ok := ranked.ParseNumericText(rankText)
		if !ok || rank < 1 {
			continue
		}
		rawScore, ok := ranked.ParseNumericText(m[4])
		if !ok {
			continue
		}
		score, ok := ranked.SanitizeRankedScore(rawScore)
		if !ok {
			continue
		}

		seen[tag] = struct{}{}
		entries = append(entries, Entry{
			Tag:    tag,
			Name:   name,
			Rank:   int(rank),
			Score:  score,
			IconID: DefaultIconID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank < entries[j].Rank
		}
		return entries[i].Score > entries[j].Score
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// SortByScore orders entries by score descending, most recently seen first on ties,
// and reassigns 1-based ranks.
func SortByScore(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].LastSeenAt.After(entries[j].LastSeenAt)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
