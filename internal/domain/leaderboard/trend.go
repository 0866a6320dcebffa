package leaderboard

import "github.com/riskibarqy/brawl-tracker/internal/domain/ranked"

// BuildSnapshotRecords normalizes tags and assigns positions from list order. A tag
// listed twice keeps its first (best) position.
func BuildSnapshotRecords(boardType Type, entries []Ranked) []SnapshotRecord {
	records := make([]SnapshotRecord, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		tag := ranked.NormalizeTag(entry.Tag)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		records = append(records, SnapshotRecord{
			Type:         boardType,
			PlayerTag:    tag,
			LastPosition: i + 1,
			LastValue:    entry.Value,
		})
	}
	return records
}

// ComputeTrends diffs current positions against the previously persisted ones.
// previous maps tag to last position; a missing or non-positive entry means new.
func ComputeTrends(current []SnapshotRecord, previous map[string]int) map[string]Trend {
	trends := make(map[string]Trend, len(current))
	for _, record := range current {
		prev, ok := previous[record.PlayerTag]
		if !ok || prev <= 0 {
			trends[record.PlayerTag] = Trend{Direction: DirectionNew}
			continue
		}

		diff := prev - record.LastPosition
		switch {
		case diff > 0:
			trends[record.PlayerTag] = Trend{Direction: DirectionUp, Places: diff, HasHistory: true}
		case diff < 0:
			trends[record.PlayerTag] = Trend{Direction: DirectionDown, Places: -diff, HasHistory: true}
		default:
			trends[record.PlayerTag] = Trend{Direction: DirectionStable, HasHistory: true}
		}
	}
	return trends
}
