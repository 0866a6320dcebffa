package ranked

import "github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"

type extractOptions struct {
	fallbackFromDB int
}

type ExtractOption func(*extractOptions)

// WithStoredFallback supplies the last score persisted for the player; it is used when
// the payload itself carries nothing usable.
func WithStoredFallback(score int) ExtractOption {
	return func(o *extractOptions) {
		o.fallbackFromDB = score
	}
}

var embeddedFallbackKeys = []string{"lastRankedElo", "last_ranked_elo", "previousRankedElo", "previous_ranked_elo"}

// ExtractCurrentRankedElo is the best current-score candidate in the payload, 0 when none.
func ExtractCurrentRankedElo(root jsonvalue.Value) int {
	return maxOf(CollectNumericForKeys(root, CurrentKeys))
}

// ExtractPeakRankedElo combines explicit peak fields with the floors of any tier labels.
func ExtractPeakRankedElo(root jsonvalue.Value) int {
	peak := maxOf(CollectNumericForKeys(root, PeakKeys))
	if floor := maxOf(CollectTierFloorsForKeys(root, TierLabelKeys)); floor > peak {
		peak = floor
	}
	return peak
}

// ExtractRankedElo picks the ranked score for a profile payload:
// current score, then peak/tier floor, then the stored fallback, then
// previous-score fields embedded in the payload.
func ExtractRankedElo(root jsonvalue.Value, opts ...ExtractOption) int {
	var options extractOptions
	for _, opt := range opts {
		opt(&options)
	}

	if current := ExtractCurrentRankedElo(root); current > 0 {
		return current
	}

	// Without a numeric score (common for Masters+ labels) the peak is the closest estimate.
	if peak := ExtractPeakRankedElo(root); peak > 0 {
		return peak
	}

	if options.fallbackFromDB > 0 {
		return options.fallbackFromDB
	}

	for _, key := range embeddedFallbackKeys {
		n, ok := ParseNumericScoreStrict(root.Get(key))
		if ok && n > 0 {
			if score, valid := SanitizeRankedScore(n); valid {
				return score
			}
		}
	}
	return 0
}

// SnapshotFromRecord scans one upstream record into a snapshot. The label is the
// first recognizable tier label in document order.
func SnapshotFromRecord(record jsonvalue.Value, source Source, origin string) Snapshot {
	snapshot := Snapshot{
		Score:  ExtractCurrentRankedElo(record),
		Source: source,
		Origin: origin,
	}
	if peak := maxOf(CollectNumericForKeys(record, PeakKeys)); peak > 0 {
		snapshot.PeakScore = &peak
	}
	if labels := CollectLabelsForKeys(record, TierLabelKeys); len(labels) > 0 {
		label := labels[0]
		snapshot.RankLabel = &label
	}
	return snapshot
}
