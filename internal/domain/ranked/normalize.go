package ranked

import (
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
)

// MaxReasonableScore bounds every ranked score we accept. Anything above is a trophy
// count or some other mis-attributed field.
const MaxReasonableScore = 20000

// ParseNumericScoreStrict reads numbers and loosely formatted numeric strings
// ("1 234", "12,500", "8 250"). ok is false for anything else.
func ParseNumericScoreStrict(value jsonvalue.Value) (float64, bool) {
	switch value.Kind() {
	case jsonvalue.KindNumber:
		n, _ := value.Num()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case jsonvalue.KindString:
		s, _ := value.Str()
		return ParseNumericText(s)
	default:
		return 0, false
	}
}

// ParseNumericScore is the lenient form: 0 when the value is not numeric.
func ParseNumericScore(value jsonvalue.Value) float64 {
	n, ok := ParseNumericScoreStrict(value)
	if !ok {
		return 0
	}
	return n
}

func ParseNumericText(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == '\u00a0' || r == '\u202f' || isSpace(r) {
			return -1
		}
		return r
	}, trimmed)
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// SanitizeRankedScore keeps 0 < x <= MaxReasonableScore and rejects the rest.
// Fractional inputs are rounded; no source reports fractional ranked points.
func SanitizeRankedScore(value float64) (int, bool) {
	if math.IsNaN(value) || value <= 0 || value > MaxReasonableScore {
		return 0, false
	}
	rounded := int(math.Round(value))
	if rounded <= 0 {
		return 0, false
	}
	return rounded, true
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
