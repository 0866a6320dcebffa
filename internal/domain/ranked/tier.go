package ranked

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Family string

const (
	FamilyBronze    Family = "bronze"
	FamilySilver    Family = "silver"
	FamilyGold      Family = "gold"
	FamilyDiamond   Family = "diamond"
	FamilyMythic    Family = "mythic"
	FamilyLegendary Family = "legendary"
	FamilyMasters   Family = "masters"
	FamilyPro       Family = "pro"
)

// ProFloor is the single floor for Pro, the top of the ladder.
const ProFloor = 11250

type tierRule struct {
	family  Family
	needles []string
	floors  [3]int
}

// Checked in order after Pro: the first family whose needle appears wins.
var tierRules = []tierRule{
	{family: FamilyMasters, needles: []string{"master"}, floors: [3]int{8250, 9250, 10250}},
	{family: FamilyLegendary, needles: []string{"legend"}, floors: [3]int{6000, 6750, 7500}},
	{family: FamilyMythic, needles: []string{"myth"}, floors: [3]int{4500, 5000, 5500}},
	{family: FamilyDiamond, needles: []string{"diam"}, floors: [3]int{3000, 3500, 4000}},
	{family: FamilyGold, needles: []string{"gold", "or "}, floors: [3]int{1500, 2000, 2500}},
	{family: FamilySilver, needles: []string{"silver", "argent"}, floors: [3]int{750, 1000, 1250}},
	{family: FamilyBronze, needles: []string{"bronze"}, floors: [3]int{1, 250, 500}},
}

var diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeLabel strips diacritics, lowercases and trims.
func NormalizeLabel(label string) string {
	out, _, err := transform.String(diacritics, label)
	if err != nil {
		out = label
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// RankTierFloorFromLabel maps a tier label ("Legendary III", "Légendaire 2", "Pro") to
// the minimum score of that tier. Unknown labels map to 0.
func RankTierFloorFromLabel(label string) int {
	normalized := NormalizeLabel(label)
	if normalized == "" {
		return 0
	}
	if strings.Contains(normalized, "pro") {
		return ProFloor
	}

	level := labelLevel(normalized)
	for _, rule := range tierRules {
		for _, needle := range rule.needles {
			if strings.Contains(normalized, needle) {
				return rule.floors[level-1]
			}
		}
	}
	return 0
}

// labelLevel reads the sub-level from roman or arabic tokens, defaulting to 1.
func labelLevel(normalized string) int {
	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i := len(tokens) - 1; i >= 0; i-- {
		switch tokens[i] {
		case "iii", "3":
			return 3
		case "ii", "2":
			return 2
		case "i", "1":
			return 1
		}
	}
	return 1
}

// FormatRank renders a score as the French tier label shown on profile pages.
func FormatRank(score int) string {
	if score <= 0 {
		return "Non Classé"
	}
	for _, band := range rankBands {
		if score < band.below {
			return band.label
		}
	}
	return "Pro"
}

var rankBands = []struct {
	below int
	label string
}{
	{250, "Bronze I"}, {500, "Bronze II"}, {750, "Bronze III"},
	{1000, "Argent I"}, {1250, "Argent II"}, {1500, "Argent III"},
	{2000, "Or I"}, {2500, "Or II"}, {3000, "Or III"},
	{3500, "Diamant I"}, {4000, "Diamant II"}, {4500, "Diamant III"},
	{5000, "Mythique I"}, {5500, "Mythique II"}, {6000, "Mythique III"},
	{6750, "Légendaire I"}, {7500, "Légendaire II"}, {8250, "Légendaire III"},
	{9250, "Masters I"}, {10250, "Masters II"}, {11250, "Masters III"},
}
