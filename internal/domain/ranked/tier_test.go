package ranked

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankTierFloorFromLabel_Monotonic(t *testing.T) {
	t.Parallel()

	gold3 := RankTierFloorFromLabel("Gold III")
	gold1 := RankTierFloorFromLabel("Gold I")
	silver3 := RankTierFloorFromLabel("Silver III")
	if !(gold3 > gold1 && gold1 > silver3) {
		t.Fatalf("expected Gold III > Gold I > Silver III, got %d %d %d", gold3, gold1, silver3)
	}

	ordered := []string{
		"Bronze I", "Bronze II", "Bronze III",
		"Silver I", "Silver II", "Silver III",
		"Gold I", "Gold II", "Gold III",
		"Diamond I", "Diamond II", "Diamond III",
		"Mythic I", "Mythic II", "Mythic III",
		"Legendary I", "Legendary II", "Legendary III",
		"Masters I", "Masters II", "Masters III",
		"Pro",
	}
	prev := 0
	for _, label := range ordered {
		floor := RankTierFloorFromLabel(label)
		if floor <= prev {
			t.Fatalf("expected %q floor above %d, got=%d", label, prev, floor)
		}
		prev = floor
	}
	assert.Equal(t, ProFloor, prev)
}

func TestRankTierFloorFromLabel_Variants(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"Légendaire III": 7500,
		"LEGENDARY 2":    6750,
		"  mythic  ":     4500,
		"Argent II":      1000,
		"Or III":         2500,
		"Diamant 3":      4000,
		"Masters":        8250,
		"Bronze I":       1,
		"Pro":            ProFloor,
		"Unranked":       0,
		"":               0,
		"Trophy Road":    0,
	}
	for label, want := range cases {
		assert.Equal(t, want, RankTierFloorFromLabel(label), label)
	}
}

func TestFormatRank(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		0:     "Non Classé",
		-10:   "Non Classé",
		100:   "Bronze I",
		999:   "Argent I",
		2999:  "Or III",
		6000:  "Légendaire I",
		8250:  "Masters I",
		11249: "Masters III",
		11250: "Pro",
	}
	for score, want := range cases {
		assert.Equal(t, want, FormatRank(score), score)
	}
}

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#2PP", NormalizeTag(" %232pp "))
	assert.Equal(t, "#2PP", NormalizeTag("##2pp"))
	assert.Equal(t, "2PP", TagWithoutMarker("#2pp"))
	assert.True(t, IsPlausibleTag("#P0LY8J2Q"))
	assert.False(t, IsPlausibleTag("#HELLO"))
	assert.False(t, IsPlausibleTag("#"))
}
