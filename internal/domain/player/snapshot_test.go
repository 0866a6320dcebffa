package player

import (
	"testing"

	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHash_IgnoresBrawlerOrderAndName(t *testing.T) {
	t.Parallel()

	base := Profile{
		Tag:             "#2PP",
		Name:            "Nova",
		Trophies:        50000,
		HighestTrophies: 51000,
		Club:            &Club{Tag: "#CLUB", Name: "Orion"},
		Brawlers: []Brawler{
			{ID: 16000001, Trophies: 900, HighestTrophies: 1000, Rank: 30, Power: 11},
			{ID: 16000000, Trophies: 1000, HighestTrophies: 1100, Rank: 32, Power: 11},
		},
	}
	reordered := base
	reordered.Name = "Renamed"
	reordered.Brawlers = []Brawler{base.Brawlers[1], base.Brawlers[0]}

	h1, err := SnapshotHash(base)
	require.NoError(t, err)
	h2, err := SnapshotHash(reordered)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	progressed := base
	progressed.Trophies++
	h3, err := SnapshotHash(progressed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestLooksGenuineProfile(t *testing.T) {
	t.Parallel()

	genuine := jsonvalue.MustParse(`{"tag":"#2PP","name":"Nova","trophies":100,"highestTrophies":120,"brawlers":[{"id":1}]}`)
	assert.True(t, LooksGenuineProfile(genuine, "2pp"))

	cases := map[string]string{
		"tag mismatch":      `{"tag":"#8YY","name":"Nova","trophies":1,"highestTrophies":1,"brawlers":[{"id":1}]}`,
		"empty name":        `{"tag":"#2PP","name":"","trophies":1,"highestTrophies":1,"brawlers":[{"id":1}]}`,
		"no brawlers":       `{"tag":"#2PP","name":"Nova","trophies":1,"highestTrophies":1,"brawlers":[]}`,
		"negative trophies": `{"tag":"#2PP","name":"Nova","trophies":-1,"highestTrophies":1,"brawlers":[{"id":1}]}`,
		"missing counters":  `{"tag":"#2PP","name":"Nova","brawlers":[{"id":1}]}`,
	}
	for name, raw := range cases {
		assert.False(t, LooksGenuineProfile(jsonvalue.MustParse(raw), "#2PP"), name)
	}
	assert.False(t, LooksGenuineProfile(jsonvalue.MustParse(`[1,2]`), "#2PP"))
}
