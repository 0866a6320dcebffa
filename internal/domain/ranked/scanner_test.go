package ranked

import (
	"testing"

	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/stretchr/testify/assert"
)

func TestCollectNumericForKeys_IgnoresGenericRank(t *testing.T) {
	t.Parallel()

	record := jsonvalue.MustParse(`{"rank": 3, "rankedElo": 8700}`)
	got := CollectNumericForKeys(record, CurrentKeys|PeakKeys|TierLabelKeys)
	assert.Equal(t, []int{8700}, got)
	assert.Equal(t, 8700, maxOf(got))
}

func TestCollectNumericForKeys_NestedAndSpellingDrift(t *testing.T) {
	t.Parallel()

	record := jsonvalue.MustParse(`{
		"tag": "#2PP",
		"stats": {"ranked": {"ranked_score": "9 100", "power-league-elo": 700}},
		"brawlers": [{"id": 1, "rank": 35, "trophies": 1200, "brawlerRank": 30}],
		"trophies": 65000,
		"history": [[{"RankedElo": 25000}]]
	}`)

	got := CollectNumericForKeys(record, CurrentKeys)
	assert.ElementsMatch(t, []int{9100, 700}, got)
}

func TestCollectTierFloorsForKeys_ReadsLabelsOnly(t *testing.T) {
	t.Parallel()

	record := jsonvalue.MustParse(`{"rank": "Masters II", "league": 4, "brawlers": [{"rank": 25}], "bestRank": "Gold I"}`)
	got := CollectTierFloorsForKeys(record, TierLabelKeys)
	assert.ElementsMatch(t, []int{9250, 1500}, got)
}

func TestCollect_TerminatesOnCycles(t *testing.T) {
	t.Parallel()

	root := jsonvalue.NewObject()
	child := jsonvalue.NewObject()
	list := jsonvalue.NewArray()

	root.Set("rankedElo", jsonvalue.Number(6100))
	root.Set("child", child.Value())
	child.Set("self", child.Value())
	child.Set("parent", root.Value())
	child.Set("items", list.Value())
	list.Append(root.Value(), child.Value(), list.Value())
	child.Set("bestRankedElo", jsonvalue.String("7,200"))
	child.Set("rankName", jsonvalue.String("Legendary III"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.Equal(t, []int{6100}, CollectNumericForKeys(root.Value(), CurrentKeys))
		assert.Equal(t, []int{7200}, CollectNumericForKeys(root.Value(), PeakKeys))
		assert.Equal(t, []string{"Legendary III"}, CollectLabelsForKeys(root.Value(), TierLabelKeys))
	}()
	<-done
}

func TestCollect_NonObjectRootIsEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, CollectNumericForKeys(jsonvalue.String("8000"), CurrentKeys))
	assert.Empty(t, CollectTierFloorsForKeys(jsonvalue.Null(), TierLabelKeys))
}

func TestClassifyKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KeyInfo{Class: KeyCurrent}, ClassifyKey("ranked_elo"))
	assert.Equal(t, KeyInfo{Class: KeyPeak}, ClassifyKey("Highest-Ranked-Trophies"))
	assert.Equal(t, KeyInfo{Class: KeyTierLabel, Generic: true}, ClassifyKey("rank"))
	assert.True(t, ClassifyKey("brawler_rank").Generic)
	assert.Equal(t, KeyUnknown, ClassifyKey("trophies").Class)
}
