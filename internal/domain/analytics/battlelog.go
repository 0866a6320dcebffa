package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
)

const (
	statsLimit      = 8
	unknownMap      = "Map inconnue"
	unknownBrawler  = "Brawler inconnu"
	defaultScanSize = 60
)

type MapStat struct {
	Map     string  `json:"map"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	Winrate float64 `json:"winrate"`
}

type BrawlerUsage struct {
	ID      *int    `json:"id"`
	Name    string  `json:"name"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	Winrate float64 `json:"winrate"`
}

type BanStat struct {
	ID   *int   `json:"id"`
	Name string `json:"name"`
	Bans int    `json:"bans"`
}

type BattlelogAnalytics struct {
	SampledMatches      int            `json:"sampledMatches"`
	RankedSampleMatches int            `json:"rankedSampleMatches"`
	TrophySampleMatches int            `json:"trophySampleMatches"`
	RankedWinrate25     *float64       `json:"rankedWinrate25"`
	TrophyWinrate25     *float64       `json:"trophyWinrate25"`
	RankedSeasonWinrate *float64       `json:"rankedSeasonWinrate"`
	SeasonIsEstimated   bool           `json:"seasonIsEstimated"`
	MapsOverall         []MapStat      `json:"mapsOverall"`
	MapsRanked          []MapStat      `json:"mapsRanked"`
	MapsTrophies        []MapStat      `json:"mapsTrophies"`
	TopBrawlersRanked   []BrawlerUsage `json:"topBrawlersRanked"`
	TopBrawlersTrophies []BrawlerUsage `json:"topBrawlersTrophies"`
	RankedBans          []BanStat      `json:"rankedBans"`
}

type counter struct {
	matches, wins, losses, draws int
}

func (c *counter) add(outcome Outcome, ok bool) {
	c.matches++
	if !ok {
		return
	}
	switch outcome {
	case OutcomeWin:
		c.wins++
	case OutcomeLoss:
		c.losses++
	case OutcomeDraw:
		c.draws++
	}
}

func (c counter) winrate() float64 {
	if c.matches == 0 {
		return 0
	}
	return round(float64(c.wins)/float64(c.matches)*100, 1)
}

type identity struct {
	id   *int
	name string
}

func (i identity) key() string {
	if i.id != nil {
		return "id:" + strconv.Itoa(*i.id)
	}
	return "name:" + strings.ToLower(i.name)
}

// keyed keeps insertion order so equal-ranked rows sort deterministically.
type keyed[T any] struct {
	order []string
	items map[string]*T
}

func newKeyed[T any]() *keyed[T] {
	return &keyed[T]{items: map[string]*T{}}
}

func (k *keyed[T]) upsert(key string, init func() T) *T {
	if item, ok := k.items[key]; ok {
		return item
	}
	item := init()
	k.items[key] = &item
	k.order = append(k.order, key)
	return &item
}

func (k *keyed[T]) values() []*T {
	out := make([]*T, 0, len(k.order))
	for _, key := range k.order {
		out = append(out, k.items[key])
	}
	return out
}

type mapBucket struct {
	label string
	counter
}

type brawlerBucket struct {
	identity
	counter
}

// ComputeBattlelogAnalytics derives map, brawler and ban statistics from the 25 most
// recent battles of playerTag.
func ComputeBattlelogAnalytics(battles []player.Battle, playerTag string, scanLimit int) BattlelogAnalytics {
	if scanLimit <= 0 {
		scanLimit = defaultScanSize
	}
	if scanLimit < winrateSample {
		scanLimit = winrateSample
	}
	tag := ranked.NormalizeTag(playerTag)
	if len(battles) > scanLimit {
		battles = battles[:scanLimit]
	}
	focus := battles
	if len(focus) > winrateSample {
		focus = focus[:winrateSample]
	}

	entries := make([]classified, 0, winrateSample)
	mapsOverall := newKeyed[mapBucket]()
	mapsRanked := newKeyed[mapBucket]()
	mapsTrophies := newKeyed[mapBucket]()
	rankedBrawlers := newKeyed[brawlerBucket]()
	trophyBrawlers := newKeyed[brawlerBucket]()
	bans := newKeyed[BanStat]()

	for _, b := range focus {
		kind := ClassifyMatchType(b)
		outcome, ok := ParseOutcome(b)
		if ok {
			entries = append(entries, classified{kind: kind, outcome: outcome})
		}

		mapName := strings.TrimSpace(b.EventMap)
		if mapName == "" {
			mapName = unknownMap
		}
		mapKey := strings.ToLower(mapName)
		initMap := func() mapBucket { return mapBucket{label: mapName} }
		mapsOverall.upsert(mapKey, initMap).add(outcome, ok)
		switch kind {
		case MatchRanked:
			mapsRanked.upsert(mapKey, initMap).add(outcome, ok)
			collectBans(b, bans)
		case MatchLadder:
			mapsTrophies.upsert(mapKey, initMap).add(outcome, ok)
		}

		brawler, found := playerBrawler(b, tag)
		if !found {
			continue
		}
		target := trophyBrawlers
		if kind == MatchRanked {
			target = rankedBrawlers
		}
		target.upsert(brawler.key(), func() brawlerBucket { return brawlerBucket{identity: brawler} }).add(outcome, ok)
	}

	breakdown := summarize(entries)
	return BattlelogAnalytics{
		SampledMatches:      len(focus),
		RankedSampleMatches: breakdown.Ranked.Matches,
		TrophySampleMatches: breakdown.Ladder.Matches,
		RankedWinrate25:     breakdown.RankedWinrate,
		TrophyWinrate25:     breakdown.LadderWinrate,
		// the public battlelog only exposes recent matches, so the season figure is the recent one
		RankedSeasonWinrate: breakdown.RankedWinrate,
		SeasonIsEstimated:   true,
		MapsOverall:         mapStats(mapsOverall),
		MapsRanked:          mapStats(mapsRanked),
		MapsTrophies:        mapStats(mapsTrophies),
		TopBrawlersRanked:   brawlerUsage(rankedBrawlers),
		TopBrawlersTrophies: brawlerUsage(trophyBrawlers),
		RankedBans:          banStats(bans),
	}
}

func mapStats(source *keyed[mapBucket]) []MapStat {
	out := make([]MapStat, 0, len(source.order))
	for _, bucket := range source.values() {
		out = append(out, MapStat{
			Map:     bucket.label,
			Matches: bucket.matches,
			Wins:    bucket.wins,
			Losses:  bucket.losses,
			Draws:   bucket.draws,
			Winrate: bucket.winrate(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].Winrate > out[j].Winrate
	})
	if len(out) > statsLimit {
		out = out[:statsLimit]
	}
	return out
}

func brawlerUsage(source *keyed[brawlerBucket]) []BrawlerUsage {
	out := make([]BrawlerUsage, 0, len(source.order))
	for _, bucket := range source.values() {
		out = append(out, BrawlerUsage{
			ID:      bucket.id,
			Name:    bucket.name,
			Matches: bucket.matches,
			Wins:    bucket.wins,
			Losses:  bucket.losses,
			Draws:   bucket.draws,
			Winrate: bucket.winrate(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].Winrate > out[j].Winrate
	})
	if len(out) > statsLimit {
		out = out[:statsLimit]
	}
	return out
}

func banStats(source *keyed[BanStat]) []BanStat {
	out := make([]BanStat, 0, len(source.order))
	for _, item := range source.values() {
		out = append(out, *item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Bans > out[j].Bans })
	if len(out) > statsLimit {
		out = out[:statsLimit]
	}
	return out
}

func collectBans(b player.Battle, target *keyed[BanStat]) {
	for _, key := range []string{"bans", "bannedBrawlers", "leftBans", "rightBans"} {
		list, ok := b.Body.Get(key).Array()
		if !ok {
			continue
		}
		for _, raw := range list.Items() {
			ban, ok := parseIdentity(raw, unknownBrawler)
			if !ok {
				continue
			}
			target.upsert(ban.key(), func() BanStat { return BanStat{ID: ban.id, Name: ban.name} }).Bans++
		}
	}
}

// playerBrawler finds the brawler played by tag: the battle's own brawler field first,
// then the brawlers list, then the tag's entry in teams or players.
func playerBrawler(b player.Battle, tag string) (identity, bool) {
	if _, ok := b.Body.Object(); !ok {
		return identity{}, false
	}
	if direct, ok := parseIdentity(b.Body.Get("brawler"), unknownBrawler); ok {
		return direct, true
	}
	if list, ok := b.Body.Get("brawlers").Array(); ok {
		for _, entry := range list.Items() {
			if found, ok := parseIdentity(entry, unknownBrawler); ok {
				return found, true
			}
		}
	}

	var groups []jsonvalue.Value
	if teams, ok := b.Body.Get("teams").Array(); ok {
		groups = append(groups, teams.Items()...)
	}
	groups = append(groups, b.Body.Get("players"))
	for _, group := range groups {
		members, ok := group.Array()
		if !ok {
			continue
		}
		for _, entry := range members.Items() {
			if _, ok := entry.Object(); !ok {
				continue
			}
			entryTag, _ := entry.Get("tag").Str()
			if ranked.NormalizeTag(entryTag) != tag {
				continue
			}
			if found, ok := brawlerFromBattlePlayer(entry); ok {
				return found, true
			}
		}
	}
	return identity{}, false
}

func brawlerFromBattlePlayer(entry jsonvalue.Value) (identity, bool) {
	if found, ok := parseIdentity(entry.Get("brawler"), unknownBrawler); ok {
		return found, true
	}
	if id, ok := ranked.ParseNumericScoreStrict(entry.Get("brawlerId")); ok {
		n := int(id)
		return identity{id: &n, name: fmt.Sprintf("Brawler #%d", n)}, true
	}
	if name := readableName(entry.Get("brawlerName"), ""); name != "" {
		return identity{name: name}, true
	}
	return identity{}, false
}

// parseIdentity accepts either a brawler object or a bare positive id.
func parseIdentity(value jsonvalue.Value, fallbackName string) (identity, bool) {
	if _, ok := value.Object(); !ok {
		if id, ok := ranked.ParseNumericScoreStrict(value); ok && id > 0 {
			n := int(id)
			return identity{id: &n, name: fmt.Sprintf("Brawler #%d", n)}, true
		}
		return identity{}, false
	}

	var id *int
	fallback := fallbackName
	if parsed, ok := ranked.ParseNumericScoreStrict(value.Get("id")); ok {
		n := int(parsed)
		id = &n
		fallback = fmt.Sprintf("Brawler #%d", n)
	}
	name := readableName(value.Get("name"), fallback)
	if id == nil && name == fallbackName {
		return identity{}, false
	}
	return identity{id: id, name: name}, true
}

// readableName accepts a plain string or a localized object and returns its first
// non-empty string.
func readableName(value jsonvalue.Value, fallback string) string {
	if s, ok := value.Str(); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if obj, ok := value.Object(); ok {
		for _, m := range obj.Members() {
			if s, ok := m.Value.Str(); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return fallback
}
