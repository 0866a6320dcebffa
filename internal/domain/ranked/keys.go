package ranked

import "strings"

type KeyClass uint8

const (
	KeyUnknown KeyClass = iota
	KeyCurrent
	KeyPeak
	KeyTierLabel
)

// KeySet selects which key classes a scan collects.
type KeySet uint8

const (
	CurrentKeys KeySet = 1 << iota
	PeakKeys
	TierLabelKeys
)

func (s KeySet) Has(class KeyClass) bool {
	switch class {
	case KeyCurrent:
		return s&CurrentKeys != 0
	case KeyPeak:
		return s&PeakKeys != 0
	case KeyTierLabel:
		return s&TierLabelKeys != 0
	default:
		return false
	}
}

// KeyInfo classifies one payload key. Generic keys may carry a tier label string
// but never a numeric score: a bare "rank" is usually a leaderboard position.
type KeyInfo struct {
	Class   KeyClass
	Generic bool
}

// keyClasses is the single classification table for every source (primary API,
// mirrors, tracked raw payloads). Keys are stored normalized.
var keyClasses = map[string]KeyInfo{
	"rankscore":          {Class: KeyCurrent},
	"rankpoints":         {Class: KeyCurrent},
	"rankpoint":          {Class: KeyCurrent},
	"rankedpoints":       {Class: KeyCurrent},
	"rankedpoint":        {Class: KeyCurrent},
	"elo":                {Class: KeyCurrent},
	"currentelo":         {Class: KeyCurrent},
	"currentrankedelo":   {Class: KeyCurrent},
	"currentrankedscore": {Class: KeyCurrent},
	"rankedelo":          {Class: KeyCurrent},
	"rankedscore":        {Class: KeyCurrent},
	"rankedtrophies":     {Class: KeyCurrent},
	"powerleagueelo":     {Class: KeyCurrent},
	"powermatchelo":      {Class: KeyCurrent},

	"highestrankedpoints":   {Class: KeyPeak},
	"bestrankedpoints":      {Class: KeyPeak},
	"maxrankedpoints":       {Class: KeyPeak},
	"peakrankedpoints":      {Class: KeyPeak},
	"highestrankedtrophies": {Class: KeyPeak},
	"bestrankedtrophies":    {Class: KeyPeak},
	"highestrankedelo":      {Class: KeyPeak},
	"bestrankedelo":         {Class: KeyPeak},
	"bestelo":               {Class: KeyPeak},
	"maxrankedelo":          {Class: KeyPeak},
	"peakrankedelo":         {Class: KeyPeak},
	"rankedrecord":          {Class: KeyPeak},

	"rank":                {Class: KeyTierLabel, Generic: true},
	"currentrank":         {Class: KeyTierLabel},
	"bestrank":            {Class: KeyTierLabel},
	"rankname":            {Class: KeyTierLabel},
	"league":              {Class: KeyTierLabel},
	"tier":                {Class: KeyTierLabel},
	"rankedtier":          {Class: KeyTierLabel},
	"rankedleague":        {Class: KeyTierLabel},
	"currentrankname":     {Class: KeyTierLabel},
	"currentrankedtier":   {Class: KeyTierLabel},
	"currentrankedleague": {Class: KeyTierLabel},
}

// NormalizeKey drops every non-alphanumeric rune and lowercases: "ranked_elo",
// "RankedElo" and "ranked-elo" all become "rankedelo".
func NormalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

func ClassifyKey(key string) KeyInfo {
	normalized := NormalizeKey(key)
	// Per-brawler fields ("brawlerRank", "brawler_rank_tier") describe one brawler,
	// not the account.
	if strings.Contains(normalized, "brawler") {
		return KeyInfo{Class: KeyUnknown, Generic: true}
	}
	return keyClasses[normalized]
}

// allowsNumeric reports whether a key's value may be read as a ranked score.
func (k KeyInfo) allowsNumeric(set KeySet) bool {
	return !k.Generic && set.Has(k.Class)
}

func (k KeyInfo) allowsLabel(set KeySet) bool {
	return set.Has(k.Class)
}
