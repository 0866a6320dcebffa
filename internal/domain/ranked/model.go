package ranked

import (
	"regexp"
	"strings"
)

// Source names where a snapshot came from.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceScrape  Source = "scrape"
	SourceMirror  Source = "mirror"
)

// Snapshot is the resolved ranked state of one player. It is merged into a player
// profile and never persisted on its own.
type Snapshot struct {
	Score     int
	RankLabel *string
	PeakScore *int
	Source    Source
	Origin    string
}

// Acceptable reports whether a mirror candidate carries anything worth returning.
func (s Snapshot) Acceptable() bool {
	return s.Score > 0 || (s.RankLabel != nil && *s.RankLabel != "")
}

var tagPattern = regexp.MustCompile(`^#[0289PYLQGRJCUV]{3,15}$`)

// NormalizeTag canonicalizes a player tag: uppercase, URL-encoded "#" removed, a single
// leading "#".
func NormalizeTag(raw string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	trimmed = strings.ReplaceAll(trimmed, "%23", "")
	trimmed = strings.TrimLeft(trimmed, "#")
	return "#" + trimmed
}

// TagWithoutMarker is the tag as it appears in profile URLs.
func TagWithoutMarker(tag string) string {
	return strings.TrimPrefix(NormalizeTag(tag), "#")
}

// IsPlausibleTag checks the game's tag alphabet after normalization.
func IsPlausibleTag(tag string) bool {
	return tagPattern.MatchString(NormalizeTag(tag))
}
