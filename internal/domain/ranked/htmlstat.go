package ranked

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/riskibarqy/brawl-tracker/internal/platform/htmltext"
)

const (
	LabelRankedElo        = "Ranked Elo"
	LabelHighestRankedElo = "Highest Ranked Elo"
)

var ErrBotChallenge = errors.New("bot challenge page")

// StatExtractor finds the value displayed next to a stat label in a document.
type StatExtractor interface {
	Extract(document, label string) (int, bool)
}

// ProfileStats is what a scraped profile page yields.
type ProfileStats struct {
	Current int
	Peak    int
}

func (p ProfileStats) Found() bool {
	return p.Current > 0 || p.Peak > 0
}

// ParseProfilePage reads the current and peak ranked score from a profile page.
// Challenge pages return ErrBotChallenge so callers treat the source as unavailable.
func ParseProfilePage(document string, extractor StatExtractor) (ProfileStats, error) {
	if htmltext.IsBotChallenge(document) {
		return ProfileStats{}, ErrBotChallenge
	}
	if extractor == nil {
		extractor = NewPatternStatExtractor()
	}
	var stats ProfileStats
	stats.Current, _ = extractor.Extract(document, LabelRankedElo)
	stats.Peak, _ = extractor.Extract(document, LabelHighestRankedElo)
	return stats, nil
}

// PatternStatExtractor layers four regex strategies and keeps the largest sane value:
// a stat wrapper whose label element follows the value, a looser value-then-label
// match, label/value adjacency in flattened text, and quoted keys in inline scripts.
type PatternStatExtractor struct {
	contextWindow int
	patterns      sync.Map
}

func NewPatternStatExtractor() *PatternStatExtractor {
	return &PatternStatExtractor{contextWindow: 24}
}

// labelQualifiers turn a label into a different, longer one ("Highest Ranked Elo").
var labelQualifiers = []string{"highest", "best", "peak", "max", "record"}

// numberToken matches grouped numbers: "8250", "8,250", "8 250", "11 250".
const numberToken = `\d{1,3}(?:[,\x{00A0}\x{202F} ]\d{3})+|\d+`

var (
	suffixValue        = regexp.MustCompile(`^(?:\s*[:=\-–]\s*|\s+)(` + numberToken + `)\b`)
	prefixValue        = regexp.MustCompile(`(?:^|[^0-9A-Za-z#])(` + numberToken + `)\s*$`)
	embeddedKeyPattern = regexp.MustCompile(`\\?"([A-Za-z_][A-Za-z0-9_]*)\\?"\s*:\s*\\?"?(` + numberToken + `)`)
	leadingNumber      = regexp.MustCompile(`^\s*(` + numberToken + `)\s*$`)
	markupTag          = regexp.MustCompile(`<[^>]*>`)
)

func (e *PatternStatExtractor) Extract(document, label string) (int, bool) {
	label = strings.TrimSpace(label)
	if document == "" || label == "" {
		return 0, false
	}
	quoted := labelPattern(label)

	var candidates []int
	candidates = append(candidates, e.structured(document, quoted)...)
	candidates = append(candidates, e.proximity(document, quoted)...)
	candidates = append(candidates, e.flattened(htmltext.Flatten(document), label)...)
	candidates = append(candidates, e.embedded(document, label)...)

	best := maxOf(candidates)
	return best, best > 0
}

// labelPattern tolerates any whitespace or &nbsp; between the label's words.
func labelPattern(label string) string {
	return strings.Join(quotedWords(label), `(?:\s|&nbsp;|&#160;)+`)
}

func (e *PatternStatExtractor) structured(document, label string) []int {
	pattern := e.compile(`(?is)<(?:div|span|li)[^>]*class="[^"]*stat[^"]*"[^>]*>\s*([^<>]{1,32}?)\s*<label[^>]*>\s*` + label + `\s*</label>`)
	return capturedScores(document, pattern)
}

// proximity reads a value element followed by the label element. A value whose
// preceding text is another label ("<span>Highest Ranked Elo</span><span>7500</span>")
// belongs to that label.
func (e *PatternStatExtractor) proximity(document, label string) []int {
	pattern := e.compile(`(?is)>\s*([^<>]{1,32}?)\s*(?:<[^>]+>\s*){1,4}` + label + `\s*<`)

	var out []int
	for _, loc := range pattern.FindAllStringSubmatchIndex(document, -1) {
		if e.labelPrecedes(precedingText(document[:loc[2]])) {
			continue
		}
		out = appendCaptured(out, document[loc[2]:loc[3]])
	}
	return out
}

// compile caches label-specific patterns; labels come from a small fixed set.
func (e *PatternStatExtractor) compile(expr string) *regexp.Regexp {
	if cached, ok := e.patterns.Load(expr); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile(expr)
	e.patterns.Store(expr, re)
	return re
}

func capturedScores(document string, pattern *regexp.Regexp) []int {
	var out []int
	for _, match := range pattern.FindAllStringSubmatch(document, -1) {
		out = appendCaptured(out, match[1])
	}
	return out
}

func appendCaptured(out []int, raw string) []int {
	m := leadingNumber.FindStringSubmatch(htmltext.DecodeEntities(raw))
	if m == nil {
		return out
	}
	return appendScore(out, m[1])
}

// precedingText is the plain text right before a markup offset.
func precedingText(document string) string {
	chunk := markupTag.ReplaceAllString(tail(document, 256), " ")
	return strings.Join(strings.Fields(htmltext.DecodeEntities(chunk)), " ")
}

// flattened reads "Label: 1234", "Label 1234" and "1234 Label" in plain text. The
// context window keeps values that belong to a neighbouring label out:
// "Ranked Elo" inside "Highest Ranked Elo" is skipped, a number followed by another
// label is that label's prefix value, and a number right after another label is
// that label's suffix value.
func (e *PatternStatExtractor) flattened(text, label string) []int {
	if text == "" {
		return nil
	}
	labelRe := e.compile(`(?i)` + strings.Join(quotedWords(label), `\s+`))

	var out []int
	for _, loc := range labelRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if !wordBoundary(text, start, end) || e.qualified(text[:start]) {
			continue
		}

		before := text[:start]
		hasPrefix := false
		if m := prefixValue.FindStringSubmatchIndex(before); m != nil {
			lead := strings.TrimSpace(before[:m[2]])
			if !strings.HasSuffix(lead, ":") && !strings.HasSuffix(lead, "=") && !e.labelPrecedes(lead) {
				hasPrefix = true
				out = appendScore(out, before[m[2]:m[3]])
			}
		}

		after := text[end:]
		if m := suffixValue.FindStringSubmatchIndex(after); m != nil {
			separated := strings.ContainsAny(after[:m[2]], ":=-–")
			if separated || !hasPrefix || !e.labelFollows(after[m[1]:]) {
				out = appendScore(out, after[m[2]:m[3]])
			}
		}
	}
	return out
}

func quotedWords(label string) []string {
	words := strings.Fields(label)
	for i, word := range words {
		words[i] = regexp.QuoteMeta(word)
	}
	return words
}

func appendScore(out []int, raw string) []int {
	n, ok := ParseNumericText(raw)
	if !ok {
		return out
	}
	if score, valid := SanitizeRankedScore(n); valid {
		return append(out, score)
	}
	return out
}

func (e *PatternStatExtractor) window() int {
	if e.contextWindow <= 0 {
		return 24
	}
	return e.contextWindow
}

// qualified reports a qualifier word right before the label within the context window.
func (e *PatternStatExtractor) qualified(before string) bool {
	window := tail(before, e.window())
	fields := strings.Fields(window)
	if len(fields) == 0 {
		return false
	}
	return isQualifier(strings.ToLower(strings.Trim(fields[len(fields)-1], ":-–()")))
}

// labelFollows reports another stat label starting within the context window.
func (e *PatternStatExtractor) labelFollows(rest string) bool {
	window := strings.TrimSpace(strings.ToLower(head(rest, e.window())))
	for _, q := range labelQualifiers {
		if strings.HasPrefix(window, q+" ") {
			return true
		}
	}
	return strings.HasPrefix(window, strings.ToLower(LabelRankedElo)) || strings.HasPrefix(window, "trophies") || strings.HasPrefix(window, "elo")
}

// labelPrecedes reports that text ends with a stat label still waiting for its value,
// so the number after it is that label's suffix value. A label that already has a
// number in front of it ("6000 Ranked Elo") leaves the next number alone.
func (e *PatternStatExtractor) labelPrecedes(text string) bool {
	fields := strings.Fields(strings.ToLower(tail(text, 2*e.window())))
	for i, field := range fields {
		fields[i] = strings.Trim(field, ":-–()")
	}

	i := len(fields) - 1
	if i < 0 || (fields[i] != "elo" && fields[i] != "trophies") {
		return false
	}
	if fields[i] == "elo" && i > 0 && fields[i-1] == "ranked" {
		i--
	}
	if i > 0 && isQualifier(fields[i-1]) {
		i--
	}
	if i == 0 {
		return true
	}
	return !leadingNumber.MatchString(fields[i-1])
}

func isQualifier(word string) bool {
	for _, q := range labelQualifiers {
		if word == q {
			return true
		}
	}
	return false
}

func (e *PatternStatExtractor) embedded(document, label string) []int {
	target := ClassifyKey(label)
	if target.Class == KeyUnknown {
		return nil
	}
	var out []int
	for _, match := range embeddedKeyPattern.FindAllStringSubmatch(document, -1) {
		info := ClassifyKey(match[1])
		if info.Generic || info.Class != target.Class {
			continue
		}
		out = appendScore(out, match[2])
	}
	return out
}

func wordBoundary(s string, start, end int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
