package searchhistory

import (
	"regexp"
	"strings"
	"time"
)

// MaxItems is how many recent searches a session sees.
const MaxItems = 8

var sessionPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,80}$`)

// Item is one remembered search, unique per (session, tag).
type Item struct {
	SessionID  string
	PlayerTag  string
	PlayerName *string
	SearchedAt time.Time
	UpdatedAt  time.Time
}

// CleanSessionID trims raw and reports whether it is a usable session id.
func CleanSessionID(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !sessionPattern.MatchString(trimmed) {
		return "", false
	}
	return trimmed, true
}
