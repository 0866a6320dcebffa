package htmltext

import "strings"

// challengeMarkers are phrases from JavaScript and CDN interstitials. A page carrying
// any of them has no profile data in it.
var challengeMarkers = []string{
	"just a moment...",
	"checking your browser",
	"cf-browser-verification",
	"cf_chl_opt",
	"challenge-platform",
	"cf-turnstile",
	"attention required! | cloudflare",
	"enable javascript and cookies to continue",
	"please enable javascript to continue",
	"ddos-guard",
	"verifying you are human",
}

// IsBotChallenge reports whether raw HTML is a bot-protection page.
func IsBotChallenge(raw string) bool {
	lowered := strings.ToLower(raw)
	for _, marker := range challengeMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
