package leaderboard

const seedMatcherinoURL = "https://matcherino.com"

var esportSeeds = []struct {
	tag, name, team string
	earnings        int
}{
	{"#P0LY8J2Q", "Nova", "Orion Esports", 48500},
	{"#Q2GCUV9L", "Raven", "Aether Club", 45100},
	{"#8YJ0Q2PC", "Kyro", "North Peak", 42300},
	{"#2L8Q9JVC", "Pulse", "Vertex", 39100},
	{"#9Q2PUV8C", "Styx", "Crimson Tide", 35800},
	{"#Y8Q2LCVP", "Mako", "Blue Forge", 32900},
	{"#CUV2Q8PJ", "Astra", "Solar Unit", 30100},
	{"#VQ2Y8LPC", "Shade", "Night Shift", 27900},
	{"#P2Q8LCVY", "Keen", "Frontline", 25100},
	{"#J8Q2PCVY", "Echo", "Summit", 22900},
}

// EsportSeeds is the static earnings board shown when no pro roster is stored.
// Each call returns fresh values.
func EsportSeeds(limit int) []EsportEntry {
	n := len(esportSeeds)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]EsportEntry, 0, n)
	for _, seed := range esportSeeds[:n] {
		url := seedMatcherinoURL
		out = append(out, EsportEntry{
			Tag:           seed.tag,
			DisplayName:   seed.name,
			Team:          seed.team,
			MatcherinoURL: &url,
			EarningsUSD:   seed.earnings,
			IconID:        DefaultIconID,
			Score:         seed.earnings,
		})
	}
	return out
}
