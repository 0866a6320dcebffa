package httpapi

import (
	"fmt"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
)

var errMissingCoachInput = fmt.Errorf("%w: player payload or tag is required", usecase.ErrInvalidInput)

func (h *Handler) coachFromPayload(raw []byte) (usecase.CoachAdvice, error) {
	doc, err := jsonvalue.Parse(raw)
	if err != nil {
		return usecase.CoachAdvice{}, fmt.Errorf("%w: invalid player payload: %v", usecase.ErrInvalidInput, err)
	}
	if _, ok := doc.Object(); !ok {
		return usecase.CoachAdvice{}, fmt.Errorf("%w: player payload must be an object", usecase.ErrInvalidInput)
	}

	battles := battlesFromPayload(doc.Get("battles"))
	if len(battles) == 0 {
		battles = battlesFromPayload(doc.Get("battlelog"))
	}
	return h.coachService.TipsForProfile(profileFromPayload(doc), battles), nil
}

// profileFromPayload reads a client-supplied profile leniently: missing fields default
// the way the public profile page does.
func profileFromPayload(doc jsonvalue.Value) player.Profile {
	p := player.Profile{
		Tag:           textOr(doc.Get("tag"), "#UNKNOWN"),
		Name:          textOr(doc.Get("name"), "Unknown Player"),
		Trophies:      intOf(doc.Get("trophies")),
		Victories3v3:  intOf(doc.Get("3vs3Victories")),
		SoloVictories: intOf(doc.Get("soloVictories")),
		DuoVictories:  intOf(doc.Get("duoVictories")),
		IconID:        intOf(doc.Get("icon").Get("id")),
		Raw:           doc,
	}
	p.HighestTrophies = p.Trophies
	if _, ok := doc.Get("highestTrophies").Num(); ok {
		p.HighestTrophies = intOf(doc.Get("highestTrophies"))
	}
	if club := doc.Get("club"); !club.IsNull() {
		p.Club = &player.Club{Tag: club.Get("tag").Text(), Name: club.Get("name").Text()}
	}

	items, _ := doc.Get("brawlers").Array()
	for _, item := range items.Items() {
		p.Brawlers = append(p.Brawlers, player.Brawler{
			ID:              intOf(item.Get("id")),
			Name:            item.Get("name").Text(),
			Power:           intOf(item.Get("power")),
			Rank:            intOf(item.Get("rank")),
			Trophies:        intOf(item.Get("trophies")),
			HighestTrophies: intOf(item.Get("highestTrophies")),
		})
	}
	return p
}

func battlesFromPayload(value jsonvalue.Value) []player.Battle {
	items, ok := value.Array()
	if !ok {
		return nil
	}
	out := make([]player.Battle, 0, items.Len())
	for _, item := range items.Items() {
		event := item.Get("event")
		out = append(out, player.Battle{
			BattleTime: item.Get("battleTime").Text(),
			EventID:    intOf(event.Get("id")),
			EventMode:  event.Get("mode").Text(),
			EventMap:   event.Get("map").Text(),
			Body:       item.Get("battle"),
		})
	}
	return out
}

func intOf(v jsonvalue.Value) int {
	n, _ := v.Num()
	return int(n)
}

func textOr(v jsonvalue.Value, fallback string) string {
	if text := v.Text(); text != "" {
		return text
	}
	return fallback
}
