package player

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
)

type hashBrawler struct {
	ID              int `json:"id"`
	Trophies        int `json:"trophies"`
	HighestTrophies int `json:"highestTrophies"`
	Rank            int `json:"rank"`
	Power           int `json:"power"`
}

type hashPayload struct {
	Tag             string        `json:"tag"`
	Trophies        int           `json:"trophies"`
	HighestTrophies int           `json:"highestTrophies"`
	ClubTag         *string       `json:"clubTag"`
	ClubName        *string       `json:"clubName"`
	Brawlers        []hashBrawler `json:"brawlers"`
}

// SnapshotHash fingerprints the progression-relevant part of a profile. Two payloads
// with the same hash describe the same daily state.
func SnapshotHash(p Profile) (string, error) {
	payload := hashPayload{
		Tag:             p.Tag,
		Trophies:        p.Trophies,
		HighestTrophies: p.HighestTrophies,
		Brawlers:        make([]hashBrawler, 0, len(p.Brawlers)),
	}
	if p.Club != nil {
		if p.Club.Tag != "" {
			payload.ClubTag = &p.Club.Tag
		}
		if p.Club.Name != "" {
			payload.ClubName = &p.Club.Name
		}
	}
	for _, b := range p.Brawlers {
		payload.Brawlers = append(payload.Brawlers, hashBrawler{
			ID:              b.ID,
			Trophies:        b.Trophies,
			HighestTrophies: b.HighestTrophies,
			Rank:            b.Rank,
			Power:           b.Power,
		})
	}
	sort.SliceStable(payload.Brawlers, func(i, j int) bool {
		return payload.Brawlers[i].ID < payload.Brawlers[j].ID
	})

	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot hash payload: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// LooksGenuineProfile guards the tracked-player fallback against partial or synthetic
// rows: the raw payload must carry the expected tag, a name, at least one brawler and
// non-negative trophy counters.
func LooksGenuineProfile(raw jsonvalue.Value, tag string) bool {
	if _, ok := raw.Object(); !ok {
		return false
	}
	payloadTag, ok := raw.Get("tag").Str()
	if !ok || ranked.NormalizeTag(payloadTag) != ranked.NormalizeTag(tag) {
		return false
	}
	if name, ok := raw.Get("name").Str(); !ok || name == "" {
		return false
	}
	brawlers, ok := raw.Get("brawlers").Array()
	if !ok || brawlers.Len() == 0 {
		return false
	}
	for _, key := range []string{"trophies", "highestTrophies"} {
		n, ok := raw.Get(key).Num()
		if !ok || n < 0 {
			return false
		}
	}
	return true
}

// ToRecord maps a live profile to its persisted row.
func ToRecord(p Profile, raw []byte, hash string, playtimeMinutes, winrate float64) Record {
	record := Record{
		Tag:                      p.Tag,
		Name:                     p.Name,
		Trophies:                 p.Trophies,
		HighestTrophies:          p.HighestTrophies,
		Victories3v3:             p.Victories3v3,
		SoloVictories:            p.SoloVictories,
		DuoVictories:             p.DuoVictories,
		EstimatedPlaytimeMinutes: playtimeMinutes,
		LastBattlelogWinrate:     winrate,
		LastSnapshotHash:         hash,
		RawPayload:               raw,
	}
	if p.ExpLevel > 0 {
		level := p.ExpLevel
		record.ExpLevel = &level
	}
	if p.IconID > 0 {
		icon := p.IconID
		record.IconID = &icon
	}
	if p.Club != nil {
		if p.Club.Tag != "" {
			clubTag := p.Club.Tag
			record.ClubTag = &clubTag
		}
		if p.Club.Name != "" {
			clubName := p.Club.Name
			record.ClubName = &clubName
		}
	}
	return record
}
