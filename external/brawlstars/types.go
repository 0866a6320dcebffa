package brawlstars

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
)

type playerPayload struct {
	Tag             string           `json:"tag"`
	Name            string           `json:"name"`
	NameColor       string           `json:"nameColor"`
	Icon            iconPayload      `json:"icon"`
	Trophies        int              `json:"trophies"`
	HighestTrophies int              `json:"highestTrophies"`
	ExpLevel        int              `json:"expLevel"`
	Victories3v3    int              `json:"3vs3Victories"`
	SoloVictories   int              `json:"soloVictories"`
	DuoVictories    int              `json:"duoVictories"`
	Club            *clubPayload     `json:"club"`
	Brawlers        []brawlerPayload `json:"brawlers"`
}

type iconPayload struct {
	ID int `json:"id"`
}

type clubPayload struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

type brawlerPayload struct {
	ID              int           `json:"id"`
	Name            localizedName `json:"name"`
	Power           int           `json:"power"`
	Rank            int           `json:"rank"`
	Trophies        int           `json:"trophies"`
	HighestTrophies int           `json:"highestTrophies"`
}

type brawlerCatalogEnvelope struct {
	Items []brawlerCatalogItem `json:"items"`
}

type brawlerCatalogItem struct {
	ID         int            `json:"id"`
	Name       localizedName  `json:"name"`
	StarPowers []namedAbility `json:"starPowers"`
	Gadgets    []namedAbility `json:"gadgets"`
}

type namedAbility struct {
	ID   int           `json:"id"`
	Name localizedName `json:"name"`
}

// localizedName accepts either a plain string or a {locale: name} object; the first
// non-empty translation wins.
type localizedName string

func (n *localizedName) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = ""
		return nil
	}

	var direct string
	if err := sonic.Unmarshal(trimmed, &direct); err == nil {
		*n = localizedName(direct)
		return nil
	}

	var translations map[string]string
	if err := sonic.Unmarshal(trimmed, &translations); err != nil {
		return err
	}
	for _, locale := range []string{"en", "EN", "fr", "FR"} {
		if v := translations[locale]; v != "" {
			*n = localizedName(v)
			return nil
		}
	}
	for _, v := range translations {
		if v != "" {
			*n = localizedName(v)
			return nil
		}
	}
	*n = ""
	return nil
}
