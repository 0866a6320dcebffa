package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	Tag                      string         `db:"tag"`
	Name                     string         `db:"name"`
	Trophies                 int            `db:"trophies"`
	HighestTrophies          int            `db:"highest_trophies"`
	ExpLevel                 sql.NullInt64  `db:"exp_level"`
	Victories3v3             int            `db:"victories_3v3"`
	SoloVictories            int            `db:"solo_victories"`
	DuoVictories             int            `db:"duo_victories"`
	ClubTag                  sql.NullString `db:"club_tag"`
	ClubName                 sql.NullString `db:"club_name"`
	IconID                   sql.NullInt64  `db:"icon_id"`
	EstimatedPlaytimeMinutes float64        `db:"estimated_playtime_minutes"`
	LastBattlelogWinrate     float64        `db:"last_battlelog_winrate"`
	LastSnapshotHash         string         `db:"last_snapshot_hash"`
	RawPayload               sql.NullString `db:"raw_payload"`
	LastSeenAt               time.Time      `db:"last_seen_at"`
	CreatedAt                time.Time      `db:"created_at"`
	UpdatedAt                time.Time      `db:"updated_at"`
}

type historyTableModel struct {
	ID                       int64          `db:"id,readonly"`
	PlayerTag                string         `db:"player_tag"`
	SnapshotDate             time.Time      `db:"snapshot_date"`
	Trophies                 int            `db:"trophies"`
	HighestTrophies          int            `db:"highest_trophies"`
	ClubTag                  sql.NullString `db:"club_tag"`
	ClubName                 sql.NullString `db:"club_name"`
	EstimatedPlaytimeMinutes float64        `db:"estimated_playtime_minutes"`
	Winrate25                float64        `db:"winrate_25"`
	RawPayload               sql.NullString `db:"raw_payload"`
	CreatedAt                time.Time      `db:"created_at"`
}

type analyticsTableModel struct {
	PlayerTag           string          `db:"player_tag"`
	SnapshotDate        time.Time       `db:"snapshot_date"`
	RankedWinrate25     sql.NullFloat64 `db:"ranked_winrate_25"`
	TrophyWinrate25     sql.NullFloat64 `db:"trophy_winrate_25"`
	RankedMatchesSample int             `db:"ranked_matches_sample"`
	TrophyMatchesSample int             `db:"trophy_matches_sample"`
	MapsRanked          string          `db:"maps_ranked"`
	MapsTrophies        string          `db:"maps_trophies"`
	TopBrawlersRanked   string          `db:"top_brawlers_ranked"`
	TopBrawlersTrophies string          `db:"top_brawlers_trophies"`
	RankedBans          string          `db:"ranked_bans"`
	BattlelogSample     int             `db:"battlelog_sample"`
	UpdatedAt           time.Time       `db:"updated_at"`
}
