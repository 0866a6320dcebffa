package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	qb "github.com/riskibarqy/brawl-tracker/internal/platform/querybuilder"
)

var playerSelectColumns = []string{
	"tag",
	"name",
	"trophies",
	"highest_trophies",
	"exp_level",
	"victories_3v3",
	"solo_victories",
	"duo_victories",
	"club_tag",
	"club_name",
	"icon_id",
	"estimated_playtime_minutes",
	"last_battlelog_winrate",
	"last_snapshot_hash",
	"raw_payload::text AS raw_payload",
	"last_seen_at",
	"created_at",
	"updated_at",
}

type PlayerRepository struct {
	conn *Connector
}

func NewPlayerRepository(conn *Connector) *PlayerRepository {
	return &PlayerRepository{conn: conn}
}

func (r *PlayerRepository) GetByTag(ctx context.Context, tag string) (player.Record, bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return player.Record{}, false, err
	}
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("tag", tag)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Record{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Record{}, false, nil
		}
		return player.Record{}, false, fmt.Errorf("get player: %w", err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, record player.Record) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	row := playerToRow(record, now)
	query, args, err := qb.UpsertModel("players", row, []string{"tag"}, []string{"created_at"}, "")
	if err != nil {
		return fmt.Errorf("build upsert player query: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) ListRecent(ctx context.Context, limit int) ([]player.Record, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		OrderBy("last_seen_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent players query: %w", err)
	}

	var rows []playerTableModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent players: %w", err)
	}

	out := make([]player.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func playerToRow(record player.Record, now time.Time) playerTableModel {
	row := playerTableModel{
		Tag:                      record.Tag,
		Name:                     record.Name,
		Trophies:                 record.Trophies,
		HighestTrophies:          record.HighestTrophies,
		ExpLevel:                 toNullInt(record.ExpLevel),
		Victories3v3:             record.Victories3v3,
		SoloVictories:            record.SoloVictories,
		DuoVictories:             record.DuoVictories,
		ClubTag:                  toNullString(record.ClubTag),
		ClubName:                 toNullString(record.ClubName),
		IconID:                   toNullInt(record.IconID),
		EstimatedPlaytimeMinutes: record.EstimatedPlaytimeMinutes,
		LastBattlelogWinrate:     record.LastBattlelogWinrate,
		LastSnapshotHash:         record.LastSnapshotHash,
		RawPayload:               jsonbParam(record.RawPayload),
		LastSeenAt:               record.LastSeenAt,
		CreatedAt:                record.CreatedAt,
		UpdatedAt:                now,
	}
	if row.LastSeenAt.IsZero() {
		row.LastSeenAt = now
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	return row
}

func playerFromRow(row playerTableModel) player.Record {
	return player.Record{
		Tag:                      row.Tag,
		Name:                     row.Name,
		Trophies:                 row.Trophies,
		HighestTrophies:          row.HighestTrophies,
		ExpLevel:                 fromNullInt(row.ExpLevel),
		Victories3v3:             row.Victories3v3,
		SoloVictories:            row.SoloVictories,
		DuoVictories:             row.DuoVictories,
		ClubTag:                  fromNullString(row.ClubTag),
		ClubName:                 fromNullString(row.ClubName),
		IconID:                   fromNullInt(row.IconID),
		EstimatedPlaytimeMinutes: row.EstimatedPlaytimeMinutes,
		LastBattlelogWinrate:     row.LastBattlelogWinrate,
		LastSnapshotHash:         row.LastSnapshotHash,
		RawPayload:               jsonbBytes(row.RawPayload),
		LastSeenAt:               row.LastSeenAt,
		CreatedAt:                row.CreatedAt,
		UpdatedAt:                row.UpdatedAt,
	}
}
