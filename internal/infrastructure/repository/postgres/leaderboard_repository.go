package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	qb "github.com/riskibarqy/brawl-tracker/internal/platform/querybuilder"
)

type leaderboardSnapshotTableModel struct {
	Type         string    `db:"leaderboard_type"`
	PlayerTag    string    `db:"player_tag"`
	LastPosition int       `db:"last_position"`
	LastValue    int       `db:"last_value"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type LeaderboardRepository struct {
	conn *Connector
}

func NewLeaderboardRepository(conn *Connector) *LeaderboardRepository {
	return &LeaderboardRepository{conn: conn}
}

func (r *LeaderboardRepository) ListByTags(ctx context.Context, boardType leaderboard.Type, tags []string) ([]leaderboard.SnapshotRecord, error) {
	if len(tags) == 0 {
		return []leaderboard.SnapshotRecord{}, nil
	}
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.Select("leaderboard_type", "player_tag", "last_position", "last_value", "updated_at").
		From("leaderboard_snapshots").
		Where(
			qb.Eq("leaderboard_type", string(boardType)),
			qb.In("player_tag", stringSliceToAny(tags)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard snapshots query: %w", err)
	}

	var rows []leaderboardSnapshotTableModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard snapshots: %w", err)
	}

	out := make([]leaderboard.SnapshotRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.SnapshotRecord{
			Type:         leaderboard.Type(row.Type),
			PlayerTag:    row.PlayerTag,
			LastPosition: row.LastPosition,
			LastValue:    row.LastValue,
		})
	}
	return out, nil
}

// Upsert writes every record in one statement.
func (r *LeaderboardRepository) Upsert(ctx context.Context, records []leaderboard.SnapshotRecord) error {
	if len(records) == 0 {
		return nil
	}
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rows := make([]leaderboardSnapshotTableModel, 0, len(records))
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("validate leaderboard snapshot: %w", err)
		}
		rows = append(rows, leaderboardSnapshotTableModel{
			Type:         string(record.Type),
			PlayerTag:    record.PlayerTag,
			LastPosition: record.LastPosition,
			LastValue:    record.LastValue,
			UpdatedAt:    now,
		})
	}

	query, args, err := qb.UpsertModels("leaderboard_snapshots", rows, []string{"leaderboard_type", "player_tag"}, nil)
	if err != nil {
		return fmt.Errorf("build upsert leaderboard snapshots query: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert leaderboard snapshots: %w", err)
	}
	return nil
}
