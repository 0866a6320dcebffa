package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/searchhistory"
	qb "github.com/riskibarqy/brawl-tracker/internal/platform/querybuilder"
)

type searchHistoryTableModel struct {
	SessionID  string         `db:"session_id"`
	PlayerTag  string         `db:"player_tag"`
	PlayerName sql.NullString `db:"player_name"`
	SearchedAt time.Time      `db:"searched_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type SearchHistoryRepository struct {
	conn *Connector
}

func NewSearchHistoryRepository(conn *Connector) *SearchHistoryRepository {
	return &SearchHistoryRepository{conn: conn}
}

func (r *SearchHistoryRepository) Upsert(ctx context.Context, item searchhistory.Item) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	row := searchHistoryTableModel{
		SessionID:  item.SessionID,
		PlayerTag:  item.PlayerTag,
		PlayerName: toNullString(item.PlayerName),
		SearchedAt: item.SearchedAt,
		UpdatedAt:  item.UpdatedAt,
	}
	query, args, err := qb.UpsertModel("search_history", row, []string{"session_id", "player_tag"}, nil, "")
	if err != nil {
		return fmt.Errorf("build upsert search history query: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert search history: %w", err)
	}
	return nil
}

func (r *SearchHistoryRepository) ListLatest(ctx context.Context, sessionID string, limit int) ([]searchhistory.Item, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.Select("session_id", "player_tag", "player_name", "searched_at", "updated_at").
		From("search_history").
		Where(qb.Eq("session_id", sessionID)).
		OrderBy("updated_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list search history query: %w", err)
	}

	var rows []searchHistoryTableModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}

	out := make([]searchhistory.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, searchhistory.Item{
			SessionID:  row.SessionID,
			PlayerTag:  row.PlayerTag,
			PlayerName: fromNullString(row.PlayerName),
			SearchedAt: row.SearchedAt,
			UpdatedAt:  row.UpdatedAt,
		})
	}
	return out, nil
}
