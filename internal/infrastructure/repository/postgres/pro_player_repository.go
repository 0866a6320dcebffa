package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	qb "github.com/riskibarqy/brawl-tracker/internal/platform/querybuilder"
)

type proPlayerTableModel struct {
	ID                    string         `db:"id"`
	PlayerTag             string         `db:"player_tag"`
	DisplayName           string         `db:"display_name"`
	Team                  string         `db:"team"`
	MercatoStatus         string         `db:"mercato_status"`
	MatcherinoURL         sql.NullString `db:"matcherino_url"`
	MatcherinoEarningsUSD float64        `db:"matcherino_earnings_usd"`
	IsActive              bool           `db:"is_active"`
	Notes                 sql.NullString `db:"notes"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

var proPlayerSelectColumns = []string{
	"id::text AS id",
	"player_tag",
	"display_name",
	"team",
	"mercato_status",
	"matcherino_url",
	"matcherino_earnings_usd::float8 AS matcherino_earnings_usd",
	"is_active",
	"notes",
	"created_at",
	"updated_at",
}

type ProPlayerRepository struct {
	conn *Connector
}

func NewProPlayerRepository(conn *Connector) *ProPlayerRepository {
	return &ProPlayerRepository{conn: conn}
}

func (r *ProPlayerRepository) GetActiveByTag(ctx context.Context, tag string) (proplayer.ProPlayer, bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return proplayer.ProPlayer{}, false, err
	}
	query, args, err := qb.Select(proPlayerSelectColumns...).From("pro_players").
		Where(qb.Eq("player_tag", tag), qb.Expr("is_active")).
		Limit(1).
		ToSQL()
	if err != nil {
		return proplayer.ProPlayer{}, false, fmt.Errorf("build get pro player query: %w", err)
	}

	var row proPlayerTableModel
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return proplayer.ProPlayer{}, false, nil
		}
		return proplayer.ProPlayer{}, false, fmt.Errorf("get pro player: %w", err)
	}
	return proPlayerFromRow(row), true, nil
}

func (r *ProPlayerRepository) ListTopByEarnings(ctx context.Context, limit int) ([]proplayer.ProPlayer, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.Select(proPlayerSelectColumns...).From("pro_players").
		Where(qb.Expr("is_active")).
		OrderBy("matcherino_earnings_usd DESC", "display_name").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pro players query: %w", err)
	}

	var rows []proPlayerTableModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pro players: %w", err)
	}

	out := make([]proplayer.ProPlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, proPlayerFromRow(row))
	}
	return out, nil
}

func proPlayerFromRow(row proPlayerTableModel) proplayer.ProPlayer {
	return proplayer.ProPlayer{
		ID:                    row.ID,
		PlayerTag:             row.PlayerTag,
		DisplayName:           row.DisplayName,
		Team:                  row.Team,
		MercatoStatus:         row.MercatoStatus,
		MatcherinoURL:         fromNullString(row.MatcherinoURL),
		MatcherinoEarningsUSD: row.MatcherinoEarningsUSD,
		IsActive:              row.IsActive,
		Notes:                 fromNullString(row.Notes),
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
}
