package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	idgen "github.com/riskibarqy/brawl-tracker/internal/platform/id"
	qb "github.com/riskibarqy/brawl-tracker/internal/platform/querybuilder"
)

type metaTierTableModel struct {
	ID          string    `db:"id"`
	BrawlerName string    `db:"brawler_name"`
	Tier        string    `db:"tier"`
	Mode        string    `db:"mode"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

var metaTierSelectColumns = []string{"id::text AS id", "brawler_name", "tier", "mode", "created_at", "updated_at"}

// tierOrder sorts S before A before B before C.
const tierOrder = "CASE tier WHEN 'S' THEN 0 WHEN 'A' THEN 1 WHEN 'B' THEN 2 ELSE 3 END"

type MetaTierRepository struct {
	conn *Connector
	ids  idgen.Generator
}

func NewMetaTierRepository(conn *Connector, ids idgen.Generator) *MetaTierRepository {
	return &MetaTierRepository{conn: conn, ids: ids}
}

func (r *MetaTierRepository) List(ctx context.Context, mode string) ([]metatier.Entry, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	builder := qb.Select(metaTierSelectColumns...).From("meta_tierlist").
		OrderBy(tierOrder, "brawler_name")
	if mode != "" {
		builder = builder.Where(qb.Eq("mode", mode))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list meta tiers query: %w", err)
	}

	var rows []metaTierTableModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list meta tiers: %w", err)
	}

	out := make([]metatier.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, metaTierFromRow(row))
	}
	return out, nil
}

// Upsert keeps the id of an existing (brawler, mode) row.
func (r *MetaTierRepository) Upsert(ctx context.Context, entry metatier.Entry) (metatier.Entry, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return metatier.Entry{}, err
	}
	id, err := r.ids.NewID()
	if err != nil {
		return metatier.Entry{}, fmt.Errorf("generate meta tier id: %w", err)
	}

	now := time.Now().UTC()
	row := metaTierTableModel{
		ID:          id,
		BrawlerName: entry.BrawlerName,
		Tier:        string(entry.Tier),
		Mode:        entry.Mode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	query, args, err := qb.UpsertModel("meta_tierlist", row,
		[]string{"brawler_name", "mode"},
		[]string{"id", "created_at"},
		"id::text AS id, brawler_name, tier, mode, created_at, updated_at",
	)
	if err != nil {
		return metatier.Entry{}, fmt.Errorf("build upsert meta tier query: %w", err)
	}

	var saved metaTierTableModel
	if err := db.GetContext(ctx, &saved, query, args...); err != nil {
		return metatier.Entry{}, fmt.Errorf("upsert meta tier: %w", err)
	}
	return metaTierFromRow(saved), nil
}

func (r *MetaTierRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !idgen.Valid(id) {
		return false, nil
	}
	db, err := r.conn.DB(ctx)
	if err != nil {
		return false, err
	}
	query, args, err := qb.DeleteFrom("meta_tierlist").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete meta tier query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete meta tier: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted meta tier rows: %w", err)
	}
	return affected > 0, nil
}

func metaTierFromRow(row metaTierTableModel) metatier.Entry {
	return metatier.Entry{
		ID:          row.ID,
		BrawlerName: row.BrawlerName,
		Tier:        metatier.Tier(row.Tier),
		Mode:        row.Mode,
	}
}
