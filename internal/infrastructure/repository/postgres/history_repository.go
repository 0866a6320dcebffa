package postgres

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	qb "github.com/riskibarqy/brawl-tracker/internal/platform/querybuilder"
)

var historySelectColumns = []string{
	"id",
	"player_tag",
	"snapshot_date",
	"trophies",
	"highest_trophies",
	"club_tag",
	"club_name",
	"estimated_playtime_minutes",
	"winrate_25",
	"raw_payload::text AS raw_payload",
	"created_at",
}

var analyticsSelectColumns = []string{
	"player_tag",
	"snapshot_date",
	"ranked_winrate_25",
	"trophy_winrate_25",
	"ranked_matches_sample",
	"trophy_matches_sample",
	"maps_ranked::text AS maps_ranked",
	"maps_trophies::text AS maps_trophies",
	"top_brawlers_ranked::text AS top_brawlers_ranked",
	"top_brawlers_trophies::text AS top_brawlers_trophies",
	"ranked_bans::text AS ranked_bans",
	"battlelog_sample",
	"updated_at",
}

type HistoryRepository struct {
	conn *Connector
}

func NewHistoryRepository(conn *Connector) *HistoryRepository {
	return &HistoryRepository{conn: conn}
}

func (r *HistoryRepository) HasHistory(ctx context.Context, tag string) (bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return false, err
	}
	query, args, err := qb.Select("id").From("history").
		Where(qb.Eq("player_tag", tag)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build history existence query: %w", err)
	}

	var ids []int64
	if err := db.SelectContext(ctx, &ids, query, args...); err != nil {
		return false, fmt.Errorf("read history existence: %w", err)
	}
	return len(ids) > 0, nil
}

func (r *HistoryRepository) UpsertHistory(ctx context.Context, point player.HistoryPoint) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	createdAt := point.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := historyTableModel{
		PlayerTag:                point.PlayerTag,
		SnapshotDate:             utcDate(point.SnapshotDate),
		Trophies:                 point.Trophies,
		HighestTrophies:          point.HighestTrophies,
		ClubTag:                  toNullString(point.ClubTag),
		ClubName:                 toNullString(point.ClubName),
		EstimatedPlaytimeMinutes: point.EstimatedPlaytimeMinutes,
		Winrate25:                point.Winrate25,
		RawPayload:               jsonbParam(point.RawPayload),
		CreatedAt:                createdAt,
	}
	query, args, err := qb.UpsertModel("history", row, []string{"player_tag", "snapshot_date"}, []string{"created_at"}, "")
	if err != nil {
		return fmt.Errorf("build upsert history query: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert history: %w", err)
	}
	return nil
}

// ListHistory reads the most recent points and returns them oldest first.
func (r *HistoryRepository) ListHistory(ctx context.Context, tag string, limit int) ([]player.HistoryPoint, error) {
	points, err := r.selectHistory(ctx, []string{tag}, limit)
	if err != nil {
		return nil, err
	}
	slices.Reverse(points)
	return points, nil
}

func (r *HistoryRepository) ListHistoryForTags(ctx context.Context, tags []string, limit int) ([]player.HistoryPoint, error) {
	if len(tags) == 0 {
		return []player.HistoryPoint{}, nil
	}
	return r.selectHistory(ctx, tags, limit)
}

func (r *HistoryRepository) selectHistory(ctx context.Context, tags []string, limit int) ([]player.HistoryPoint, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.Select(historySelectColumns...).From("history").
		Where(qb.In("player_tag", stringSliceToAny(tags))).
		OrderBy("snapshot_date DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list history query: %w", err)
	}

	var rows []historyTableModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]player.HistoryPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.HistoryPoint{
			ID:                       row.ID,
			PlayerTag:                row.PlayerTag,
			SnapshotDate:             row.SnapshotDate,
			Trophies:                 row.Trophies,
			HighestTrophies:          row.HighestTrophies,
			ClubTag:                  fromNullString(row.ClubTag),
			ClubName:                 fromNullString(row.ClubName),
			EstimatedPlaytimeMinutes: row.EstimatedPlaytimeMinutes,
			Winrate25:                row.Winrate25,
			RawPayload:               jsonbBytes(row.RawPayload),
			CreatedAt:                row.CreatedAt,
		})
	}
	return out, nil
}

func (r *HistoryRepository) UpsertAnalytics(ctx context.Context, snapshot player.AnalyticsSnapshot) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	updatedAt := snapshot.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	row := analyticsTableModel{
		PlayerTag:           snapshot.PlayerTag,
		SnapshotDate:        utcDate(snapshot.SnapshotDate),
		RankedWinrate25:     toNullFloat(snapshot.RankedWinrate25),
		TrophyWinrate25:     toNullFloat(snapshot.TrophyWinrate25),
		RankedMatchesSample: snapshot.RankedMatchesSample,
		TrophyMatchesSample: snapshot.TrophyMatchesSample,
		MapsRanked:          jsonbArrayParam(snapshot.MapsRanked),
		MapsTrophies:        jsonbArrayParam(snapshot.MapsTrophies),
		TopBrawlersRanked:   jsonbArrayParam(snapshot.TopBrawlersRanked),
		TopBrawlersTrophies: jsonbArrayParam(snapshot.TopBrawlersTrophies),
		RankedBans:          jsonbArrayParam(snapshot.RankedBans),
		BattlelogSample:     snapshot.BattlelogSample,
		UpdatedAt:           updatedAt,
	}
	query, args, err := qb.UpsertModel("player_analytics_snapshots", row, []string{"player_tag", "snapshot_date"}, nil, "")
	if err != nil {
		return fmt.Errorf("build upsert analytics query: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert analytics snapshot: %w", err)
	}
	return nil
}

func (r *HistoryRepository) GetAnalytics(ctx context.Context, tag string, date time.Time) (player.AnalyticsSnapshot, bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return player.AnalyticsSnapshot{}, false, err
	}
	query, args, err := qb.Select(analyticsSelectColumns...).From("player_analytics_snapshots").
		Where(qb.Eq("player_tag", tag), qb.Eq("snapshot_date", utcDate(date))).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.AnalyticsSnapshot{}, false, fmt.Errorf("build get analytics query: %w", err)
	}

	var row analyticsTableModel
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.AnalyticsSnapshot{}, false, nil
		}
		return player.AnalyticsSnapshot{}, false, fmt.Errorf("get analytics snapshot: %w", err)
	}
	return player.AnalyticsSnapshot{
		PlayerTag:           row.PlayerTag,
		SnapshotDate:        row.SnapshotDate,
		RankedWinrate25:     fromNullFloat(row.RankedWinrate25),
		TrophyWinrate25:     fromNullFloat(row.TrophyWinrate25),
		RankedMatchesSample: row.RankedMatchesSample,
		TrophyMatchesSample: row.TrophyMatchesSample,
		MapsRanked:          []byte(row.MapsRanked),
		MapsTrophies:        []byte(row.MapsTrophies),
		TopBrawlersRanked:   []byte(row.TopBrawlersRanked),
		TopBrawlersTrophies: []byte(row.TopBrawlersTrophies),
		RankedBans:          []byte(row.RankedBans),
		BattlelogSample:     row.BattlelogSample,
		UpdatedAt:           row.UpdatedAt,
	}, true, nil
}
