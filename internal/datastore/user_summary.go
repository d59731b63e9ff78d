package datastore

import (
	"context"
	"time"

	"xpledger/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

func CreateTableUserSummary(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserSummary)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	// leaderboard ordering: total_xp DESC, created_at ASC
	_, err = db.NewCreateIndex().Model((*models.UserSummary)(nil)).Index("index_user_summary_total_xp").IfNotExists().Column("total_xp", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// EnsureUserSummary creates the zero-state row on a user's first award.
// Safe under concurrency: a racing insert is absorbed by DO NOTHING and the
// follow-up locked read sees whichever row won.
func EnsureUserSummary(ctx context.Context, db bun.IDB, userID string, now time.Time) error {
	summary := &models.UserSummary{
		UserID:    userID,
		TotalXP:   0,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := db.NewInsert().Model(summary).On("CONFLICT (user_id) DO NOTHING").Exec(ctx)
	return err
}

func GetUserSummary(ctx context.Context, db bun.IDB, userID string) (*models.UserSummary, error) {
	var summary models.UserSummary
	err := db.NewSelect().Model(&summary).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// GetUserSummaryForUpdate reads the summary row under a row lock so that
// concurrent awards for the same user serialize for the rest of the
// transaction. SQLite has no FOR UPDATE; its single writer covers it.
func GetUserSummaryForUpdate(ctx context.Context, db bun.IDB, userID string) (*models.UserSummary, error) {
	var summary models.UserSummary
	q := db.NewSelect().Model(&summary).Where("user_id = ?", userID)
	if db.Dialect().Name() == dialect.PG {
		q = q.For("UPDATE")
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func UpdateUserSummaryTotals(ctx context.Context, db bun.IDB, userID string, totalXP int64, level int, now time.Time) error {
	_, err := db.NewUpdate().
		Model((*models.UserSummary)(nil)).
		Set("total_xp = ?", totalXP).
		Set("level = ?", level).
		Set("updated_at = ?", now).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}

// GetLeaderboard pages summaries by total XP descending, earliest-created
// first among ties, so the ordering is stable across requests.
func GetLeaderboard(ctx context.Context, db bun.IDB, limit, offset int) ([]*models.UserSummary, error) {
	var summaries []*models.UserSummary
	err := db.NewSelect().
		Model(&summaries).
		Order("total_xp DESC").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// GetUserRank returns the 1-based position of the summary in the full
// leaderboard ordering.
func GetUserRank(ctx context.Context, db bun.IDB, summary *models.UserSummary) (int, error) {
	ahead, err := db.NewSelect().
		Model((*models.UserSummary)(nil)).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("total_xp > ?", summary.TotalXP).
				WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.
						Where("total_xp = ?", summary.TotalXP).
						Where("created_at < ?", summary.CreatedAt)
				})
		}).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return ahead + 1, nil
}

func AggregateGlobal(ctx context.Context, db bun.IDB) (*models.GlobalAggregate, error) {
	var agg models.GlobalAggregate
	err := db.NewSelect().
		Model((*models.UserSummary)(nil)).
		ColumnExpr("COUNT(*) AS users").
		ColumnExpr("COALESCE(SUM(total_xp), 0) AS total_xp").
		// the cast keeps the empty-table 0 a float across dialects
		ColumnExpr("CAST(COALESCE(AVG(level), 0) AS REAL) AS average_level").
		ColumnExpr("COALESCE(MAX(total_xp), 0) AS max_xp").
		Scan(ctx, &agg)
	if err != nil {
		return nil, err
	}

	return &agg, nil
}
