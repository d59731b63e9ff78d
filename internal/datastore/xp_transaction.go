package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"xpledger/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func CreateTableXPTransaction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.XPTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.XPTransaction)(nil)).Index("index_xp_transaction_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.XPTransaction)(nil)).Index("index_xp_transaction_user_id_category").IfNotExists().Column("user_id", "category").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.XPTransaction)(nil)).Index("index_xp_transaction_occurred_at").IfNotExists().Column("occurred_at").Exec(ctx)
	if err != nil {
		return err
	}

	// backstop for the event replay guard; the orchestrator checks first
	// under the summary row lock
	_, err = db.NewCreateIndex().Model((*models.XPTransaction)(nil)).
		Index("index_xp_transaction_event").
		IfNotExists().Unique().
		Column("user_id", "category", "event_id").
		Where("event_id IS NOT NULL").
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertXPTransaction appends one ledger row. The id is assigned here; rows
// are never updated or deleted afterwards.
func InsertXPTransaction(ctx context.Context, db bun.IDB, txn *models.XPTransaction) error {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}

	_, err := db.NewInsert().Model(txn).Exec(ctx)
	return err
}

func SumXPForUser(ctx context.Context, db bun.IDB, userID string) (int64, error) {
	var total int64
	err := db.NewSelect().
		Model((*models.XPTransaction)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func SumXPForUserFromTime(ctx context.Context, db bun.IDB, userID string, from time.Time) (int64, error) {
	var total int64
	err := db.NewSelect().
		Model((*models.XPTransaction)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Where("occurred_at >= ?", from).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func CountTransactions(ctx context.Context, db bun.IDB, userID string) (int, error) {
	return db.NewSelect().
		Model((*models.XPTransaction)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
}

func CountByCategory(ctx context.Context, db bun.IDB, userID string, category models.Category) (int, error) {
	return db.NewSelect().
		Model((*models.XPTransaction)(nil)).
		Where("user_id = ?", userID).
		Where("category = ?", category).
		Count(ctx)
}

// CountInPeriod counts a user's entries of one category since periodStart.
// The once-per-day guard calls this with the start of the current UTC day.
func CountInPeriod(ctx context.Context, db bun.IDB, userID string, category models.Category, periodStart time.Time) (int, error) {
	return db.NewSelect().
		Model((*models.XPTransaction)(nil)).
		Where("user_id = ?", userID).
		Where("category = ?", category).
		Where("occurred_at >= ?", periodStart).
		Count(ctx)
}

// GetCategoryTimestamps returns the occurred_at of a user's entries of one
// category since from. Day bucketing happens in Go so the query stays
// portable across dialects.
func GetCategoryTimestamps(ctx context.Context, db bun.IDB, userID string, category models.Category, from time.Time) ([]time.Time, error) {
	var ts []time.Time
	err := db.NewSelect().
		Model((*models.XPTransaction)(nil)).
		Column("occurred_at").
		Where("user_id = ?", userID).
		Where("category = ?", category).
		Where("occurred_at >= ?", from).
		Order("occurred_at ASC").
		Scan(ctx, &ts)
	if err != nil {
		return nil, err
	}

	return ts, nil
}

// FindTransactionByEvent looks up a prior entry with the same correlation id.
// Returns nil when no such entry exists.
func FindTransactionByEvent(ctx context.Context, db bun.IDB, userID string, category models.Category, eventID string) (*models.XPTransaction, error) {
	var txn models.XPTransaction
	err := db.NewSelect().
		Model(&txn).
		Where("user_id = ?", userID).
		Where("category = ?", category).
		Where("event_id = ?", eventID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

func GetTransactionsByUser(ctx context.Context, db bun.IDB, userID string, limit, offset int) ([]*models.XPTransaction, error) {
	var txns []*models.XPTransaction
	err := db.NewSelect().
		Model(&txns).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return txns, nil
}
