package datastore

import (
	"context"

	"xpledger/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUserBadge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserBadge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserBadge)(nil)).Index("index_user_badge_user_id_name").IfNotExists().Unique().Column("user_id", "name").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertUserBadge(ctx context.Context, db bun.IDB, badge *models.UserBadge) error {
	_, err := db.NewInsert().Model(badge).Exec(ctx)
	return err
}

func GetUserBadges(ctx context.Context, db bun.IDB, userID string) ([]*models.UserBadge, error) {
	var badges []*models.UserBadge
	err := db.NewSelect().
		Model(&badges).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return badges, nil
}
