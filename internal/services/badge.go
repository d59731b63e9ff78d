package services

import (
	"context"
	"time"

	"xpledger/internal/datastore"
	"xpledger/internal/models"
	"xpledger/internal/pkg"

	"github.com/uptrace/bun"
)

// evaluateBadges runs inside the award transaction, after the primary entry
// has been written. Only rules keyed by the just-recorded category are
// considered; already-held badges are skipped.
func (service *ServiceXP) evaluateBadges(ctx context.Context, db bun.IDB, userID string, category models.Category, now time.Time) ([]models.BadgeDef, error) {
	existing, err := datastore.GetUserBadges(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	held := map[string]bool{}
	for _, b := range existing {
		held[b.Name] = true
	}

	var earned []models.BadgeDef
	grant := func(name string) {
		if held[name] {
			return
		}
		earned = append(earned, models.BadgeDef{Name: name, XPReward: models.BadgeRewards[name]})
	}

	switch category {
	case models.CategoryClaimGenesisSBT:
		grant(models.BadgeGenesisHolder)

	case models.CategoryCreateNFT:
		count, err := datastore.CountByCategory(ctx, db, userID, models.CategoryCreateNFT)
		if err != nil {
			return nil, err
		}
		if count >= 1 {
			grant(models.BadgeFirstNFTCreator)
		}

	case models.CategorySwap:
		count, err := datastore.CountByCategory(ctx, db, userID, models.CategorySwap)
		if err != nil {
			return nil, err
		}
		if count >= 1 {
			grant(models.BadgeFirstSwap)
		}

	case models.CategoryDailyLogin:
		ts, err := datastore.GetCategoryTimestamps(ctx, db, userID, models.CategoryDailyLogin, pkg.StreakWindowStart(now))
		if err != nil {
			return nil, err
		}
		streak := pkg.DistinctDays(ts)
		if streak >= models.StreakBadge7Days {
			grant(models.BadgeStreak7)
		}
		if streak >= models.StreakBadge30Days {
			grant(models.BadgeStreak30)
		}

	case models.CategoryShareProject:
		count, err := datastore.CountByCategory(ctx, db, userID, models.CategoryShareProject)
		if err != nil {
			return nil, err
		}
		if count >= models.SocialInfluencerShares {
			grant(models.BadgeSocialInfluencer)
		}
	}

	return earned, nil
}
