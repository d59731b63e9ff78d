package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"xpledger/internal/datastore"
	"xpledger/internal/datastore/redis_store"
	"xpledger/internal/models"
	"xpledger/internal/pkg"
	"xpledger/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// errAlreadyClaimed aborts the award transaction without persisting anything;
// it never leaves the service.
var errAlreadyClaimed = errors.New("already claimed")

var (
	ErrEmptyUserID     = errors.New("empty user id")
	ErrUnknownCategory = errors.New("unknown category")
	ErrBadAmount       = errors.New("amount must be positive")
)

type ServiceXP struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	redisDBCache       redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceXP(container *do.Injector) (*ServiceXP, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	redisDBCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceXP{container, redisDB, redisDBCache, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

// AwardXP records one XP-granting event and everything it implies (summary
// totals, level, badge grants) as a single atomic unit. Periodic categories
// and replayed eventIds come back with AlreadyClaimed set and nothing
// written.
func (service *ServiceXP) AwardXP(ctx context.Context, userID string, amount int64, category models.Category, detail string, eventID string) (*models.AwardResult, error) {
	userID = strings.ToLower(strings.TrimSpace(userID))
	if userID == "" {
		return nil, errorx.Wrap(ErrEmptyUserID, errorx.Validation)
	}
	if !category.Valid() || category == models.CategoryBadgeGrant {
		return nil, errorx.Wrap(ErrUnknownCategory, errorx.Validation)
	}
	if amount <= 0 {
		return nil, errorx.Wrap(ErrBadAmount, errorx.Validation)
	}

	result, err := service.award(ctx, userID, amount, category, detail, eventID)
	if err != nil {
		return nil, err
	}

	if !result.AlreadyClaimed {
		service.afterAward(ctx, userID, result.TotalXP)
	}

	return result, nil
}

func (service *ServiceXP) award(ctx context.Context, userID string, amount int64, category models.Category, detail string, eventID string) (*models.AwardResult, error) {
	now := time.Now().UTC()
	result := &models.AwardResult{UserID: userID}

	err := service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := datastore.EnsureUserSummary(ctx, tx, userID, now); err != nil {
			return err
		}

		// serialize concurrent awards for this user for the rest of the tx
		summary, err := datastore.GetUserSummaryForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		if category.Periodic() {
			count, err := datastore.CountInPeriod(ctx, tx, userID, category, pkg.DayStartUTC(now))
			if err != nil {
				return err
			}
			if count > 0 {
				result.TotalXP = summary.TotalXP
				result.Level = summary.Level
				result.AlreadyClaimed = true
				return errAlreadyClaimed
			}
		}

		if eventID != "" {
			prior, err := datastore.FindTransactionByEvent(ctx, tx, userID, category, eventID)
			if err != nil {
				return err
			}
			if prior != nil {
				result.TotalXP = summary.TotalXP
				result.Level = summary.Level
				result.AlreadyClaimed = true
				return errAlreadyClaimed
			}
		}

		err = datastore.InsertXPTransaction(ctx, tx, &models.XPTransaction{
			UserID:     userID,
			Amount:     amount,
			Category:   category,
			Detail:     detail,
			EventID:    eventID,
			OccurredAt: now,
		})
		if err != nil {
			return err
		}

		total := summary.TotalXP + amount
		level := pkg.Level(total)
		if err := datastore.UpdateUserSummaryTotals(ctx, tx, userID, total, level, now); err != nil {
			return err
		}

		// one evaluator pass per award; BadgeGrant entries never re-enter it
		newBadges, err := service.evaluateBadges(ctx, tx, userID, category, now)
		if err != nil {
			return err
		}

		for _, badge := range newBadges {
			err = datastore.InsertXPTransaction(ctx, tx, &models.XPTransaction{
				UserID:     userID,
				Amount:     badge.XPReward,
				Category:   models.CategoryBadgeGrant,
				Detail:     fmt.Sprintf("badge unlocked: %s", badge.Name),
				OccurredAt: now,
			})
			if err != nil {
				return err
			}

			err = datastore.InsertUserBadge(ctx, tx, &models.UserBadge{
				UserID:   userID,
				Name:     badge.Name,
				EarnedAt: now,
			})
			if err != nil {
				return err
			}

			total += badge.XPReward
			level = pkg.Level(total)
			if err := datastore.UpdateUserSummaryTotals(ctx, tx, userID, total, level, now); err != nil {
				return err
			}

			result.BadgesAwarded = append(result.BadgesAwarded, badge.Name)
		}

		result.TotalXP = total
		result.Level = level
		result.AmountAwarded = amount
		return nil
	})

	if errors.Is(err, errAlreadyClaimed) {
		return result, nil
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return result, nil
}

func (service *ServiceXP) AwardForCreateNFT(ctx context.Context, userID string, tokenID string) (*models.AwardResult, error) {
	return service.AwardXP(ctx, userID, models.CategoryRewards[models.CategoryCreateNFT], models.CategoryCreateNFT,
		fmt.Sprintf("created NFT #%s", tokenID), tokenID)
}

func (service *ServiceXP) AwardForSwap(ctx context.Context, userID string, txRef string) (*models.AwardResult, error) {
	return service.AwardXP(ctx, userID, models.CategoryRewards[models.CategorySwap], models.CategorySwap,
		fmt.Sprintf("token swap %s", txRef), txRef)
}

func (service *ServiceXP) AwardForBuyNFT(ctx context.Context, userID string, txRef string) (*models.AwardResult, error) {
	return service.AwardXP(ctx, userID, models.CategoryRewards[models.CategoryBuyNFT], models.CategoryBuyNFT,
		fmt.Sprintf("bought NFT %s", txRef), txRef)
}

func (service *ServiceXP) AwardForSellNFT(ctx context.Context, userID string, txRef string) (*models.AwardResult, error) {
	return service.AwardXP(ctx, userID, models.CategoryRewards[models.CategorySellNFT], models.CategorySellNFT,
		fmt.Sprintf("sold NFT %s", txRef), txRef)
}

func (service *ServiceXP) AwardForListNFT(ctx context.Context, userID string, tokenID string) (*models.AwardResult, error) {
	return service.AwardXP(ctx, userID, models.CategoryRewards[models.CategoryListNFT], models.CategoryListNFT,
		fmt.Sprintf("listed NFT #%s", tokenID), tokenID)
}

func (service *ServiceXP) AwardForGenesisClaim(ctx context.Context, userID string, tokenID string) (*models.AwardResult, error) {
	return service.AwardXP(ctx, userID, models.CategoryRewards[models.CategoryClaimGenesisSBT], models.CategoryClaimGenesisSBT,
		fmt.Sprintf("claimed Genesis SBT #%s", tokenID), tokenID)
}

func (service *ServiceXP) AwardDailyLogin(ctx context.Context, userID string) (*models.AwardResult, error) {
	userID = strings.ToLower(strings.TrimSpace(userID))

	// label only; the badge evaluator recomputes the streak inside the tx
	streak, err := service.LoginStreak(ctx, userID, time.Now().UTC())
	if err != nil {
		log.Println("daily login streak lookup:", err)
		streak = 0
	}

	return service.AwardXP(ctx, userID, models.CategoryRewards[models.CategoryDailyLogin], models.CategoryDailyLogin,
		fmt.Sprintf("daily login, day %d of streak", streak+1), "")
}

func (service *ServiceXP) AwardShare(ctx context.Context, userID string, platform string) (*models.AwardResult, error) {
	return service.AwardXP(ctx, userID, models.CategoryRewards[models.CategoryShareProject], models.CategoryShareProject,
		fmt.Sprintf("shared project on %s", platform), "")
}

// LoginStreak counts the distinct UTC days with a DailyLogin entry inside
// the trailing 30-day window ending at now.
func (service *ServiceXP) LoginStreak(ctx context.Context, userID string, now time.Time) (int, error) {
	ts, err := datastore.GetCategoryTimestamps(ctx, service.readonlyPostgresDB, userID, models.CategoryDailyLogin, pkg.StreakWindowStart(now))
	if err != nil {
		return 0, err
	}

	return pkg.DistinctDays(ts), nil
}

// afterAward refreshes the live leaderboard and drops stale read caches.
// Failures here are logged, not surfaced: the award is already committed and
// the cron rebuild reconverges the live view.
func (service *ServiceXP) afterAward(ctx context.Context, userID string, totalXP int64) {
	_, err := redis_store.SetLeaderboard(ctx, service.redisDB, LEADERBOARD_LIVE, &models.LeaderboardItem{
		UserID: userID,
		Score:  float64(totalXP),
	})
	if err != nil {
		log.Println("live leaderboard update:", err)
	}

	if err := service.cache.Delete(ctx, DBKeyUserStats(userID)); err != nil {
		log.Println(err)
	}

	if err := service.cache.Delete(ctx, DBKeyUserRank(userID)); err != nil {
		log.Println(err)
	}

	//nolint:errcheck
	caching.DeleteKeys(ctx, service.redisDBCache, "leaderboard_page:*")
}
