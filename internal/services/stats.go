package services

import (
	"context"
	"database/sql"
	"errors"
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

var ErrUserNotFound = errors.New("user not found")

type ServiceStats struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	serviceConfig      *ServiceConfig
}

func NewServiceStats(container *do.Injector) (*ServiceStats, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
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

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceStats{container, redisDB, readonlyPostgresDB, cache, readonlyCache, serviceConfig}, nil
}

func (service *ServiceStats) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	userID = strings.ToLower(strings.TrimSpace(userID))
	if userID == "" {
		return nil, errorx.Wrap(ErrEmptyUserID, errorx.Validation)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserStats(userID), CACHE_TTL_15_SECONDS, func() (*models.UserStats, error) {
		summary, err := datastore.GetUserSummary(ctx, service.readonlyPostgresDB, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(ErrUserNotFound, errorx.NotExist)
		}
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		badges, err := datastore.GetUserBadges(ctx, service.readonlyPostgresDB, userID)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		count, err := datastore.CountTransactions(ctx, service.readonlyPostgresDB, userID)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		now := time.Now().UTC()
		todayXP, err := datastore.SumXPForUserFromTime(ctx, service.readonlyPostgresDB, userID, pkg.DayStartUTC(now))
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		ts, err := datastore.GetCategoryTimestamps(ctx, service.readonlyPostgresDB, userID, models.CategoryDailyLogin, pkg.StreakWindowStart(now))
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		return &models.UserStats{
			UserID:           userID,
			TotalXP:          summary.TotalXP,
			Level:            summary.Level,
			TransactionCount: count,
			TodayXP:          todayXP,
			LoginStreak:      pkg.DistinctDays(ts),
			Badges:           badges,
		}, nil
	})
}

// GetGlobalStats serves the redis snapshot when one is fresh and falls back
// to aggregating user_summary directly. The snapshot is best-effort; a dead
// redis only costs the shortcut.
func (service *ServiceStats) GetGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	snapshot, err := redis_store.GetGlobalStatsSnapshot(ctx, service.redisDB)
	if err == nil && snapshot != nil {
		return snapshot, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Println("global stats snapshot:", err)
	}

	stats, err := service.AggregateGlobalStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := redis_store.SetGlobalStatsSnapshot(ctx, service.redisDB, stats, GLOBAL_SNAPSHOT_TTL); err != nil {
		log.Println("global stats snapshot:", err)
	}

	return stats, nil
}

// AggregateGlobalStats computes global stats straight from the store.
func (service *ServiceStats) AggregateGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	agg, err := datastore.AggregateGlobal(ctx, service.readonlyPostgresDB)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	pool, err := service.serviceConfig.GetInt64Config(ctx, CONFIG_XP_POOL_SIZE, models.GlobalXPPool)
	if err != nil {
		return nil, err
	}

	return &models.GlobalStats{
		Users:         agg.Users,
		TotalXP:       agg.TotalXP,
		RemainingPool: pool - agg.TotalXP,
		AverageLevel:  agg.AverageLevel,
		MaxXP:         agg.MaxXP,
	}, nil
}

// GetLeaderboard is the canonical ranking: total_xp descending, earliest
// created_at first among ties, ranks 1-based from the page offset.
func (service *ServiceStats) GetLeaderboard(ctx context.Context, limit, offset int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit, _ = service.serviceConfig.GetIntConfig(ctx, CONFIG_LEADERBOARD_LIMIT, LEADERBOARD_DEFAULT_LIMIT)
	}
	if limit > LEADERBOARD_MAX_LIMIT {
		limit = LEADERBOARD_MAX_LIMIT
	}
	if offset < 0 {
		offset = 0
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboardPage(limit, offset), CACHE_TTL_15_SECONDS, func() ([]*models.LeaderboardEntry, error) {
		summaries, err := datastore.GetLeaderboard(ctx, service.readonlyPostgresDB, limit, offset)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		entries := make([]*models.LeaderboardEntry, 0, len(summaries))
		for i, s := range summaries {
			entries = append(entries, &models.LeaderboardEntry{
				Rank:    offset + i + 1,
				UserID:  s.UserID,
				TotalXP: s.TotalXP,
				Level:   s.Level,
			})
		}
		return entries, nil
	})
}

func (service *ServiceStats) GetUserRank(ctx context.Context, userID string) (*models.RankInfo, error) {
	userID = strings.ToLower(strings.TrimSpace(userID))
	if userID == "" {
		return nil, errorx.Wrap(ErrEmptyUserID, errorx.Validation)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserRank(userID), CACHE_TTL_15_SECONDS, func() (*models.RankInfo, error) {
		summary, err := datastore.GetUserSummary(ctx, service.readonlyPostgresDB, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(ErrUserNotFound, errorx.NotExist)
		}
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		rank, err := datastore.GetUserRank(ctx, service.readonlyPostgresDB, summary)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		return &models.RankInfo{
			UserID:  userID,
			Rank:    rank,
			TotalXP: summary.TotalXP,
			Level:   summary.Level,
		}, nil
	})
}

// GetLiveLeaderboard reads the redis ZSET maintained on every award. It is
// an approximate view: score ordering only, no created_at tie-break.
func (service *ServiceStats) GetLiveLeaderboard(ctx context.Context, limit int) (*models.LiveLeaderboard, error) {
	if limit <= 0 {
		limit = LEADERBOARD_DEFAULT_LIMIT
	}
	if limit > LEADERBOARD_MAX_LIMIT {
		limit = LEADERBOARD_MAX_LIMIT
	}

	items, err := redis_store.GetLeaderboard(ctx, service.redisDB, LEADERBOARD_LIVE, limit)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	participants, err := redis_store.GetLeaderboardParticipantsCount(ctx, service.redisDB, LEADERBOARD_LIVE)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return &models.LiveLeaderboard{
		Participants: participants,
		Items:        items,
	}, nil
}

// GetLiveRank returns a user's position in the live ZSET.
func (service *ServiceStats) GetLiveRank(ctx context.Context, userID string) (*models.LeaderboardItem, error) {
	userID = strings.ToLower(strings.TrimSpace(userID))
	if userID == "" {
		return nil, errorx.Wrap(ErrEmptyUserID, errorx.Validation)
	}

	rank, err := redis_store.GetRank(ctx, service.redisDB, LEADERBOARD_LIVE, userID)
	if errors.Is(err, redis.Nil) {
		return nil, errorx.Wrap(ErrUserNotFound, errorx.NotExist)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	score, err := redis_store.GetScore(ctx, service.redisDB, LEADERBOARD_LIVE, userID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return &models.LeaderboardItem{
		UserID: userID,
		Score:  score,
		Rank:   int(rank) + 1,
	}, nil
}

// GetUserTransactions pages a user's ledger entries, most recent first.
func (service *ServiceStats) GetUserTransactions(ctx context.Context, userID string, limit, offset int) ([]*models.XPTransaction, error) {
	userID = strings.ToLower(strings.TrimSpace(userID))
	if userID == "" {
		return nil, errorx.Wrap(ErrEmptyUserID, errorx.Validation)
	}

	if limit <= 0 {
		limit = LEADERBOARD_DEFAULT_LIMIT
	}
	if limit > LEADERBOARD_MAX_LIMIT {
		limit = LEADERBOARD_MAX_LIMIT
	}
	if offset < 0 {
		offset = 0
	}

	txns, err := datastore.GetTransactionsByUser(ctx, service.readonlyPostgresDB, userID, limit, offset)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return txns, nil
}

// RebuildLiveLeaderboard repopulates the redis ZSET from the store in pages.
// Called from the cron runner under a distributed lock.
func (service *ServiceStats) RebuildLiveLeaderboard(ctx context.Context) error {
	if err := redis_store.ClearLeaderboard(ctx, service.redisDB, LEADERBOARD_LIVE); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		summaries, err := datastore.GetLeaderboard(ctx, service.readonlyPostgresDB, pageSize, offset)
		if err != nil {
			return errorx.Wrap(err, errorx.Service)
		}
		if len(summaries) == 0 {
			return nil
		}

		for _, s := range summaries {
			_, err := redis_store.SetLeaderboard(ctx, service.redisDB, LEADERBOARD_LIVE, &models.LeaderboardItem{
				UserID: s.UserID,
				Score:  float64(s.TotalXP),
			})
			if err != nil {
				return errorx.Wrap(err, errorx.Service)
			}
		}

		if len(summaries) < pageSize {
			return nil
		}
	}
}
