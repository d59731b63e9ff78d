package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"xpledger/internal/datastore"
	"xpledger/internal/datastore/redis_store"
	"xpledger/internal/models"
	"xpledger/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

// LeaderboardJob rebuilds the live leaderboard ZSET from the summary table
// and refreshes the global stats snapshot. The redsync mutex keeps multiple
// cron replicas from rebuilding at once.
type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
	Rs    *redsync.Redsync
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB, rs *redsync.Redsync) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
		Rs:    rs,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_LIVE)
	if err != nil {
		log.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		log.Println("No timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("Leaderboard Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
	j.runScheduledTask()
}

func (j *LeaderboardJob) runScheduledTask() {
	ctx := context.Background()

	mutex := j.Rs.NewMutex(services.LockKeyLiveLeaderboardRebuild(), redsync.WithExpiry(5*time.Minute))
	if err := mutex.TryLockContext(ctx); err != nil {
		log.Println("rebuild already running elsewhere:", err)
		return
	}
	//nolint:errcheck
	defer mutex.UnlockContext(ctx)

	j.rebuildLeaderboard(ctx)
	j.refreshGlobalStats(ctx)
}

func (j *LeaderboardJob) rebuildLeaderboard(ctx context.Context) {
	log.Println("Start rebuilding live leaderboard ...")
	if err := redis_store.ClearLeaderboard(ctx, j.Redis, services.LEADERBOARD_LIVE); err != nil {
		log.Println(err)
		return
	}

	limit := 500
	offset := 0

	for {
		summaries, err := datastore.GetLeaderboard(ctx, j.Db, limit, offset)
		offset += limit
		if err != nil {
			log.Println(err)
			return
		}

		if len(summaries) == 0 {
			log.Println("Live leaderboard rebuilt")
			return
		}

		for _, summary := range summaries {
			_, err := redis_store.SetLeaderboard(ctx, j.Redis, services.LEADERBOARD_LIVE, &models.LeaderboardItem{
				UserID: summary.UserID,
				Score:  float64(summary.TotalXP),
			})
			if err != nil {
				log.Println(err)
			}
		}
	}
}

func (j *LeaderboardJob) refreshGlobalStats(ctx context.Context) {
	agg, err := datastore.AggregateGlobal(ctx, j.Db)
	if err != nil {
		log.Println(err)
		return
	}

	pool := models.GlobalXPPool
	cfg, err := datastore.GetConfigByKey(ctx, j.Db, services.CONFIG_XP_POOL_SIZE)
	if err != nil {
		log.Println(err)
	}
	if cfg != nil && cfg.Value != "" {
		if v, err := strconv.ParseInt(cfg.Value, 10, 64); err == nil {
			pool = v
		}
	}

	stats := &models.GlobalStats{
		Users:         agg.Users,
		TotalXP:       agg.TotalXP,
		RemainingPool: pool - agg.TotalXP,
		AverageLevel:  agg.AverageLevel,
		MaxXP:         agg.MaxXP,
	}

	if err := redis_store.SetGlobalStatsSnapshot(ctx, j.Redis, stats, services.GLOBAL_SNAPSHOT_TTL); err != nil {
		log.Println(err)
		return
	}

	log.Println("Global stats snapshot refreshed")
}
