package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	CONFIG_LEADERBOARD_LIMIT     = "LEADERBOARD_LIMIT"
	CONFIG_XP_POOL_SIZE          = "XP_POOL_SIZE"
	CONFIG_AWARD_RATE_PER_MINUTE = "AWARD_RATE_PER_MINUTE"
	CONFIG_CRONJOB_TIME_LIVE     = "CRONJOB_TIME_LIVE_LEADERBOARD"

	LEADERBOARD_LIVE = "xp_overall"

	LEADERBOARD_DEFAULT_LIMIT  = 50
	LEADERBOARD_MAX_LIMIT      = 100
	AWARD_RATE_DEFAULT_PER_MIN = 60
	GLOBAL_SNAPSHOT_TTL        = CACHE_TTL_1_MIN

	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
)

func LockKeyLiveLeaderboardRebuild() string {
	return "lock:live-leaderboard-rebuild"
}

// db
func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyUserStats(userID string) string {
	return fmt.Sprintf("user_stats:%s", userID)
}

func DBKeyUserRank(userID string) string {
	return fmt.Sprintf("user_rank:%s", userID)
}

func DBKeyLeaderboardPage(limit, offset int) string {
	return fmt.Sprintf("leaderboard_page:%d:%d", limit, offset)
}

func LimitKeyAward(key string) string {
	return fmt.Sprintf("limit:award:%s", key)
}
