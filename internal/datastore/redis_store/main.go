package redis_store

import (
	"context"
	"fmt"
	"time"

	"xpledger/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyLeaderboard(name string) string {
	return fmt.Sprintf("leaderboard:%s", name)
}

func dbKeyGlobalStats() string {
	return "stats:global"
}

// SetLeaderboard upserts one member's score in the live leaderboard ZSET.
func SetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, v *models.LeaderboardItem) (*models.LeaderboardItem, error) {
	err := cmd.ZAdd(ctx, dbKeyLeaderboard(name), redis.Z{
		Score:  v.Score,
		Member: v.UserID,
	}).Err()
	if err != nil {
		return nil, err
	}

	return v, nil
}

func ClearLeaderboard(ctx context.Context, cmd redis.Cmdable, name string) error {
	return cmd.Del(ctx, dbKeyLeaderboard(name)).Err()
}

// GetLeaderboard reads the top num members. Ties order by member only; the
// canonical tie-broken ordering comes from the store, this one is the fast
// approximate view.
func GetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, num int) ([]*models.LeaderboardItem, error) {
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(name), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	var results []*models.LeaderboardItem
	for i, item := range items {
		results = append(results, &models.LeaderboardItem{
			UserID: item.Member.(string),
			Score:  item.Score,
			Rank:   i + 1,
		})
	}

	return results, nil
}

func GetRank(ctx context.Context, cmd redis.Cmdable, name string, userID string) (int64, error) {
	rank, err := cmd.ZRevRank(ctx, dbKeyLeaderboard(name), userID).Result()
	if err != nil {
		return -1, err
	}

	return rank, nil
}

func GetScore(ctx context.Context, cmd redis.Cmdable, name string, userID string) (float64, error) {
	score, err := cmd.ZScore(ctx, dbKeyLeaderboard(name), userID).Result()
	if err != nil {
		return -1, err
	}

	return score, nil
}

func GetLeaderboardParticipantsCount(ctx context.Context, cmd redis.Cmdable, name string) (int64, error) {
	return cmd.ZCard(ctx, dbKeyLeaderboard(name)).Result()
}

func SetGlobalStatsSnapshot(ctx context.Context, cmd redis.Cmdable, v *models.GlobalStats, ttl time.Duration) error {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyGlobalStats(), b, ttl).Err()
}

func GetGlobalStatsSnapshot(ctx context.Context, cmd redis.Cmdable) (*models.GlobalStats, error) {
	var v *models.GlobalStats
	b, err := cmd.Get(ctx, dbKeyGlobalStats()).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}
