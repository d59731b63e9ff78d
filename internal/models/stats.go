package models

// AwardResult is the outcome of one award call. AlreadyClaimed is a defined
// no-op outcome, not an error: the ledger and summary are untouched and the
// returned totals are the pre-existing state.
type AwardResult struct {
	UserID         string   `json:"user_id"`
	TotalXP        int64    `json:"total_xp"`
	Level          int      `json:"level"`
	AmountAwarded  int64    `json:"amount_awarded"`
	BadgesAwarded  []string `json:"badges_awarded,omitempty"`
	AlreadyClaimed bool     `json:"already_claimed,omitempty"`
}

type UserStats struct {
	UserID           string       `json:"user_id"`
	TotalXP          int64        `json:"total_xp"`
	Level            int          `json:"level"`
	TransactionCount int          `json:"transaction_count"`
	TodayXP          int64        `json:"today_xp"`
	LoginStreak      int          `json:"login_streak"`
	Badges           []*UserBadge `json:"badges"`
}

type GlobalStats struct {
	Users         int     `json:"users"`
	TotalXP       int64   `json:"total_xp"`
	RemainingPool int64   `json:"remaining_pool"`
	AverageLevel  float64 `json:"average_level"`
	MaxXP         int64   `json:"max_xp"`
}

// GlobalAggregate is the raw aggregate row scanned from user_summary.
type GlobalAggregate struct {
	Users        int     `bun:"users"`
	TotalXP      int64   `bun:"total_xp"`
	AverageLevel float64 `bun:"average_level"`
	MaxXP        int64   `bun:"max_xp"`
}

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"user_id"`
	TotalXP int64  `json:"total_xp"`
	Level   int    `json:"level"`
}

type RankInfo struct {
	UserID  string `json:"user_id"`
	Rank    int    `json:"rank"`
	TotalXP int64  `json:"total_xp"`
	Level   int    `json:"level"`
}

// LeaderboardItem is one member of the redis live leaderboard ZSET. Ordering
// there is score-only; the canonical tie-broken ordering comes from the store.
type LeaderboardItem struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank,omitempty"`
}

type LiveLeaderboard struct {
	Participants int64              `json:"participants"`
	Items        []*LeaderboardItem `json:"items"`
}
