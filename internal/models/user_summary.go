package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserSummary is the materialized per-user aggregate. total_xp always equals
// the sum of the user's xp_transaction amounts and level always equals
// Level(total_xp); both are rewritten inside the same transaction as every
// ledger append.
type UserSummary struct {
	bun.BaseModel `bun:"table:user_summary"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	TotalXP       int64     `bun:"total_xp" json:"total_xp"`
	Level         int       `bun:"level" json:"level"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`

	Badges []*UserBadge `bun:"-" json:"badges,omitempty"`
}

// UserBadge records a one-time badge grant. The unique (user_id, name) index
// backs the no-duplicate-badges guarantee at the store level.
type UserBadge struct {
	bun.BaseModel `bun:"table:user_badge"`
	ID            int64     `bun:"id,pk,autoincrement" json:"-"`
	UserID        string    `bun:"user_id" json:"user_id"`
	Name          string    `bun:"name" json:"name"`
	EarnedAt      time.Time `bun:"earned_at" json:"earned_at"`
}
