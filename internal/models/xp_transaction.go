package models

import (
	"time"

	"github.com/uptrace/bun"
)

// XPTransaction is one append-only ledger row. There is no update or delete
// path for this table anywhere in the codebase.
type XPTransaction struct {
	bun.BaseModel `bun:"table:xp_transaction"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	Amount        int64     `bun:"amount" json:"amount"`
	Category      Category  `bun:"category" json:"category"`
	Detail        string    `bun:"detail" json:"detail"`
	EventID       string    `bun:"event_id,nullzero" json:"event_id,omitempty"`
	OccurredAt    time.Time `bun:"occurred_at" json:"occurred_at"`
}
