package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Challenge struct {
	bun.BaseModel `bun:"table:challenge"`
	ID            string    `bun:"id,pk" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Description   string    `bun:"description" json:"description"`
	XPReward      int       `bun:"xp_reward,notnull" json:"xp_reward"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// UserChallenge tracks one user's progress on a catalog challenge.
// Completed is monotonic: once set it never reverts.
type UserChallenge struct {
	bun.BaseModel `bun:"table:user_challenge"`
	ID            string     `bun:"id,pk" json:"id"`
	UserID        string     `bun:"user_id,notnull" json:"user_id"`
	ChallengeID   string     `bun:"challenge_id,notnull" json:"challenge_id"`
	Completed     bool       `bun:"completed" json:"completed"`
	CompletedAt   *time.Time `bun:"completed_at" json:"completed_at"`
	CreatedAt     time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`

	Challenge *Challenge `bun:"rel:belongs-to,join:challenge_id=id" json:"challenge"`
}
