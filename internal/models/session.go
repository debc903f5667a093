package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EcoCoinsPerXP is the fixed derivation ratio for session bookkeeping:
// one coin per ten experience points earned in the activity.
const EcoCoinsPerXP = 10

// UserSession is an append-only log entry for one completed gamified
// activity. It is historical bookkeeping, not a reward trigger; callers
// award XP/coins separately if the activity warrants it.
type UserSession struct {
	bun.BaseModel   `bun:"table:user_session"`
	ID              string    `bun:"id,pk" json:"id"`
	UserID          string    `bun:"user_id,notnull" json:"user_id"`
	SessionType     string    `bun:"session_type,notnull" json:"session_type"`
	DurationMinutes int       `bun:"duration_minutes" json:"duration_minutes"`
	XPEarned        int       `bun:"xp_earned" json:"xp_earned"`
	EcoCoinsEarned  int       `bun:"eco_coins_earned" json:"eco_coins_earned"`
	CreatedAt       time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// SessionCoins derives the coin column from XP earned.
func SessionCoins(xpEarned int) int {
	if xpEarned <= 0 {
		return 0
	}
	return xpEarned / EcoCoinsPerXP
}
