package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailyMission is a catalog task that rotates daily. Completion pays a
// fixed reward once per day per user.
type DailyMission struct {
	bun.BaseModel `bun:"table:daily_mission"`
	ID            string    `bun:"id,pk" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Description   string    `bun:"description" json:"description"`
	XPReward      int       `bun:"xp_reward,notnull" json:"xp_reward"`
	CoinReward    int       `bun:"coin_reward" json:"coin_reward"`
	Active        bool      `bun:"active" json:"active"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type UserDailyMission struct {
	bun.BaseModel `bun:"table:user_daily_mission"`
	ID            string     `bun:"id,pk" json:"id"`
	UserID        string     `bun:"user_id,notnull" json:"user_id"`
	MissionID     string     `bun:"mission_id,notnull" json:"mission_id"`
	AssignedOn    time.Time  `bun:"assigned_on,notnull" json:"assigned_on"`
	Completed     bool       `bun:"completed" json:"completed"`
	CompletedAt   *time.Time `bun:"completed_at" json:"completed_at"`

	Mission *DailyMission `bun:"rel:belongs-to,join:mission_id=id" json:"mission"`
}
