package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleCitizen         Role = "citizen"
	RoleUrbanPlanner    Role = "urban_planner"
	RoleNGO             Role = "ngo"
	RoleGovernmentAdmin Role = "government_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleUrbanPlanner, RoleNGO, RoleGovernmentAdmin:
		return true
	}
	return false
}

// Starting balances for a freshly created profile.
const (
	StartingEcoCoins = 100
	StartingLevel    = 1
)

type Profile struct {
	bun.BaseModel   `bun:"table:profile"`
	ID              string    `bun:"id,pk" json:"id"`
	Email           string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash    string    `bun:"password_hash" json:"-"`
	FullName        string    `bun:"full_name" json:"full_name"`
	Username        string    `bun:"username" json:"username"`
	AvatarURL       *string   `bun:"avatar_url" json:"avatar_url"`
	Role            Role      `bun:"role" json:"role"`
	XP              int       `bun:"xp" json:"xp"`
	Level           int       `bun:"level" json:"level"`
	EcoCoins        int       `bun:"eco_coins" json:"eco_coins"`
	ResilienceScore int       `bun:"resilience_score" json:"resilience_score"`
	CurrentStreak   int       `bun:"current_streak" json:"current_streak"`
	IsAdmin         bool      `bun:"is_admin" json:"is_admin"`
	CreatedAt       time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at" json:"updated_at"`

	IsNew bool `bun:"-" json:"is_new"`
}

// ProfileFromAuth is the authenticated subject carried in request context,
// only used by the auth middleware.
type ProfileFromAuth struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
