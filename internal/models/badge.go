package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// DropWeight is the relative chance of a rarity tier when a badge is
// picked at random for a level milestone.
func (r Rarity) DropWeight() int {
	switch r {
	case RarityCommon:
		return 60
	case RarityRare:
		return 25
	case RarityEpic:
		return 12
	case RarityLegendary:
		return 3
	}
	return 0
}

type Badge struct {
	bun.BaseModel `bun:"table:badge"`
	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Description   string    `bun:"description" json:"description"`
	IconURL       *string   `bun:"icon_url" json:"icon_url"`
	Rarity        Rarity    `bun:"rarity" json:"rarity"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// UserBadge is a one-time, non-revocable grant. (user_id, badge_id) is
// unique at the persistence layer so duplicate awards are no-ops.
type UserBadge struct {
	bun.BaseModel `bun:"table:user_badge"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	BadgeID       string    `bun:"badge_id,notnull" json:"badge_id"`
	AwardedAt     time.Time `bun:"awarded_at,default:current_timestamp" json:"awarded_at"`

	Badge *Badge `bun:"rel:belongs-to,join:badge_id=id" json:"badge"`
}
