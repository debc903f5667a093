package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EcoAction is a community feed entry describing one real-world action.
// Category drives the reward paid on submission.
type EcoAction struct {
	bun.BaseModel `bun:"table:eco_action"`
	ID            string     `bun:"id,pk" json:"id"`
	UserID        string     `bun:"user_id,notnull" json:"user_id"`
	Category      RewardKind `bun:"category,notnull" json:"category"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   string     `bun:"description" json:"description"`
	ImageURL      *string    `bun:"image_url" json:"image_url"`
	LikesCount    int        `bun:"likes_count" json:"likes_count"`
	CommentsCount int        `bun:"comments_count" json:"comments_count"`
	CreatedAt     time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`

	Author *Profile `bun:"rel:belongs-to,join:user_id=id" json:"author"`
	Liked  bool     `bun:"liked,scanonly" json:"liked"`
}

type EcoActionLike struct {
	bun.BaseModel `bun:"table:eco_action_like"`
	ID            string    `bun:"id,pk" json:"id"`
	ActionID      string    `bun:"action_id,notnull" json:"action_id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type EcoActionComment struct {
	bun.BaseModel `bun:"table:eco_action_comment"`
	ID            string    `bun:"id,pk" json:"id"`
	ActionID      string    `bun:"action_id,notnull" json:"action_id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	Content       string    `bun:"content,notnull" json:"content"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`

	Author *Profile `bun:"rel:belongs-to,join:user_id=id" json:"author"`
}
