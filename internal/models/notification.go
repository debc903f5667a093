package models

import (
	"time"

	"github.com/uptrace/bun"
)

type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationReward  NotificationKind = "reward"
	NotificationLevelUp NotificationKind = "level_up"
	NotificationError   NotificationKind = "error"
)

// Notification is a user-visible transient message. Emission is
// fire-and-forget; a failed insert never fails the operation that
// produced it.
type Notification struct {
	bun.BaseModel `bun:"table:notification"`
	ID            string           `bun:"id,pk" json:"id"`
	UserID        string           `bun:"user_id,notnull" json:"user_id"`
	Kind          NotificationKind `bun:"kind" json:"kind"`
	Title         string           `bun:"title,notnull" json:"title"`
	Body          string           `bun:"body" json:"body"`
	Read          bool             `bun:"read" json:"read"`
	CreatedAt     time.Time        `bun:"created_at,default:current_timestamp" json:"created_at"`
}
