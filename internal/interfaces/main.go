// Package interfaces declares the boundary contracts the gamification
// engine depends on. The engine never reads ambient globals: every
// operation takes a context and an explicit profile id, and every
// collaborator arrives through one of these interfaces.
package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"

	"resilience/internal/models"
)

// ProfileStore is the single persistence primitive for profile state.
// UpdateProgress must persist xp, level and eco_coins as one write so the
// stored pair can never be internally inconsistent. FindForUpdate must
// return the durable row, never a cached copy: it feeds locked
// read-modify-write cycles.
type ProfileStore interface {
	Find(ctx context.Context, profileID string) (*models.Profile, error)
	FindForUpdate(ctx context.Context, profileID string) (*models.Profile, error)
	UpdateProgress(ctx context.Context, profileID string, xp, level, ecoCoins int) error
}

type ChallengeStore interface {
	FindUserChallenge(ctx context.Context, profileID, challengeID string) (*models.UserChallenge, error)
	// MarkCompleted flips the completed flag exactly once; it reports
	// false when the row was already completed.
	MarkCompleted(ctx context.Context, profileID, challengeID string) (bool, error)
	ListUserChallenges(ctx context.Context, profileID string) ([]*models.UserChallenge, error)
}

type SessionLogStore interface {
	Append(ctx context.Context, session *models.UserSession) error
}

type BadgeStore interface {
	ListUserBadges(ctx context.Context, profileID string) ([]*models.UserBadge, error)
	ListBadgesByRarity(ctx context.Context, rarity models.Rarity) ([]*models.Badge, error)
	// Award inserts the grant if absent; it reports false when the user
	// already holds the badge.
	Award(ctx context.Context, profileID, badgeID string) (bool, error)
}

// Notifier is a fire-and-forget side channel; implementations log and
// swallow their own failures.
type Notifier interface {
	Notify(ctx context.Context, profileID string, kind models.NotificationKind, title, body string)
}

// Scoreboard receives score updates after reward persistence succeeds.
type Scoreboard interface {
	UpdateScore(ctx context.Context, profile *models.Profile) error
}

// Locker serializes operations that share a key. Acquire blocks until the
// lock is held and returns the release func.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}
