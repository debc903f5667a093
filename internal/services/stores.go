package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"resilience/internal/datastore"
	"resilience/internal/interfaces"
	"resilience/internal/models"
)

// Thin store adapters binding the engine's boundary contracts to the
// datastore. They carry no policy; everything above sql stays in the
// services that consume them.

type ChallengeStoreDB struct {
	postgresDB *bun.DB
}

var _ interfaces.ChallengeStore = (*ChallengeStoreDB)(nil)

func NewChallengeStoreDB(container *do.Injector) (*ChallengeStoreDB, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}
	return &ChallengeStoreDB{postgresDB}, nil
}

func (store *ChallengeStoreDB) FindUserChallenge(ctx context.Context, profileID, challengeID string) (*models.UserChallenge, error) {
	userChallenge, err := datastore.FindUserChallenge(ctx, store.postgresDB, profileID, challengeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("challenge not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return userChallenge, nil
}

func (store *ChallengeStoreDB) MarkCompleted(ctx context.Context, profileID, challengeID string) (bool, error) {
	completed, err := datastore.MarkChallengeCompleted(ctx, store.postgresDB, profileID, challengeID)
	if err != nil {
		return false, errorx.Wrap(err, errorx.Service)
	}
	return completed, nil
}

func (store *ChallengeStoreDB) ListUserChallenges(ctx context.Context, profileID string) ([]*models.UserChallenge, error) {
	userChallenges, err := datastore.ListUserChallenges(ctx, store.postgresDB, profileID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return userChallenges, nil
}

type SessionLogDB struct {
	postgresDB *bun.DB
}

var _ interfaces.SessionLogStore = (*SessionLogDB)(nil)

func NewSessionLogDB(container *do.Injector) (*SessionLogDB, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}
	return &SessionLogDB{postgresDB}, nil
}

func (store *SessionLogDB) Append(ctx context.Context, session *models.UserSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := datastore.InsertUserSession(ctx, store.postgresDB, session); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	return nil
}

type BadgeStoreDB struct {
	postgresDB *bun.DB
}

var _ interfaces.BadgeStore = (*BadgeStoreDB)(nil)

func NewBadgeStoreDB(container *do.Injector) (*BadgeStoreDB, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}
	return &BadgeStoreDB{postgresDB}, nil
}

func (store *BadgeStoreDB) ListUserBadges(ctx context.Context, profileID string) ([]*models.UserBadge, error) {
	userBadges, err := datastore.ListUserBadges(ctx, store.postgresDB, profileID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return userBadges, nil
}

func (store *BadgeStoreDB) ListBadgesByRarity(ctx context.Context, rarity models.Rarity) ([]*models.Badge, error) {
	badges, err := datastore.ListBadgesByRarity(ctx, store.postgresDB, rarity)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return badges, nil
}

func (store *BadgeStoreDB) Award(ctx context.Context, profileID, badgeID string) (bool, error) {
	granted, err := datastore.InsertUserBadge(ctx, store.postgresDB, profileID, badgeID)
	if err != nil {
		return false, errorx.Wrap(err, errorx.Service)
	}
	return granted, nil
}
