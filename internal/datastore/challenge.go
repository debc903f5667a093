package datastore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"resilience/internal/models"
)

func CreateTableChallenge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Challenge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.UserChallenge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserChallenge)(nil)).Index("index_user_challenge_user_challenge").IfNotExists().Unique().Column("user_id", "challenge_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertChallenge(ctx context.Context, db *bun.DB, challenge *models.Challenge) error {
	_, err := db.NewInsert().Model(challenge).On("conflict (id) DO nothing").Exec(ctx)
	return err
}

func ListChallenges(ctx context.Context, db *bun.DB) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := db.NewSelect().Model(&challenges).Order("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

func ListUserChallenges(ctx context.Context, db *bun.DB, userID string) ([]*models.UserChallenge, error) {
	var userChallenges []*models.UserChallenge
	err := db.NewSelect().Model(&userChallenges).
		Relation("Challenge").
		Where("user_challenge.user_id = ?", userID).
		Order("user_challenge.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return userChallenges, nil
}

func FindUserChallenge(ctx context.Context, db *bun.DB, userID, challengeID string) (*models.UserChallenge, error) {
	var userChallenge models.UserChallenge
	err := db.NewSelect().Model(&userChallenge).
		Relation("Challenge").
		Where("user_challenge.user_id = ?", userID).
		Where("user_challenge.challenge_id = ?", challengeID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &userChallenge, nil
}

// EnsureUserChallenges creates missing per-user rows for every catalog
// challenge so completion state is always joinable.
func EnsureUserChallenges(ctx context.Context, db *bun.DB, userID string) error {
	challenges, err := ListChallenges(ctx, db)
	if err != nil {
		return err
	}
	if len(challenges) == 0 {
		return nil
	}

	rows := make([]*models.UserChallenge, 0, len(challenges))
	for _, challenge := range challenges {
		rows = append(rows, &models.UserChallenge{
			ID:          uuid.NewString(),
			UserID:      userID,
			ChallengeID: challenge.ID,
		})
	}

	_, err = db.NewInsert().Model(&rows).On("conflict (user_id, challenge_id) DO nothing").Exec(ctx)
	return err
}

// MarkChallengeCompleted flips completed exactly once. The WHERE guard is
// the idempotency barrier: a second attempt affects zero rows and the
// caller must not re-pay the reward.
func MarkChallengeCompleted(ctx context.Context, db *bun.DB, userID, challengeID string) (bool, error) {
	now := time.Now()
	res, err := db.NewUpdate().
		Model((*models.UserChallenge)(nil)).
		Set("completed = ?", true).
		Set("completed_at = ?", now).
		Where("user_id = ?", userID).
		Where("challenge_id = ?", challengeID).
		Where("completed = ?", false).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
