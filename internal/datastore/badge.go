package datastore

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"resilience/internal/models"
)

func CreateTableBadge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Badge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.UserBadge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	// duplicate awards become no-ops at the persistence layer
	_, err = db.NewCreateIndex().Model((*models.UserBadge)(nil)).Index("index_user_badge_user_badge").IfNotExists().Unique().Column("user_id", "badge_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertBadge(ctx context.Context, db *bun.DB, badge *models.Badge) error {
	_, err := db.NewInsert().Model(badge).On("conflict (id) DO nothing").Exec(ctx)
	return err
}

func ListBadges(ctx context.Context, db *bun.DB) ([]*models.Badge, error) {
	var badges []*models.Badge
	err := db.NewSelect().Model(&badges).Order("name ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return badges, nil
}

func ListBadgesByRarity(ctx context.Context, db *bun.DB, rarity models.Rarity) ([]*models.Badge, error) {
	var badges []*models.Badge
	err := db.NewSelect().Model(&badges).Where("rarity = ?", rarity).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return badges, nil
}

func ListUserBadges(ctx context.Context, db *bun.DB, userID string) ([]*models.UserBadge, error) {
	var userBadges []*models.UserBadge
	err := db.NewSelect().Model(&userBadges).
		Relation("Badge").
		Where("user_badge.user_id = ?", userID).
		Order("awarded_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return userBadges, nil
}

// InsertUserBadge grants a badge once; it reports false when the user
// already holds it.
func InsertUserBadge(ctx context.Context, db *bun.DB, userID, badgeID string) (bool, error) {
	userBadge := &models.UserBadge{
		ID:      uuid.NewString(),
		UserID:  userID,
		BadgeID: badgeID,
	}
	res, err := db.NewInsert().Model(userBadge).
		On("conflict (user_id, badge_id) DO nothing").
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
