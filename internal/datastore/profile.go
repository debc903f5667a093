package datastore

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"resilience/internal/models"
)

func CreateTableProfile(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Profile)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Profile)(nil)).Index("index_profile_email").IfNotExists().Unique().Column("email").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Profile)(nil)).Index("index_profile_username").IfNotExists().Column("username").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindProfileByID(ctx context.Context, db *bun.DB, profileID string) (*models.Profile, error) {
	var profile models.Profile
	err := db.NewSelect().Model(&profile).Where("id = ?", profileID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func FindProfileByEmail(ctx context.Context, db *bun.DB, email string) (*models.Profile, error) {
	var profile models.Profile
	err := db.NewSelect().Model(&profile).Where("email = ?", strings.ToLower(email)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func CreateProfile(ctx context.Context, db *bun.DB, profile *models.Profile) (*models.Profile, error) {
	_, err := db.NewInsert().Model(profile).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfileProgress persists xp, level and coin balance in one
// statement. Reward operations rely on this being a single write: the
// stored (xp, level) pair can never be half-updated.
func UpdateProfileProgress(ctx context.Context, db *bun.DB, profileID string, xp, level, ecoCoins int) error {
	_, err := db.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("xp = ?", xp).
		Set("level = ?", level).
		Set("eco_coins = ?", ecoCoins).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", profileID).
		Exec(ctx)
	return err
}

func UpdateProfileInfo(ctx context.Context, db *bun.DB, profile *models.Profile) (*models.Profile, error) {
	_, err := db.NewUpdate().Model(profile).
		Set("full_name = ?", profile.FullName).
		Set("username = ?", profile.Username).
		Set("avatar_url = ?", profile.AvatarURL).
		Set("role = ?", profile.Role).
		Set("updated_at = ?", time.Now()).
		WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func UpdateProfileStreak(ctx context.Context, db *bun.DB, profileID string, streak int) error {
	_, err := db.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("current_streak = ?", streak).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", profileID).
		Exec(ctx)
	return err
}

func AddProfileResilienceScore(ctx context.Context, db *bun.DB, profileID string, delta int) error {
	_, err := db.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("resilience_score = resilience_score + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", profileID).
		Exec(ctx)
	return err
}

func CountProfiles(ctx context.Context, db *bun.DB) (int, error) {
	return db.NewSelect().Model((*models.Profile)(nil)).Count(ctx)
}

func GetProfilesByLimit(ctx context.Context, db *bun.DB, limit, offset int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := db.NewSelect().Model(&profiles).Order("created_at ASC").Limit(limit).Offset(offset).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
