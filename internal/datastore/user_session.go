package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"resilience/internal/models"
)

func CreateTableUserSession(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserSession)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserSession)(nil)).Index("index_user_session_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertUserSession(ctx context.Context, db *bun.DB, session *models.UserSession) error {
	_, err := db.NewInsert().Model(session).Exec(ctx)
	return err
}

func ListUserSessions(ctx context.Context, db *bun.DB, userID string, limit, offset int) ([]*models.UserSession, error) {
	var sessions []*models.UserSession
	err := db.NewSelect().Model(&sessions).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

type UserSessionSummary struct {
	SessionCount   int `bun:"session_count" json:"session_count"`
	TotalMinutes   int `bun:"total_minutes" json:"total_minutes"`
	TotalXPEarned  int `bun:"total_xp_earned" json:"total_xp_earned"`
	TotalEcoCoins  int `bun:"total_eco_coins" json:"total_eco_coins"`
}

func GetUserSessionSummary(ctx context.Context, db *bun.DB, userID string) (*UserSessionSummary, error) {
	var summary UserSessionSummary
	err := db.NewSelect().
		Model((*models.UserSession)(nil)).
		ColumnExpr("count(*) AS session_count").
		ColumnExpr("coalesce(sum(duration_minutes), 0) AS total_minutes").
		ColumnExpr("coalesce(sum(xp_earned), 0) AS total_xp_earned").
		ColumnExpr("coalesce(sum(eco_coins_earned), 0) AS total_eco_coins").
		Where("user_id = ?", userID).
		Scan(ctx, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
