package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"resilience/internal/models"
)

func CreateTableNotification(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Notification)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Notification)(nil)).Index("index_notification_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertNotification(ctx context.Context, db *bun.DB, notification *models.Notification) error {
	_, err := db.NewInsert().Model(notification).Exec(ctx)
	return err
}

func ListNotifications(ctx context.Context, db *bun.DB, userID string, limit, offset int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := db.NewSelect().Model(&notifications).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func MarkNotificationsRead(ctx context.Context, db *bun.DB, userID string) error {
	_, err := db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read = ?", true).
		Where("user_id = ?", userID).
		Where("read = ?", false).
		Exec(ctx)
	return err
}
