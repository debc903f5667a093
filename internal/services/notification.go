package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"resilience/internal/datastore"
	"resilience/internal/datastore/redis_store"
	"resilience/internal/interfaces"
	"resilience/internal/models"
)

// ServiceNotification persists user-visible messages and queues the
// transient copy for the next client poll. Notify never returns an
// error: a dropped toast must not fail the reward that produced it.
type ServiceNotification struct {
	container  *do.Injector
	postgresDB *bun.DB
	redisDB    redis.UniversalClient
}

var _ interfaces.Notifier = (*ServiceNotification)(nil)

func NewServiceNotification(container *do.Injector) (*ServiceNotification, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	return &ServiceNotification{container, postgresDB, redisDB}, nil
}

func (service *ServiceNotification) Notify(ctx context.Context, profileID string, kind models.NotificationKind, title, body string) {
	notification := &models.Notification{
		ID:     uuid.NewString(),
		UserID: profileID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	}

	if err := datastore.InsertNotification(ctx, service.postgresDB, notification); err != nil {
		log.Printf("notify: persist failed for %s: %v", profileID, err)
	}

	if err := redis_store.PushPendingNotification(ctx, service.redisDB, profileID, notification); err != nil {
		log.Printf("notify: queue failed for %s: %v", profileID, err)
	}
}

func (service *ServiceNotification) List(ctx context.Context, profileID string, limit, offset int) ([]*models.Notification, error) {
	notifications, err := datastore.ListNotifications(ctx, service.postgresDB, profileID, limit, offset)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return notifications, nil
}

// Pending drains the transient toast queue.
func (service *ServiceNotification) Pending(ctx context.Context, profileID string) ([]*models.Notification, error) {
	notifications, err := redis_store.PopPendingNotifications(ctx, service.redisDB, profileID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return notifications, nil
}

func (service *ServiceNotification) MarkAllRead(ctx context.Context, profileID string) error {
	if err := datastore.MarkNotificationsRead(ctx, service.postgresDB, profileID); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	return nil
}
