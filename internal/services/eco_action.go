package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"resilience/internal/datastore"
	"resilience/internal/interfaces"
	"resilience/internal/models"
)

// ServiceEcoAction runs the community feed. Submitting an action pays
// the fixed reward of its category through the gamification engine.
type ServiceEcoAction struct {
	container  *do.Injector
	postgresDB *bun.DB
	limiter    interfaces.Limiter

	serviceGamification *ServiceGamification
	notifier            interfaces.Notifier
}

func NewServiceEcoAction(container *do.Injector) (*ServiceEcoAction, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	lim, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	serviceGamification, err := do.Invoke[*ServiceGamification](container)
	if err != nil {
		return nil, err
	}

	notifier, err := do.Invoke[interfaces.Notifier](container)
	if err != nil {
		return nil, err
	}

	return &ServiceEcoAction{container, postgresDB, lim, serviceGamification, notifier}, nil
}

func (service *ServiceEcoAction) Create(ctx context.Context, profile *models.Profile, category models.RewardKind, title, description string, imageURL *string) (*models.EcoAction, *AwardResult, error) {
	if profile == nil {
		return nil, nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}
	if !category.Valid() {
		return nil, nil, errorx.Wrap(errors.New("unknown action category"), errorx.Validation)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, errorx.Wrap(errors.New("title required"), errorx.Validation)
	}

	err := service.limiter.Allow(ctx, LimitKeyEcoAction(profile.ID), redis_rate.PerMinute(ECO_ACTION_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return nil, nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, nil, errorx.Wrap(err, errorx.Service)
	}

	action := &models.EcoAction{
		ID:          uuid.NewString(),
		UserID:      profile.ID,
		Category:    category,
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
	}

	if err := datastore.InsertEcoAction(ctx, service.postgresDB, action); err != nil {
		return nil, nil, errorx.Wrap(err, errorx.Service)
	}

	// the action row is durable before any reward moves; a failed grant
	// leaves the post standing and retriable reward-side only
	payload := category.Payload()
	result, err := service.serviceGamification.AwardExperience(ctx, profile.ID, payload.XP, fmt.Sprintf("Eco action: %s", title))
	if err != nil {
		return action, nil, err
	}

	if payload.Coins > 0 {
		updated, err := service.serviceGamification.AwardCoins(ctx, profile.ID, payload.Coins, fmt.Sprintf("Eco action: %s", title))
		if err != nil {
			return action, result, err
		}
		result.Profile = updated
	}

	return action, result, nil
}

func (service *ServiceEcoAction) List(ctx context.Context, viewerID string, limit, offset int) ([]*models.EcoAction, error) {
	actions, err := datastore.ListEcoActions(ctx, service.postgresDB, viewerID, limit, offset)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return actions, nil
}

func (service *ServiceEcoAction) Like(ctx context.Context, profile *models.Profile, actionID string) error {
	if profile == nil {
		return errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}

	action, err := datastore.FindEcoAction(ctx, service.postgresDB, actionID)
	if err != nil {
		return errorx.Wrap(errors.New("action not found"), errorx.NotExist)
	}

	liked, err := datastore.LikeEcoAction(ctx, service.postgresDB, &models.EcoActionLike{
		ID:       uuid.NewString(),
		ActionID: actionID,
		UserID:   profile.ID,
	})
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	if liked && action.UserID != profile.ID {
		service.notifier.Notify(ctx, action.UserID, models.NotificationInfo, "Your eco action got a like!", fmt.Sprintf("%s liked \"%s\"", profile.Username, action.Title))
	}

	return nil
}

func (service *ServiceEcoAction) Comment(ctx context.Context, profile *models.Profile, actionID, content string) (*models.EcoActionComment, error) {
	if profile == nil {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorx.Wrap(errors.New("empty comment"), errorx.Validation)
	}

	err := service.limiter.Allow(ctx, LimitKeyComment(profile.ID), redis_rate.PerMinute(COMMENT_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if _, err := datastore.FindEcoAction(ctx, service.postgresDB, actionID); err != nil {
		return nil, errorx.Wrap(errors.New("action not found"), errorx.NotExist)
	}

	comment := &models.EcoActionComment{
		ID:       uuid.NewString(),
		ActionID: actionID,
		UserID:   profile.ID,
		Content:  content,
	}

	if err := datastore.InsertEcoActionComment(ctx, service.postgresDB, comment); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return comment, nil
}

func (service *ServiceEcoAction) ListComments(ctx context.Context, actionID string, limit, offset int) ([]*models.EcoActionComment, error) {
	comments, err := datastore.ListEcoActionComments(ctx, service.postgresDB, actionID, limit, offset)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return comments, nil
}
