package services

import (
	"context"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"resilience/internal/datastore"
	"resilience/internal/datastore/redis_store"
	"resilience/internal/interfaces"
	"resilience/internal/models"
	"resilience/internal/pkg/caching"
)

// ServiceLeaderboard keeps the resilience boards in redis sorted sets.
// Scores are pushed after every successful experience grant; the weekly
// board is cleared by the cron snapshot job.
type ServiceLeaderboard struct {
	container  *do.Injector
	redisDB    redis.UniversalClient
	postgresDB *bun.DB
	cache      caching.Cache

	serviceConfig *ServiceConfig
}

var _ interfaces.Scoreboard = (*ServiceLeaderboard)(nil)

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, redisDB, postgresDB, cache, serviceConfig}, nil
}

// UpdateScore implements interfaces.Scoreboard. Both boards track XP;
// the weekly one is reset on a schedule rather than scoped per entry.
func (service *ServiceLeaderboard) UpdateScore(ctx context.Context, profile *models.Profile) error {
	item := &models.LeaderboardItem{
		UserID: profile.ID,
		Score:  float64(profile.XP),
	}

	if _, err := redis_store.SetLeaderboardScore(ctx, service.redisDB, LEADERBOARD_RESILIENCE, item); err != nil {
		return err
	}
	if _, err := redis_store.SetLeaderboardScore(ctx, service.redisDB, LEADERBOARD_RESILIENCE_WEEKLY, item); err != nil {
		return err
	}

	return nil
}

func (service *ServiceLeaderboard) GetOverallLeaderboard(ctx context.Context, profile *models.Profile) (*models.LeaderboardResponse, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_LEADERBOARD_LIMIT, LEADERBOARD_DEFAULT_LIMIT)
	return service.getLeaderboard(ctx, profile, LEADERBOARD_RESILIENCE, limit)
}

func (service *ServiceLeaderboard) GetWeeklyLeaderboard(ctx context.Context, profile *models.Profile) (*models.LeaderboardResponse, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_WEEKLY_LEADERBOARD_LIMIT, LEADERBOARD_DEFAULT_LIMIT)
	return service.getLeaderboard(ctx, profile, LEADERBOARD_RESILIENCE_WEEKLY, limit)
}

// ResetWeekly clears the weekly board; the cron job calls it at the top
// of each week.
func (service *ServiceLeaderboard) ResetWeekly(ctx context.Context) error {
	return redis_store.ClearLeaderboard(ctx, service.redisDB, LEADERBOARD_RESILIENCE_WEEKLY)
}

func (service *ServiceLeaderboard) getLeaderboard(ctx context.Context, profile *models.Profile, leaderboardName string, limit int) (*models.LeaderboardResponse, error) {
	callback := func() (*models.LeaderboardResponse, error) {
		leaderboard, err := redis_store.GetLeaderboard(ctx, service.redisDB, leaderboardName, limit)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}

		me := &models.LeaderboardItem{
			Username: profile.Username,
			UserID:   profile.ID,
			Avatar:   profile.AvatarURL,
		}
		rank, err := redis_store.GetRankWithScore(ctx, service.redisDB, leaderboardName, profile.ID)
		if err != nil && err != redis.Nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}
		if err == nil {
			me.Rank = int(rank.Rank) + 1
			me.Score = rank.Score
		}

		for _, item := range leaderboard {
			p, err := datastore.FindProfileByID(ctx, service.postgresDB, item.UserID)
			if err != nil {
				continue
			}
			item.Username = p.Username
			item.Avatar = p.AvatarURL
		}

		return &models.LeaderboardResponse{Leaderboard: leaderboard, Me: me}, nil
	}

	return caching.UseCache(ctx, service.cache, DBKeyLeaderboardByUser(leaderboardName, profile.ID, limit), CACHE_TTL_1_MIN, callback)
}
