package main

import (
	"context"
	"log"
	"time"

	"resilience/internal/datastore"
	"resilience/internal/datastore/redis_store"
	"resilience/internal/models"
	"resilience/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	// monday midnight UTC
	schedule := "0 0 * * 1"
	if timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, "CRONJOB_TIME_LEADERBOARD"); err == nil && timeline != nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err := cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Leaderboard cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
	j.initLeaderboard()
}

func (j *LeaderboardJob) runScheduledTask() {
	ctx := context.Background()
	log.Println("Start cleaning weekly leaderboard ...")
	err := redis_store.ClearLeaderboard(ctx, j.Redis, services.LEADERBOARD_RESILIENCE_WEEKLY)
	if err != nil {
		log.Println(err)
		return
	}
	log.Println("Weekly leaderboard cleaned")
}

// initLeaderboard rebuilds the overall board from the profile table so a
// flushed redis recovers without waiting for fresh activity.
func (j *LeaderboardJob) initLeaderboard() {
	ctx := context.Background()
	limit := 100
	offset := 0

	for {
		profiles, err := datastore.GetProfilesByLimit(ctx, j.Db, limit, offset)
		offset += limit
		if err != nil {
			log.Println(err)
			continue
		}

		if len(profiles) == 0 {
			log.Println("Finish loading leaderboard")
			break
		}

		for _, profile := range profiles {
			_, err := redis_store.SetLeaderboardScore(ctx, j.Redis, services.LEADERBOARD_RESILIENCE, &models.LeaderboardItem{
				UserID:   profile.ID,
				Username: profile.Username,
				Score:    float64(profile.XP),
			})
			if err != nil {
				log.Println(err)
			}
		}
	}
}
