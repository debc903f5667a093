package main

import (
	"context"
	"log"
	"time"

	"resilience/internal/datastore"
	"resilience/internal/pkg/caching"
	"resilience/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ClimateJob struct {
	Db      *bun.DB
	Climate *services.ServiceClimate
}

func NewClimateJob(db *bun.DB, dbRedis redis.UniversalClient) (*ClimateJob, error) {
	injector := do.New()
	do.ProvideValue(injector, db)

	cache, err := caching.NewCacheRedis(dbRedis, false)
	if err != nil {
		return nil, err
	}
	do.ProvideValue[caching.Cache](injector, cache)

	serviceClimate, err := services.NewServiceClimate(injector)
	if err != nil {
		return nil, err
	}

	return &ClimateJob{Db: db, Climate: serviceClimate}, nil
}

func (j *ClimateJob) Start(cronRunner *cron.Cron) {
	schedule := "@every 1h"
	if timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CLIMATE_REFRESH_CRON); err == nil && timeline != nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err := cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Climate cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)

	// warm the table on boot so the dashboard never starts empty
	j.runScheduledTask()
}

func (j *ClimateJob) runScheduledTask() {
	if err := j.Climate.RefreshAll(context.Background()); err != nil {
		log.Println(err)
		return
	}
	log.Println("Climate indicators refreshed")
}
