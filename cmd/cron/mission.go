package main

import (
	"context"
	"log"
	"time"

	"resilience/internal/datastore"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const missionRetentionDays = 30

type MissionJob struct {
	Db *bun.DB
}

func NewMissionJob(db *bun.DB) *MissionJob {
	return &MissionJob{Db: db}
}

func (j *MissionJob) Start(cronRunner *cron.Cron) {
	schedule := "30 0 * * *"
	if timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, "CRONJOB_TIME_MISSION_PRUNE"); err == nil && timeline != nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err := cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Mission cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
}

func (j *MissionJob) runScheduledTask() {
	ctx := context.Background()
	cutoff := time.Now().UTC().AddDate(0, 0, -missionRetentionDays).Truncate(24 * time.Hour)

	deleted, err := datastore.DeleteMissionAssignmentsBefore(ctx, j.Db, cutoff)
	if err != nil {
		log.Println(err)
		return
	}
	log.Println("Pruned mission assignments:", deleted)
}
