package datastore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"resilience/internal/models"
)

func CreateTableDailyMission(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DailyMission)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.UserDailyMission)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserDailyMission)(nil)).Index("index_user_daily_mission_user_mission_day").IfNotExists().Unique().Column("user_id", "mission_id", "assigned_on").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertDailyMission(ctx context.Context, db *bun.DB, mission *models.DailyMission) error {
	_, err := db.NewInsert().Model(mission).On("conflict (id) DO nothing").Exec(ctx)
	return err
}

func ListActiveDailyMissions(ctx context.Context, db *bun.DB) ([]*models.DailyMission, error) {
	var missions []*models.DailyMission
	err := db.NewSelect().Model(&missions).Where("active = ?", true).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return missions, nil
}

func ListUserDailyMissions(ctx context.Context, db *bun.DB, userID string, day time.Time) ([]*models.UserDailyMission, error) {
	var missions []*models.UserDailyMission
	err := db.NewSelect().Model(&missions).
		Relation("Mission").
		Where("user_daily_mission.user_id = ?", userID).
		Where("user_daily_mission.assigned_on = ?", day).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return missions, nil
}

// AssignDailyMissions creates today's rows for every active mission;
// already-assigned rows are left alone.
func AssignDailyMissions(ctx context.Context, db *bun.DB, userID string, day time.Time) error {
	missions, err := ListActiveDailyMissions(ctx, db)
	if err != nil {
		return err
	}
	if len(missions) == 0 {
		return nil
	}

	rows := make([]*models.UserDailyMission, 0, len(missions))
	for _, mission := range missions {
		rows = append(rows, &models.UserDailyMission{
			ID:         uuid.NewString(),
			UserID:     userID,
			MissionID:  mission.ID,
			AssignedOn: day,
		})
	}

	_, err = db.NewInsert().Model(&rows).On("conflict (user_id, mission_id, assigned_on) DO nothing").Exec(ctx)
	return err
}

func FindUserDailyMission(ctx context.Context, db *bun.DB, userID, missionID string, day time.Time) (*models.UserDailyMission, error) {
	var mission models.UserDailyMission
	err := db.NewSelect().Model(&mission).
		Relation("Mission").
		Where("user_daily_mission.user_id = ?", userID).
		Where("user_daily_mission.mission_id = ?", missionID).
		Where("user_daily_mission.assigned_on = ?", day).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

func MarkDailyMissionCompleted(ctx context.Context, db *bun.DB, userID, missionID string, day time.Time) (bool, error) {
	now := time.Now()
	res, err := db.NewUpdate().
		Model((*models.UserDailyMission)(nil)).
		Set("completed = ?", true).
		Set("completed_at = ?", now).
		Where("user_id = ?", userID).
		Where("mission_id = ?", missionID).
		Where("assigned_on = ?", day).
		Where("completed = ?", false).
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

// DeleteMissionAssignmentsBefore prunes stale assignment rows; the cron
// job runs it after each daily reset.
func DeleteMissionAssignmentsBefore(ctx context.Context, db *bun.DB, day time.Time) (int64, error) {
	res, err := db.NewDelete().
		Model((*models.UserDailyMission)(nil)).
		Where("assigned_on < ?", day).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
