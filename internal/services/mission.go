package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"resilience/internal/datastore"
	"resilience/internal/interfaces"
	"resilience/internal/models"
)

// ServiceMission hands out the daily mission set and pays completions
// through the gamification engine.
type ServiceMission struct {
	container  *do.Injector
	postgresDB *bun.DB
	locks      interfaces.Locker

	serviceGamification *ServiceGamification
}

func NewServiceMission(container *do.Injector) (*ServiceMission, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	locks, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	serviceGamification, err := do.Invoke[*ServiceGamification](container)
	if err != nil {
		return nil, err
	}

	return &ServiceMission{container, postgresDB, locks, serviceGamification}, nil
}

func missionDay(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour)
}

// TodayMissions returns the caller's assignments for the current day,
// creating them on first access. Assignment is idempotent so a burst of
// requests on a fresh day settles on one row per mission.
func (service *ServiceMission) TodayMissions(ctx context.Context, profileID string) ([]*models.UserDailyMission, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}

	day := missionDay(time.Now())

	assignments, err := datastore.ListUserDailyMissions(ctx, service.postgresDB, profileID, day)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if len(assignments) > 0 {
		return assignments, nil
	}

	if err := datastore.AssignDailyMissions(ctx, service.postgresDB, profileID, day); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	assignments, err = datastore.ListUserDailyMissions(ctx, service.postgresDB, profileID, day)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return assignments, nil
}

func (service *ServiceMission) CompleteMission(ctx context.Context, profileID string, missionID string) (*AwardResult, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}

	unlock, err := service.locks.Acquire(ctx, LockKeyUserMission(profileID, missionID))
	if err != nil {
		return nil, errorx.Wrap(ErrProfileLock, errorx.Service)
	}
	defer unlock()

	day := missionDay(time.Now())

	assignment, err := datastore.FindUserDailyMission(ctx, service.postgresDB, profileID, missionID, day)
	if err != nil {
		return nil, errorx.Wrap(errors.New("mission not assigned today"), errorx.NotExist)
	}
	if assignment.Completed {
		return nil, errorx.Wrap(ErrAlreadyCompleted, errorx.Invalid)
	}

	// validate the payout before flipping the completion row so a bad
	// catalog row cannot leave the mission done but unpaid
	mission := assignment.Mission
	if mission == nil || mission.XPReward <= 0 {
		return nil, errorx.Wrap(errors.New("mission catalog row missing"), errorx.Service)
	}

	completed, err := datastore.MarkDailyMissionCompleted(ctx, service.postgresDB, profileID, missionID, day)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if !completed {
		return nil, errorx.Wrap(ErrAlreadyCompleted, errorx.Invalid)
	}

	reason := fmt.Sprintf("Daily mission: %s", mission.Title)

	result, err := service.serviceGamification.AwardExperience(ctx, profileID, mission.XPReward, reason)
	if err != nil {
		return nil, err
	}

	if mission.CoinReward > 0 {
		updated, err := service.serviceGamification.AwardCoins(ctx, profileID, mission.CoinReward, reason)
		if err != nil {
			return result, err
		}
		result.Profile = updated
	}

	return result, nil
}
