package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/mroth/weightedrand/v2"
	"github.com/samber/do"

	"resilience/internal/interfaces"
	"resilience/internal/models"
	"resilience/internal/pkg/caching"
	"resilience/internal/pkg/leveling"
)

// ServiceGamification applies experience and currency grants to
// profiles. Its contract is strict: persist first, reflect after, and
// serialize every read-modify-write on a profile behind that profile's
// lock so concurrent grants never lose an update.
type ServiceGamification struct {
	container  *do.Injector
	profiles   interfaces.ProfileStore
	challenges interfaces.ChallengeStore
	sessions   interfaces.SessionLogStore
	badges     interfaces.BadgeStore
	locks      interfaces.Locker
	notifier   interfaces.Notifier
	scoreboard interfaces.Scoreboard
	cache      caching.Cache
}

func NewServiceGamification(container *do.Injector) (*ServiceGamification, error) {
	profiles, err := do.Invoke[interfaces.ProfileStore](container)
	if err != nil {
		return nil, err
	}

	challenges, err := do.Invoke[interfaces.ChallengeStore](container)
	if err != nil {
		return nil, err
	}

	sessions, err := do.Invoke[interfaces.SessionLogStore](container)
	if err != nil {
		return nil, err
	}

	badges, err := do.Invoke[interfaces.BadgeStore](container)
	if err != nil {
		return nil, err
	}

	locks, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	notifier, err := do.Invoke[interfaces.Notifier](container)
	if err != nil {
		return nil, err
	}

	scoreboard, err := do.Invoke[interfaces.Scoreboard](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceGamification{container, profiles, challenges, sessions, badges, locks, notifier, scoreboard, cache}, nil
}

type AwardResult struct {
	Profile    *models.Profile `json:"profile"`
	LeveledUp  bool            `json:"leveled_up"`
	BonusCoins int             `json:"bonus_coins"`
}

// AwardExperience grants XP, recomputes the level, and on a level
// transition pays the level bonus in the same persisted write. When a
// grant jumps several levels at once the bonus is paid once, for the
// final level reached. The bonus only ever touches the coin column, so
// the cascade cannot trigger a second level check against stale state.
func (service *ServiceGamification) AwardExperience(ctx context.Context, profileID string, amount int, reason string) (*AwardResult, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}
	if amount <= 0 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Invalid)
	}

	unlock, err := service.locks.Acquire(ctx, LockKeyProfileProgress(profileID))
	if err != nil {
		return nil, errorx.Wrap(ErrProfileLock, errorx.Invalid)
	}
	defer unlock()

	// read straight from the store: the cached Find can be re-populated
	// by unlocked readers and would feed this write a stale snapshot
	profile, err := service.profiles.FindForUpdate(ctx, profileID)
	if err != nil {
		return nil, err
	}

	newXP := profile.XP + amount
	newLevel := leveling.LevelFor(newXP)
	leveledUp := newLevel > profile.Level

	bonusCoins := 0
	newCoins := profile.EcoCoins
	if leveledUp {
		bonusCoins = models.LevelBonusCoins(newLevel)
		newCoins += bonusCoins
	}

	if err := service.profiles.UpdateProgress(ctx, profileID, newXP, newLevel, newCoins); err != nil {
		// local state stays put; the caller sees the failure and the
		// stored profile is still internally consistent
		return nil, err
	}

	profile.XP = newXP
	profile.Level = newLevel
	profile.EcoCoins = newCoins

	service.notifier.Notify(ctx, profileID, models.NotificationReward, fmt.Sprintf("+%d XP Earned!", amount), reason)
	if leveledUp {
		service.notifier.Notify(ctx, profileID, models.NotificationLevelUp, "Level Up!", fmt.Sprintf("Congratulations! You've reached Level %d!", newLevel))
		service.notifier.Notify(ctx, profileID, models.NotificationReward, fmt.Sprintf("+%d EcoCoins", bonusCoins), fmt.Sprintf("Level %d bonus!", newLevel))
		service.dropMilestoneBadge(ctx, profileID, newLevel)
	}

	if err := service.scoreboard.UpdateScore(ctx, profile); err != nil {
		log.Printf("gamification: scoreboard update failed for %s: %v", profileID, err)
	}

	return &AwardResult{Profile: profile, LeveledUp: leveledUp, BonusCoins: bonusCoins}, nil
}

// AwardCoins applies a sign-significant currency delta. A spend that
// would drive the balance below zero fails with no state change.
func (service *ServiceGamification) AwardCoins(ctx context.Context, profileID string, amount int, reason string) (*models.Profile, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}
	if amount == 0 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Invalid)
	}

	unlock, err := service.locks.Acquire(ctx, LockKeyProfileProgress(profileID))
	if err != nil {
		return nil, errorx.Wrap(ErrProfileLock, errorx.Invalid)
	}
	defer unlock()

	profile, err := service.profiles.FindForUpdate(ctx, profileID)
	if err != nil {
		return nil, err
	}

	newBalance := profile.EcoCoins + amount
	if newBalance < 0 {
		return nil, errorx.Wrap(ErrInsufficientFunds, errorx.Invalid)
	}

	if err := service.profiles.UpdateProgress(ctx, profileID, profile.XP, profile.Level, newBalance); err != nil {
		return nil, err
	}

	profile.EcoCoins = newBalance

	if amount > 0 {
		service.notifier.Notify(ctx, profileID, models.NotificationReward, fmt.Sprintf("+%d EcoCoins", amount), reason)
	}

	return profile, nil
}

// CompleteChallenge transitions a user challenge to completed exactly
// once and pays its fixed reward. The completion write lands before the
// reward: a retry after a failed write never double-credits.
func (service *ServiceGamification) CompleteChallenge(ctx context.Context, profileID string, challengeID string) (*AwardResult, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}

	unlock, err := service.locks.Acquire(ctx, LockKeyUserChallenge(profileID, challengeID))
	if err != nil {
		return nil, errorx.Wrap(ErrProfileLock, errorx.Invalid)
	}
	defer unlock()

	userChallenge, err := service.challenges.FindUserChallenge(ctx, profileID, challengeID)
	if err != nil {
		return nil, err
	}
	if userChallenge.Completed {
		return nil, errorx.Wrap(ErrAlreadyCompleted, errorx.Invalid)
	}

	// the payout must be known good before the completion row flips;
	// marking first would burn the attempt when the award is rejected
	challenge := userChallenge.Challenge
	if challenge == nil || challenge.XPReward <= 0 {
		return nil, errorx.Wrap(errors.New("challenge catalog row missing"), errorx.Service)
	}

	completed, err := service.challenges.MarkCompleted(ctx, profileID, challengeID)
	if err != nil {
		return nil, err
	}
	if !completed {
		// lost the race to another request for the same challenge
		return nil, errorx.Wrap(ErrAlreadyCompleted, errorx.Invalid)
	}

	result, err := service.AwardExperience(ctx, profileID, challenge.XPReward, fmt.Sprintf("Completed: %s", challenge.Title))
	if err != nil {
		return nil, err
	}

	_ = service.cache.Delete(ctx, DBKeyUserChallenges(profileID))

	return result, nil
}

// TrackSession appends one activity record with its derived coin column.
// It never awards by itself; the log stays writable even when the reward
// path is down.
func (service *ServiceGamification) TrackSession(ctx context.Context, profileID string, sessionType string, durationMinutes int, xpEarned int) (*models.UserSession, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}
	if sessionType == "" || durationMinutes < 0 || xpEarned < 0 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Invalid)
	}

	session := &models.UserSession{
		UserID:          profileID,
		SessionType:     sessionType,
		DurationMinutes: durationMinutes,
		XPEarned:        xpEarned,
		EcoCoinsEarned:  models.SessionCoins(xpEarned),
	}

	if err := service.sessions.Append(ctx, session); err != nil {
		return nil, err
	}

	_ = service.cache.Delete(ctx, DBKeySessionSummary(profileID))

	return session, nil
}

func (service *ServiceGamification) ListUserChallenges(ctx context.Context, profileID string) ([]*models.UserChallenge, error) {
	callback := func() ([]*models.UserChallenge, error) {
		return service.challenges.ListUserChallenges(ctx, profileID)
	}
	return caching.UseCache(ctx, service.cache, DBKeyUserChallenges(profileID), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceGamification) ListUserBadges(ctx context.Context, profileID string) ([]*models.UserBadge, error) {
	callback := func() ([]*models.UserBadge, error) {
		return service.badges.ListUserBadges(ctx, profileID)
	}
	return caching.UseCache(ctx, service.cache, DBKeyUserBadges(profileID), CACHE_TTL_5_MINS, callback)
}

// dropMilestoneBadge grants a random badge on level-up, rarity weighted
// toward common. Failures only log; the badge drop is a garnish, never
// part of the reward contract.
func (service *ServiceGamification) dropMilestoneBadge(ctx context.Context, profileID string, level int) {
	chooser, err := weightedrand.NewChooser(
		weightedrand.NewChoice(models.RarityCommon, models.RarityCommon.DropWeight()),
		weightedrand.NewChoice(models.RarityRare, models.RarityRare.DropWeight()),
		weightedrand.NewChoice(models.RarityEpic, models.RarityEpic.DropWeight()),
		weightedrand.NewChoice(models.RarityLegendary, models.RarityLegendary.DropWeight()),
	)
	if err != nil {
		log.Printf("gamification: badge chooser: %v", err)
		return
	}

	rarity := chooser.Pick()
	badges, err := service.badges.ListBadgesByRarity(ctx, rarity)
	if err != nil || len(badges) == 0 {
		return
	}

	badge := badges[rand.Intn(len(badges))]
	granted, err := service.badges.Award(ctx, profileID, badge.ID)
	if err != nil {
		log.Printf("gamification: badge award failed for %s: %v", profileID, err)
		return
	}
	if !granted {
		return
	}

	_ = service.cache.Delete(ctx, DBKeyUserBadges(profileID))
	service.notifier.Notify(ctx, profileID, models.NotificationReward, "New Badge!", fmt.Sprintf("Level %d unlocked: %s", level, badge.Name))
}
