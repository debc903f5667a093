package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrProfileLock = errors.New("profile locked")
var ErrNotAuthenticated = errors.New("no authenticated profile")
var ErrInsufficientFunds = errors.New("insufficient eco coins")
var ErrAlreadyCompleted = errors.New("already completed")
var ErrInvalidAmount = errors.New("invalid amount")

const (
	CONFIG_SERVER_MODE               = "SERVER_MODE"
	CONFIG_LEADERBOARD_LIMIT         = "LEADERBOARD_LIMIT"
	CONFIG_WEEKLY_LEADERBOARD_LIMIT  = "WEEKLY_LEADERBOARD_LIMIT"
	CONFIG_CLIMATE_REFRESH_CRON      = "CLIMATE_REFRESH_CRON"
	CONFIG_CLIMATE_CITIES            = "CLIMATE_CITIES"
	CONFIG_MISSION_RESET_CRON        = "MISSION_RESET_CRON"
	CONFIG_WELCOME_TITLE             = "WELCOME_TITLE"
	CONFIG_WELCOME_BODY              = "WELCOME_BODY"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	LEADERBOARD_RESILIENCE        = "resilience"
	LEADERBOARD_RESILIENCE_WEEKLY = "resilience_weekly"

	LEADERBOARD_DEFAULT_LIMIT = 20

	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_15_MINS    = 15 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour
	CACHE_TTL_1_DAY      = 24 * time.Hour

	ECO_ACTION_RATE_LIMIT_PER_MINUTE = 6
	COMMENT_RATE_LIMIT_PER_MINUTE    = 20
)

// locks
func LockKeyProfileProgress(profileID string) string {
	return fmt.Sprintf("lock:profile-progress:%s", profileID)
}

func LockKeyUserChallenge(profileID string, challengeID string) string {
	return fmt.Sprintf("lock:user-challenge:%s:%s", profileID, challengeID)
}

func LockKeyUserMission(profileID string, missionID string) string {
	return fmt.Sprintf("lock:user-mission:%s:%s", profileID, missionID)
}

// db cache
func DBKeyProfile(profileID string) string {
	return fmt.Sprintf("profile:%s", profileID)
}

func DBKeyUserChallenges(profileID string) string {
	return fmt.Sprintf("user_challenges:%s", profileID)
}

func DBKeyUserBadges(profileID string) string {
	return fmt.Sprintf("user_badges:%s", profileID)
}

func DBKeyChallengeCatalog() string {
	return "challenges:catalog"
}

func DBKeyMarketplaceItems() string {
	return "marketplace:items:active"
}

func DBKeyUserMissions(profileID string, day string) string {
	return fmt.Sprintf("user_missions:%s:%s", profileID, day)
}

func DBKeyCityIndicators() string {
	return "climate:city_indicators"
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyLeaderboardByUser(name string, profileID string, limit int) string {
	return fmt.Sprintf("leaderboard_by_user:%s:%s:%d", strings.ToLower(name), profileID, limit)
}

func DBKeySessionSummary(profileID string) string {
	return fmt.Sprintf("user_sessions:summary:%s", profileID)
}

// limits
func LimitKeyEcoAction(profileID string) string {
	return fmt.Sprintf("limit:eco_action:%s", profileID)
}

func LimitKeyComment(profileID string) string {
	return fmt.Sprintf("limit:comment:%s", profileID)
}
