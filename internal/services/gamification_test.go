package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	rediscache "github.com/go-redis/cache/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resilience/internal/interfaces"
	"resilience/internal/models"
	"resilience/internal/pkg/caching"
	"resilience/internal/pkg/locking"
)

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	failNext bool
	// stale, when set, is what Find serves instead of the live row. It
	// stands in for a cache entry refilled by an unlocked reader.
	stale *models.Profile
}

func newFakeProfileStore(profiles ...*models.Profile) *fakeProfileStore {
	store := &fakeProfileStore{profiles: map[string]*models.Profile{}}
	for _, profile := range profiles {
		store.profiles[profile.ID] = profile
	}
	return store
}

func (s *fakeProfileStore) Find(ctx context.Context, profileID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale != nil && s.stale.ID == profileID {
		copied := *s.stale
		return &copied, nil
	}
	profile, ok := s.profiles[profileID]
	if !ok {
		return nil, ErrNotAuthenticated
	}
	copied := *profile
	return &copied, nil
}

func (s *fakeProfileStore) FindForUpdate(ctx context.Context, profileID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[profileID]
	if !ok {
		return nil, ErrNotAuthenticated
	}
	copied := *profile
	return &copied, nil
}

func (s *fakeProfileStore) UpdateProgress(ctx context.Context, profileID string, xp, level, ecoCoins int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("write failed")
	}
	profile, ok := s.profiles[profileID]
	if !ok {
		return ErrNotAuthenticated
	}
	profile.XP = xp
	profile.Level = level
	profile.EcoCoins = ecoCoins
	return nil
}

func (s *fakeProfileStore) get(profileID string) models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.profiles[profileID]
}

type fakeChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*models.UserChallenge
}

func (s *fakeChallengeStore) key(profileID, challengeID string) string {
	return profileID + "/" + challengeID
}

func (s *fakeChallengeStore) FindUserChallenge(ctx context.Context, profileID, challengeID string) (*models.UserChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userChallenge, ok := s.challenges[s.key(profileID, challengeID)]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *userChallenge
	return &copied, nil
}

func (s *fakeChallengeStore) MarkCompleted(ctx context.Context, profileID, challengeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userChallenge, ok := s.challenges[s.key(profileID, challengeID)]
	if !ok {
		return false, errors.New("not found")
	}
	if userChallenge.Completed {
		return false, nil
	}
	now := time.Now()
	userChallenge.Completed = true
	userChallenge.CompletedAt = &now
	return true, nil
}

func (s *fakeChallengeStore) ListUserChallenges(ctx context.Context, profileID string) ([]*models.UserChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.UserChallenge
	for _, userChallenge := range s.challenges {
		if userChallenge.UserID == profileID {
			copied := *userChallenge
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeSessionLog struct {
	mu       sync.Mutex
	sessions []*models.UserSession
}

func (s *fakeSessionLog) Append(ctx context.Context, session *models.UserSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, session)
	return nil
}

type fakeBadgeStore struct {
	mu      sync.Mutex
	catalog []*models.Badge
	granted map[string]bool
}

func (s *fakeBadgeStore) ListUserBadges(ctx context.Context, profileID string) ([]*models.UserBadge, error) {
	return nil, nil
}

func (s *fakeBadgeStore) ListBadgesByRarity(ctx context.Context, rarity models.Rarity) ([]*models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Badge
	for _, badge := range s.catalog {
		if badge.Rarity == rarity {
			out = append(out, badge)
		}
	}
	return out, nil
}

func (s *fakeBadgeStore) Award(ctx context.Context, profileID, badgeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.granted == nil {
		s.granted = map[string]bool{}
	}
	key := profileID + "/" + badgeID
	if s.granted[key] {
		return false, nil
	}
	s.granted[key] = true
	return true, nil
}

type recordedNotification struct {
	ProfileID string
	Kind      models.NotificationKind
	Title     string
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []recordedNotification
}

func (n *fakeNotifier) Notify(ctx context.Context, profileID string, kind models.NotificationKind, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, recordedNotification{profileID, kind, title})
}

func (n *fakeNotifier) byKind(kind models.NotificationKind) []recordedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []recordedNotification
	for _, notification := range n.notifications {
		if notification.Kind == kind {
			out = append(out, notification)
		}
	}
	return out
}

type fakeScoreboard struct {
	mu      sync.Mutex
	updates []models.Profile
}

func (s *fakeScoreboard) UpdateScore(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, *profile)
	return nil
}

// missCache always misses so reads hit the underlying stores.
type missCache struct{}

func (missCache) Get(ctx context.Context, key string, target any) error {
	return rediscache.ErrCacheMiss
}

func (missCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (missCache) Delete(ctx context.Context, key string) error { return nil }

type engineFixture struct {
	service    *ServiceGamification
	profiles   *fakeProfileStore
	challenges *fakeChallengeStore
	sessions   *fakeSessionLog
	badges     *fakeBadgeStore
	notifier   *fakeNotifier
	scoreboard *fakeScoreboard
	locker     *locking.LocalLocker
}

func newEngineFixture(t *testing.T, seed ...*models.Profile) *engineFixture {
	t.Helper()

	fixture := &engineFixture{
		profiles:   newFakeProfileStore(seed...),
		challenges: &fakeChallengeStore{challenges: map[string]*models.UserChallenge{}},
		sessions:   &fakeSessionLog{},
		badges:     &fakeBadgeStore{catalog: []*models.Badge{{ID: "badge-sprout", Name: "Sprout", Rarity: models.RarityCommon}}},
		notifier:   &fakeNotifier{},
		scoreboard: &fakeScoreboard{},
		locker:     locking.NewLocalLocker(),
	}

	injector := do.New()
	do.ProvideValue[interfaces.ProfileStore](injector, fixture.profiles)
	do.ProvideValue[interfaces.ChallengeStore](injector, fixture.challenges)
	do.ProvideValue[interfaces.SessionLogStore](injector, fixture.sessions)
	do.ProvideValue[interfaces.BadgeStore](injector, fixture.badges)
	do.ProvideValue[interfaces.Locker](injector, fixture.locker)
	do.ProvideValue[interfaces.Notifier](injector, fixture.notifier)
	do.ProvideValue[interfaces.Scoreboard](injector, fixture.scoreboard)
	do.ProvideValue[caching.Cache](injector, missCache{})

	service, err := NewServiceGamification(injector)
	require.NoError(t, err)
	fixture.service = service
	return fixture
}

func profileWith(id string, xp, level, coins int) *models.Profile {
	return &models.Profile{ID: id, Username: id, XP: xp, Level: level, EcoCoins: coins}
}

func TestAwardExperienceLevelUpCascade(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("alice", 90, 1, 100))

	result, err := fixture.service.AwardExperience(ctx, "alice", 20, "tree planting")
	require.NoError(t, err)

	assert.Equal(t, 110, result.Profile.XP)
	assert.Equal(t, 2, result.Profile.Level)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 20, result.BonusCoins)
	assert.Equal(t, 120, result.Profile.EcoCoins)

	stored := fixture.profiles.get("alice")
	assert.Equal(t, 110, stored.XP)
	assert.Equal(t, 2, stored.Level)
	assert.Equal(t, 120, stored.EcoCoins)

	levelUps := fixture.notifier.byKind(models.NotificationLevelUp)
	require.Len(t, levelUps, 1)
	assert.Equal(t, "Level Up!", levelUps[0].Title)
}

func TestAwardExperienceMultiLevelJumpPaysOnce(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("bob", 0, 1, 100))

	result, err := fixture.service.AwardExperience(ctx, "bob", 250, "tree planting")
	require.NoError(t, err)

	assert.Equal(t, 250, result.Profile.XP)
	assert.Equal(t, 3, result.Profile.Level)
	assert.Equal(t, 30, result.BonusCoins)
	assert.Equal(t, 130, result.Profile.EcoCoins)

	levelUps := fixture.notifier.byKind(models.NotificationLevelUp)
	assert.Len(t, levelUps, 1)
}

func TestAwardExperienceNoLevelChange(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("carol", 10, 1, 100))

	result, err := fixture.service.AwardExperience(ctx, "carol", 30, "recycling")
	require.NoError(t, err)

	assert.Equal(t, 40, result.Profile.XP)
	assert.Equal(t, 1, result.Profile.Level)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, 0, result.BonusCoins)
	assert.Equal(t, 100, result.Profile.EcoCoins)
}

func TestAwardExperienceRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("dave", 0, 1, 100))

	_, err := fixture.service.AwardExperience(ctx, "dave", 0, "nothing")
	assert.ErrorContains(t, err, ErrInvalidAmount.Error())

	_, err = fixture.service.AwardExperience(ctx, "dave", -10, "nothing")
	assert.ErrorContains(t, err, ErrInvalidAmount.Error())

	_, err = fixture.service.AwardExperience(ctx, "", 10, "nothing")
	assert.ErrorContains(t, err, ErrNotAuthenticated.Error())
}

func TestAwardExperiencePersistFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("erin", 90, 1, 100))
	fixture.profiles.failNext = true

	_, err := fixture.service.AwardExperience(ctx, "erin", 20, "tree planting")
	require.Error(t, err)

	stored := fixture.profiles.get("erin")
	assert.Equal(t, 90, stored.XP)
	assert.Equal(t, 1, stored.Level)
	assert.Equal(t, 100, stored.EcoCoins)
	assert.Empty(t, fixture.notifier.byKind(models.NotificationLevelUp))
}

func TestAwardCoinsSpendAndOverdraft(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("frank", 0, 1, 100))

	profile, err := fixture.service.AwardCoins(ctx, "frank", -40, "seed kit")
	require.NoError(t, err)
	assert.Equal(t, 60, profile.EcoCoins)

	_, err = fixture.service.AwardCoins(ctx, "frank", -100, "tree voucher")
	assert.ErrorContains(t, err, ErrInsufficientFunds.Error())

	stored := fixture.profiles.get("frank")
	assert.Equal(t, 60, stored.EcoCoins)
}

func TestCompleteChallengeIdempotent(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("gus", 0, 1, 100))
	fixture.challenges.challenges["gus/challenge-first-steps"] = &models.UserChallenge{
		ID:          "uc-1",
		UserID:      "gus",
		ChallengeID: "challenge-first-steps",
		Challenge:   &models.Challenge{ID: "challenge-first-steps", Title: "First Steps", XPReward: 50},
	}

	result, err := fixture.service.CompleteChallenge(ctx, "gus", "challenge-first-steps")
	require.NoError(t, err)
	assert.Equal(t, 50, result.Profile.XP)

	_, err = fixture.service.CompleteChallenge(ctx, "gus", "challenge-first-steps")
	assert.ErrorContains(t, err, ErrAlreadyCompleted.Error())

	stored := fixture.profiles.get("gus")
	assert.Equal(t, 50, stored.XP)
}

func TestCompleteChallengeMissingCatalogRowLeavesRowOpen(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("olga", 0, 1, 100))
	fixture.challenges.challenges["olga/challenge-ghost"] = &models.UserChallenge{
		ID:          "uc-2",
		UserID:      "olga",
		ChallengeID: "challenge-ghost",
	}

	_, err := fixture.service.CompleteChallenge(ctx, "olga", "challenge-ghost")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), ErrAlreadyCompleted.Error())

	row, err := fixture.challenges.FindUserChallenge(ctx, "olga", "challenge-ghost")
	require.NoError(t, err)
	assert.False(t, row.Completed)

	// the retry sees the same failure, not a burned completion
	_, err = fixture.service.CompleteChallenge(ctx, "olga", "challenge-ghost")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), ErrAlreadyCompleted.Error())

	stored := fixture.profiles.get("olga")
	assert.Equal(t, 0, stored.XP)
}

func TestConcurrentAwardsLoseNoUpdate(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("heidi", 0, 1, 100))

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fixture.service.AwardExperience(ctx, "heidi", 3, "concurrent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored := fixture.profiles.get("heidi")
	assert.Equal(t, workers*3, stored.XP)
	assert.Equal(t, 1, stored.Level)
	assert.Equal(t, 100, stored.EcoCoins)
}

func TestAwardExperiencePreservesConcurrentDebit(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("mallory", 0, 1, 100))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := fixture.service.AwardExperience(ctx, "mallory", 10, "recycling")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		// a purchase debit runs its own SQL but holds the profile lock
		// for the whole move, like ServiceMarketplace.Purchase does
		unlock, err := fixture.locker.Acquire(ctx, LockKeyProfileProgress("mallory"))
		if !assert.NoError(t, err) {
			return
		}
		stored := fixture.profiles.get("mallory")
		assert.NoError(t, fixture.profiles.UpdateProgress(ctx, "mallory", stored.XP, stored.Level, stored.EcoCoins-50))
		unlock()
	}()
	wg.Wait()

	stored := fixture.profiles.get("mallory")
	assert.Equal(t, 10, stored.XP)
	assert.Equal(t, 50, stored.EcoCoins)
}

func TestAwardExperienceIgnoresStaleCachedProfile(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("nina", 0, 1, 40))
	fixture.profiles.stale = profileWith("nina", 0, 1, 90)

	result, err := fixture.service.AwardExperience(ctx, "nina", 10, "recycling")
	require.NoError(t, err)

	assert.Equal(t, 10, result.Profile.XP)
	assert.Equal(t, 40, result.Profile.EcoCoins)

	stored := fixture.profiles.get("nina")
	assert.Equal(t, 10, stored.XP)
	assert.Equal(t, 40, stored.EcoCoins)
}

func TestTrackSessionDerivesCoins(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("ivan", 0, 1, 100))

	session, err := fixture.service.TrackSession(ctx, "ivan", "city_exploration", 30, 47)
	require.NoError(t, err)
	assert.Equal(t, 4, session.EcoCoinsEarned)

	// tracking is append-only; the profile does not move
	stored := fixture.profiles.get("ivan")
	assert.Equal(t, 0, stored.XP)
	assert.Equal(t, 100, stored.EcoCoins)
	require.Len(t, fixture.sessions.sessions, 1)
}

func TestScoreboardUpdatedAfterAward(t *testing.T) {
	ctx := context.Background()
	fixture := newEngineFixture(t, profileWith("judy", 0, 1, 100))

	_, err := fixture.service.AwardExperience(ctx, "judy", 120, "cleanup")
	require.NoError(t, err)

	require.Len(t, fixture.scoreboard.updates, 1)
	assert.Equal(t, 120, fixture.scoreboard.updates[0].XP)
}
