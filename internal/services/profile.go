package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"resilience/internal/datastore"
	"resilience/internal/interfaces"
	"resilience/internal/models"
	"resilience/internal/pkg/caching"
)

// ServiceProfile is the identity provider: it owns durable profile state
// and is the only writer of it. The gamification engine consumes it
// through interfaces.ProfileStore.
type ServiceProfile struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache

	authentication *Authentication
	notifier       interfaces.Notifier
}

var _ interfaces.ProfileStore = (*ServiceProfile)(nil)

func NewServiceProfile(container *do.Injector) (*ServiceProfile, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	authentication, err := do.Invoke[*Authentication](container)
	if err != nil {
		return nil, err
	}

	notifier, err := do.Invoke[interfaces.Notifier](container)
	if err != nil {
		return nil, err
	}

	return &ServiceProfile{container, postgresDB, cache, authentication, notifier}, nil
}

// SignUp registers a new identity and creates its profile with fixed
// starting balances: 0 XP, level 1, 100 coins, zero streak and score.
func (service *ServiceProfile) SignUp(ctx context.Context, email, password, fullName string, role models.Role) (*models.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", errorx.Wrap(errors.New("email and password required"), errorx.Validation)
	}
	if role == "" {
		role = models.RoleCitizen
	}
	if !role.Valid() {
		return nil, "", errorx.Wrap(errors.New("unknown role"), errorx.Validation)
	}

	existing, err := datastore.FindProfileByEmail(ctx, service.postgresDB, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}
	if existing != nil {
		return nil, "", errorx.Wrap(errors.New("email already registered"), errorx.Invalid)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	profile := newStartingProfile(email, string(hash), fullName, role)

	if _, err := datastore.CreateProfile(ctx, service.postgresDB, profile); err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	if err := datastore.EnsureUserChallenges(ctx, service.postgresDB, profile.ID); err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	token, err := service.authentication.CreateToken(profile)
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	service.notifier.Notify(ctx, profile.ID, models.NotificationInfo, "Welcome to Earth Resilience!", "Your journey starts at level 1 with 100 EcoCoins.")

	return profile, token, nil
}

func (service *ServiceProfile) SignIn(ctx context.Context, email, password string) (*models.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	profile, err := datastore.FindProfileByEmail(ctx, service.postgresDB, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", errorx.Wrap(errors.New("invalid credentials"), errorx.Authn)
	}
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", errorx.Wrap(errors.New("invalid credentials"), errorx.Authn)
	}

	token, err := service.authentication.CreateToken(profile)
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	return profile, token, nil
}

// Find implements interfaces.ProfileStore with a short read-through
// cache; reward paths invalidate it on every write.
func (service *ServiceProfile) Find(ctx context.Context, profileID string) (*models.Profile, error) {
	callback := func() (*models.Profile, error) {
		return datastore.FindProfileByID(ctx, service.postgresDB, profileID)
	}

	profile, err := caching.UseCache(ctx, service.cache, DBKeyProfile(profileID), CACHE_TTL_1_MIN, callback)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return profile, nil
}

// FindForUpdate implements interfaces.ProfileStore. It skips the cache:
// mutation paths hold the profile lock and must see the committed row,
// while the cache can be refilled by readers that hold no lock.
func (service *ServiceProfile) FindForUpdate(ctx context.Context, profileID string) (*models.Profile, error) {
	profile, err := datastore.FindProfileByID(ctx, service.postgresDB, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return profile, nil
}

// UpdateProgress implements interfaces.ProfileStore. One statement
// persists the whole {xp, level, coins} triple; the cache entry is
// dropped only after the write succeeds.
func (service *ServiceProfile) UpdateProgress(ctx context.Context, profileID string, xp, level, ecoCoins int) error {
	if err := datastore.UpdateProfileProgress(ctx, service.postgresDB, profileID, xp, level, ecoCoins); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	_ = service.cache.Delete(ctx, DBKeyProfile(profileID))
	return nil
}

func (service *ServiceProfile) UpdateInfo(ctx context.Context, profile *models.Profile, fullName, username string, avatarURL *string, role models.Role) (*models.Profile, error) {
	if role != "" {
		if !role.Valid() {
			return nil, errorx.Wrap(errors.New("unknown role"), errorx.Validation)
		}
		profile.Role = role
	}
	if fullName != "" {
		profile.FullName = fullName
	}
	if username != "" {
		profile.Username = strings.ToLower(username)
	}
	if avatarURL != nil {
		profile.AvatarURL = avatarURL
	}

	updated, err := datastore.UpdateProfileInfo(ctx, service.postgresDB, profile)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	_ = service.cache.Delete(ctx, DBKeyProfile(profile.ID))
	return updated, nil
}

func (service *ServiceProfile) ListSessions(ctx context.Context, profileID string, limit, offset int) ([]*models.UserSession, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}

	sessions, err := datastore.ListUserSessions(ctx, service.postgresDB, profileID, limit, offset)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return sessions, nil
}

func (service *ServiceProfile) SessionSummary(ctx context.Context, profileID string) (*datastore.UserSessionSummary, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}

	callback := func() (*datastore.UserSessionSummary, error) {
		return datastore.GetUserSessionSummary(ctx, service.postgresDB, profileID)
	}
	summary, err := caching.UseCache(ctx, service.cache, DBKeySessionSummary(profileID), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return summary, nil
}

// newStartingProfile builds the row every fresh account begins from:
// 0 XP, level 1, 100 EcoCoins.
func newStartingProfile(email, passwordHash, fullName string, role models.Role) *models.Profile {
	return &models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Username:     usernameFromEmail(email),
		Role:         role,
		XP:           0,
		Level:        models.StartingLevel,
		EcoCoins:     models.StartingEcoCoins,
		IsNew:        true,
	}
}

func usernameFromEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	return email[:at]
}
