package handler

import (
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupRewards struct {
	container *do.Injector
}

type awardXPPayload struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

type awardCoinsPayload struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

type trackSessionPayload struct {
	SessionType     string `json:"session_type"`
	DurationMinutes int    `json:"duration_minutes"`
	XPEarned        int    `json:"xp_earned"`
}

func (gr *groupRewards) AwardXP(c echo.Context) error {
	serviceGamification, err := do.Invoke[*services.ServiceGamification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload awardXPPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceGamification.AwardExperience(ctx, profile.ID, payload.Amount, payload.Reason)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupRewards) AwardCoins(c echo.Context) error {
	serviceGamification, err := do.Invoke[*services.ServiceGamification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload awardCoinsPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	updated, err := serviceGamification.AwardCoins(ctx, profile.ID, payload.Amount, payload.Reason)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, updated, nil)
}

func (gr *groupRewards) TrackSession(c echo.Context) error {
	serviceGamification, err := do.Invoke[*services.ServiceGamification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload trackSessionPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	session, err := serviceGamification.TrackSession(ctx, profile.ID, payload.SessionType, payload.DurationMinutes, payload.XPEarned)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, session, nil)
}

func (gr *groupRewards) Challenges(c echo.Context) error {
	serviceGamification, err := do.Invoke[*services.ServiceGamification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	challenges, err := serviceGamification.ListUserChallenges(ctx, profile.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, challenges, nil)
}

func (gr *groupRewards) CompleteChallenge(c echo.Context) error {
	serviceGamification, err := do.Invoke[*services.ServiceGamification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	result, err := serviceGamification.CompleteChallenge(ctx, profile.ID, c.Param("challenge"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupRewards) Badges(c echo.Context) error {
	serviceGamification, err := do.Invoke[*services.ServiceGamification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	badges, err := serviceGamification.ListUserBadges(ctx, profile.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, badges, nil)
}
