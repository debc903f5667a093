package handler

import (
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupLeaderboard struct {
	container *do.Injector
}

func (gr *groupLeaderboard) GetOverallLeaderboard(c echo.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()

	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	leaderboard, err := serviceLeaderboard.GetOverallLeaderboard(ctx, profile)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, leaderboard, nil)
}

func (gr *groupLeaderboard) GetWeeklyLeaderboard(c echo.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()

	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	leaderboard, err := serviceLeaderboard.GetWeeklyLeaderboard(ctx, profile)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, leaderboard, nil)
}
