package handler

import (
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupMission struct {
	container *do.Injector
}

func (gr *groupMission) Today(c echo.Context) error {
	serviceMission, err := do.Invoke[*services.ServiceMission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	missions, err := serviceMission.TodayMissions(ctx, profile.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, missions, nil)
}

func (gr *groupMission) Complete(c echo.Context) error {
	serviceMission, err := do.Invoke[*services.ServiceMission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	result, err := serviceMission.CompleteMission(ctx, profile.ID, c.Param("mission"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}
