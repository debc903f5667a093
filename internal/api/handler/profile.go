package handler

import (
	"strconv"

	"resilience/internal/models"
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupProfile struct {
	container *do.Injector
}

func paging(c echo.Context) (limit int, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

func (gr *groupProfile) Me(c echo.Context) error {
	ctx := c.Request().Context()

	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, profile, nil)
}

type updateProfilePayload struct {
	FullName  string      `json:"full_name"`
	Username  string      `json:"username"`
	AvatarURL *string     `json:"avatar_url"`
	Role      models.Role `json:"role"`
}

func (gr *groupProfile) Update(c echo.Context) error {
	serviceProfile, err := do.Invoke[*services.ServiceProfile](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload updateProfilePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	updated, err := serviceProfile.UpdateInfo(ctx, profile, payload.FullName, payload.Username, payload.AvatarURL, payload.Role)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, updated, nil)
}

func (gr *groupProfile) Sessions(c echo.Context) error {
	serviceProfile, err := do.Invoke[*services.ServiceProfile](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, offset := paging(c)
	sessions, err := serviceProfile.ListSessions(ctx, profile.ID, limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, sessions, nil)
}

func (gr *groupProfile) SessionSummary(c echo.Context) error {
	serviceProfile, err := do.Invoke[*services.ServiceProfile](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	summary, err := serviceProfile.SessionSummary(ctx, profile.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, summary, nil)
}
