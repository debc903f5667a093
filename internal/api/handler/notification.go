package handler

import (
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupNotification struct {
	container *do.Injector
}

func (gr *groupNotification) List(c echo.Context) error {
	serviceNotification, err := do.Invoke[*services.ServiceNotification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, offset := paging(c)
	notifications, err := serviceNotification.List(ctx, profile.ID, limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, notifications, nil)
}

// Pending drains the realtime queue; each notification is delivered
// through here at most once.
func (gr *groupNotification) Pending(c echo.Context) error {
	serviceNotification, err := do.Invoke[*services.ServiceNotification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	notifications, err := serviceNotification.Pending(ctx, profile.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, notifications, nil)
}

func (gr *groupNotification) MarkAllRead(c echo.Context) error {
	serviceNotification, err := do.Invoke[*services.ServiceNotification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceNotification.MarkAllRead(ctx, profile.ID); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, true, nil)
}
