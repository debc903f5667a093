package handler

import (
	"resilience/internal/models"
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupEcoAction struct {
	container *do.Injector
}

type createEcoActionPayload struct {
	Category    models.RewardKind `json:"category"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ImageURL    *string           `json:"image_url"`
}

type commentPayload struct {
	Content string `json:"content"`
}

func (gr *groupEcoAction) List(c echo.Context) error {
	serviceEcoAction, err := do.Invoke[*services.ServiceEcoAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	viewerID := ""
	if profile, err := ResolveValidProfile(ctx, gr.container); err == nil {
		viewerID = profile.ID
	}

	limit, offset := paging(c)
	actions, err := serviceEcoAction.List(ctx, viewerID, limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, actions, nil)
}

func (gr *groupEcoAction) Create(c echo.Context) error {
	serviceEcoAction, err := do.Invoke[*services.ServiceEcoAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload createEcoActionPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	action, result, err := serviceEcoAction.Create(ctx, profile, payload.Category, payload.Title, payload.Description, payload.ImageURL)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"action": action,
		"reward": result,
	}, nil)
}

func (gr *groupEcoAction) Like(c echo.Context) error {
	serviceEcoAction, err := do.Invoke[*services.ServiceEcoAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceEcoAction.Like(ctx, profile, c.Param("action")); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, true, nil)
}

func (gr *groupEcoAction) Comment(c echo.Context) error {
	serviceEcoAction, err := do.Invoke[*services.ServiceEcoAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload commentPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	comment, err := serviceEcoAction.Comment(ctx, profile, c.Param("action"), payload.Content)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, comment, nil)
}

func (gr *groupEcoAction) Comments(c echo.Context) error {
	serviceEcoAction, err := do.Invoke[*services.ServiceEcoAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	limit, offset := paging(c)
	comments, err := serviceEcoAction.ListComments(ctx, c.Param("action"), limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, comments, nil)
}
