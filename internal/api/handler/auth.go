package handler

import (
	"resilience/internal/models"
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAuth struct {
	container *do.Injector
}

type signUpPayload struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

type signInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (gr *groupAuth) SignUp(c echo.Context) error {
	serviceProfile, err := do.Invoke[*services.ServiceProfile](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload signUpPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	ctx := c.Request().Context()
	profile, token, err := serviceProfile.SignUp(ctx, payload.Email, payload.Password, payload.FullName, payload.Role)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"token":   token,
		"profile": profile,
	}, nil)
}

func (gr *groupAuth) SignIn(c echo.Context) error {
	serviceProfile, err := do.Invoke[*services.ServiceProfile](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload signInPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	ctx := c.Request().Context()
	profile, token, err := serviceProfile.SignIn(ctx, payload.Email, payload.Password)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"token":   token,
		"profile": profile,
	}, nil)
}
