package handler

import (
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupClimate struct {
	container *do.Injector
}

func (gr *groupClimate) Indicators(c echo.Context) error {
	serviceClimate, err := do.Invoke[*services.ServiceClimate](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	indicators, err := serviceClimate.ListIndicators(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, indicators, nil)
}
