package handler

import (
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupMarketplace struct {
	container *do.Injector
}

func (gr *groupMarketplace) Items(c echo.Context) error {
	serviceMarketplace, err := do.Invoke[*services.ServiceMarketplace](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	items, err := serviceMarketplace.ListItems(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, items, nil)
}

func (gr *groupMarketplace) Purchase(c echo.Context) error {
	serviceMarketplace, err := do.Invoke[*services.ServiceMarketplace](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	purchase, err := serviceMarketplace.Purchase(ctx, profile.ID, c.Param("item"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, purchase, nil)
}

func (gr *groupMarketplace) Purchases(c echo.Context) error {
	serviceMarketplace, err := do.Invoke[*services.ServiceMarketplace](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	profile, err := ResolveValidProfile(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, offset := paging(c)
	purchases, err := serviceMarketplace.ListPurchases(ctx, profile.ID, limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, purchases, nil)
}
