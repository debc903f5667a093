package handler

import (
	"context"
	"errors"
	"strings"

	"resilience/internal/models"
	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthProfile ctxKey = "AUTH_PROFILE"

// Authn attaches the verified token subject to the request context. It
// does not terminate unauthenticated requests; handlers that need an
// identity resolve it through ResolveValidProfile.
func Authn(verifier interface {
	Validate(token string) (*models.ProfileFromAuth, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			auth, err := verifier.Validate(token)
			if err != nil {
				// token was present but bad; say no more than that
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthProfile, auth)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveValidProfile(ctx context.Context, container *do.Injector) (*models.Profile, error) {
	auth, ok := ctx.Value(ctxKeyAuthProfile).(*models.ProfileFromAuth)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	serviceProfile, err := do.Invoke[*services.ServiceProfile](container)
	if err != nil {
		return nil, err
	}

	return serviceProfile.Find(ctx, auth.ID)
}
