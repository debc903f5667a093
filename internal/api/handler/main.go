package handler

import (
	"net/http"

	"resilience/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🌍")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)

		a := groupAuth{cfg.Container}
		routesAPIv1.POST("/auth/signup", a.SignUp)
		routesAPIv1.POST("/auth/signin", a.SignIn)

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		routesAPIv1Profile := routesAPIv1.Group("/profile")
		{
			p := groupProfile{cfg.Container}
			routesAPIv1Profile.GET("/me", p.Me)
			routesAPIv1Profile.PATCH("/me", p.Update)
			routesAPIv1Profile.GET("/me/sessions", p.Sessions)
			routesAPIv1Profile.GET("/me/sessions/summary", p.SessionSummary)
		}

		routesAPIv1Rewards := routesAPIv1.Group("/rewards")
		{
			rw := groupRewards{cfg.Container}
			routesAPIv1Rewards.POST("/xp", rw.AwardXP)
			routesAPIv1Rewards.POST("/coins", rw.AwardCoins)
			routesAPIv1Rewards.POST("/sessions", rw.TrackSession)
		}

		rw := groupRewards{cfg.Container}
		routesAPIv1.GET("/challenges", rw.Challenges)
		routesAPIv1.POST("/challenges/:challenge/complete", rw.CompleteChallenge)
		routesAPIv1.GET("/badges", rw.Badges)

		e := groupEcoAction{cfg.Container}
		routesAPIv1.GET("/actions", e.List)
		routesAPIv1.POST("/actions", e.Create)
		routesAPIv1.POST("/actions/:action/like", e.Like)
		routesAPIv1.GET("/actions/:action/comments", e.Comments)
		routesAPIv1.POST("/actions/:action/comments", e.Comment)

		m := groupMarketplace{cfg.Container}
		routesAPIv1.GET("/marketplace/items", m.Items)
		routesAPIv1.POST("/marketplace/items/:item/purchase", m.Purchase)
		routesAPIv1.GET("/marketplace/purchases", m.Purchases)

		ms := groupMission{cfg.Container}
		routesAPIv1.GET("/missions/today", ms.Today)
		routesAPIv1.POST("/missions/:mission/complete", ms.Complete)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/overall", l.GetOverallLeaderboard)
		routesAPIv1.GET("/leaderboard/overall_weekly", l.GetWeeklyLeaderboard)

		cl := groupClimate{cfg.Container}
		routesAPIv1.GET("/climate/cities", cl.Indicators)

		n := groupNotification{cfg.Container}
		routesAPIv1.GET("/notifications", n.List)
		routesAPIv1.GET("/notifications/pending", n.Pending)
		routesAPIv1.POST("/notifications/read", n.MarkAllRead)
	}

	return r, nil
}
