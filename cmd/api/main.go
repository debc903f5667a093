package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"resilience/internal/api/handler"
	"resilience/internal/interfaces"
	"resilience/internal/pkg/caching"
	"resilience/internal/pkg/limiter"
	"resilience/internal/pkg/locking"
	"resilience/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	vs, err := env.EnvsRequired(
		"JWT_SECRET",
		"DB_DSN",
	)
	if err != nil {
		log.Fatal(err)
	}

	container := NewContainer(vs)

	app := &cli.App{
		Name: "api",
		Commands: []*cli.Command{
			commandServer(container),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandServer(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "start the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "0.0.0.0:8080",
				Usage: "serve address",
			},
		},
		Action: func(c *cli.Context) error {
			vs := do.MustInvokeNamed[map[string]string](container, "envs")
			router, err := handler.New(&handler.Config{
				Container: container,
				Mode:      vs["API_MODE"],
				Origins:   strings.Split(vs["API_ORIGINS"], ","),
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:    c.String("addr"),
				Handler: router,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errWg, errCtx := errgroup.WithContext(ctx)

			errWg.Go(func() error {
				log.Printf("ListenAndServe: %s (%s)\n", c.String("addr"), vs["API_MODE"])
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			})

			errWg.Go(func() error {
				<-errCtx.Done()
				return srv.Shutdown(context.TODO())
			})

			return errWg.Wait()
		},
	}
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()
	vs["API_MODE"] = os.Getenv("API_MODE")
	vs["API_ORIGINS"] = os.Getenv("API_ORIGINS")

	if vs["API_MODE"] == "" {
		vs["API_MODE"] = "production"
	}
	if vs["API_ORIGINS"] == "" {
		vs["API_ORIGINS"] = "*"
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		godotenv.Load()
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(os.Getenv("DB_DSN")),
			pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
		))

		db := bun.NewDB(sqldb, pgdialect.New())
		return db, nil
	})

	do.ProvideNamed(injector, "redis-db", func(i *do.Injector) (redis.UniversalClient, error) {
		clusterRedisURL := os.Getenv("CLUSTER_REDIS_DB")
		if clusterRedisURL != "" {
			clusterOpts, err := redis.ParseClusterURL(clusterRedisURL)
			if err != nil {
				return nil, err
			}
			return redis.NewClusterClient(clusterOpts), nil
		}
		return db.InitRedis(&db.RedisConfig{
			URL: os.Getenv("REDIS_DB"),
		})
	})

	do.ProvideNamed(injector, "redis-cache", func(i *do.Injector) (redis.UniversalClient, error) {
		clusterRedisURL := os.Getenv("CLUSTER_REDIS_CACHE")
		if clusterRedisURL != "" {
			clusterOpts, err := redis.ParseClusterURL(clusterRedisURL)
			if err != nil {
				return nil, err
			}
			return redis.NewClusterClient(clusterOpts), nil
		}
		return db.InitRedis(&db.RedisConfig{
			URL: os.Getenv("REDIS_CACHE"),
		})
	})

	do.ProvideNamed(injector, "redis-limiter", func(i *do.Injector) (redis.UniversalClient, error) {
		clusterRedisURL := os.Getenv("CLUSTER_REDIS_LIMITER")
		if clusterRedisURL != "" {
			clusterOpts, err := redis.ParseClusterURL(clusterRedisURL)
			if err != nil {
				return nil, err
			}
			return redis.NewClusterClient(clusterOpts), nil
		}
		return db.InitRedis(&db.RedisConfig{
			URL: os.Getenv("REDIS_LIMITER"),
		})
	})

	do.ProvideNamed(injector, "redis-mutex", func(i *do.Injector) (redis.UniversalClient, error) {
		clusterRedisURL := os.Getenv("CLUSTER_REDIS_MUTEX")
		if clusterRedisURL != "" {
			clusterOpts, err := redis.ParseClusterURL(clusterRedisURL)
			if err != nil {
				return nil, err
			}
			return redis.NewClusterClient(clusterOpts), nil
		}
		return db.InitRedis(&db.RedisConfig{
			URL: os.Getenv("REDIS_MUTEX"),
		})
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		pool := goredis.NewPool(dbRedis)
		rs := redsync.New(pool)
		return rs, nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Locker, error) {
		rs, err := do.Invoke[*redsync.Redsync](i)
		if err != nil {
			return nil, err
		}
		return locking.NewRedsyncLocker(rs), nil
	})

	do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication(vs["JWT_SECRET"])
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceProfile, error) {
		return services.NewServiceProfile(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceNotification, error) {
		return services.NewServiceNotification(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceConfig, error) {
		return services.NewServiceConfig(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceLeaderboard, error) {
		return services.NewServiceLeaderboard(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceGamification, error) {
		return services.NewServiceGamification(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceEcoAction, error) {
		return services.NewServiceEcoAction(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceMarketplace, error) {
		return services.NewServiceMarketplace(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceMission, error) {
		return services.NewServiceMission(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceClimate, error) {
		return services.NewServiceClimate(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ChallengeStoreDB, error) {
		return services.NewChallengeStoreDB(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.SessionLogDB, error) {
		return services.NewSessionLogDB(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.BadgeStoreDB, error) {
		return services.NewBadgeStoreDB(injector)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.ProfileStore, error) {
		return do.Invoke[*services.ServiceProfile](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.ChallengeStore, error) {
		return do.Invoke[*services.ChallengeStoreDB](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.SessionLogStore, error) {
		return do.Invoke[*services.SessionLogDB](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.BadgeStore, error) {
		return do.Invoke[*services.BadgeStoreDB](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Notifier, error) {
		return do.Invoke[*services.ServiceNotification](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Scoreboard, error) {
		return do.Invoke[*services.ServiceLeaderboard](i)
	})

	return injector
}
