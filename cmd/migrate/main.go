package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"resilience/internal/datastore"
	"resilience/internal/models"
	"resilience/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
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
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandSeedCatalog(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableProfile(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableChallenge(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableBadge(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUserSession(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableEcoAction(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableMarketplace(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableDailyMission(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableNotification(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCityIndicator(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: "production"},
				{Key: services.CONFIG_LEADERBOARD_LIMIT, Value: "20"},
				{Key: services.CONFIG_WEEKLY_LEADERBOARD_LIMIT, Value: "20"},
				{Key: services.CONFIG_CLIMATE_REFRESH_CRON, Value: "@every 1h"},
				{Key: services.CONFIG_MISSION_RESET_CRON, Value: "0 0 * * *"},
				{Key: services.CONFIG_WELCOME_TITLE, Value: "Welcome to the Earth Resilience Dashboard!"},
				{Key: services.CONFIG_WELCOME_BODY, Value: "You start with 100 EcoCoins. Log eco actions, finish challenges and climb the leaderboard to make your city more resilient \U0001F331"},
			}

			for _, config := range configs {
				err = datastore.InsertConfig(ctx, db, config)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func commandSeedCatalog() *cli.Command {
	return &cli.Command{
		Name:        "seed-catalog",
		Description: "Insert the default challenge, badge, mission and marketplace catalogs",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			challenges := []*models.Challenge{
				{ID: "challenge-first-steps", Title: "First Steps", Description: "Log your first eco action", XPReward: 50},
				{ID: "challenge-week-streak", Title: "One Week Strong", Description: "Stay active seven days in a row", XPReward: 150},
				{ID: "challenge-tree-hugger", Title: "Tree Hugger", Description: "Complete five tree planting actions", XPReward: 200},
				{ID: "challenge-zero-waste", Title: "Zero Waste Day", Description: "Recycle everything for a full day", XPReward: 100},
				{ID: "challenge-commuter", Title: "Green Commuter", Description: "Use sustainable transport ten times", XPReward: 150},
				{ID: "challenge-neighborhood", Title: "Neighborhood Hero", Description: "Join a community cleanup", XPReward: 250},
			}
			for _, challenge := range challenges {
				if err := datastore.InsertChallenge(ctx, db, challenge); err != nil {
					log.Println(err)
				}
			}

			badges := []*models.Badge{
				{ID: "badge-sprout", Name: "Sprout", Description: "You are growing", Rarity: models.RarityCommon},
				{ID: "badge-recycler", Name: "Recycler", Description: "Waste does not stand a chance", Rarity: models.RarityCommon},
				{ID: "badge-streaker", Name: "Streaker", Description: "Consistency pays off", Rarity: models.RarityCommon},
				{ID: "badge-canopy", Name: "Canopy", Description: "A forest starts with one tree", Rarity: models.RarityRare},
				{ID: "badge-tide-turner", Name: "Tide Turner", Description: "Every drop counts", Rarity: models.RarityRare},
				{ID: "badge-grid-saver", Name: "Grid Saver", Description: "Negawatts are the cheapest watts", Rarity: models.RarityEpic},
				{ID: "badge-city-shield", Name: "City Shield", Description: "Your city is more resilient because of you", Rarity: models.RarityLegendary},
			}
			for _, badge := range badges {
				if err := datastore.InsertBadge(ctx, db, badge); err != nil {
					log.Println(err)
				}
			}

			missions := []*models.DailyMission{
				{ID: "mission-log-action", Title: "Log an eco action", Description: "Share one action with the community today", XPReward: 20, CoinReward: 5, Active: true},
				{ID: "mission-cheer", Title: "Cheer a neighbor", Description: "Like or comment on someone's action", XPReward: 10, CoinReward: 2, Active: true},
				{ID: "mission-learn", Title: "Learn something", Description: "Spend ten minutes on climate education", XPReward: 15, CoinReward: 3, Active: true},
			}
			for _, mission := range missions {
				if err := datastore.InsertDailyMission(ctx, db, mission); err != nil {
					log.Println(err)
				}
			}

			limited := 100
			items := []*models.MarketplaceItem{
				{ID: "item-tree-voucher", Name: "Plant a Real Tree", Description: "We plant one tree on your behalf", PriceCoins: 200, Active: true},
				{ID: "item-avatar-frame", Name: "Leafy Avatar Frame", Description: "Show off your green streak", PriceCoins: 50, Active: true},
				{ID: "item-seed-kit", Name: "Balcony Seed Kit", Description: "Shipped to your door", PriceCoins: 350, Stock: &limited, Active: true},
				{ID: "item-transit-pass", Name: "One-Day Transit Pass", Description: "Ride the city for free", PriceCoins: 150, Stock: &limited, Active: true},
			}
			for _, item := range items {
				if err := datastore.InsertMarketplaceItem(ctx, db, item); err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Seed success")

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
