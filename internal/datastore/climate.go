package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"resilience/internal/models"
)

func CreateTableCityIndicator(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.CityIndicator)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.CityIndicator)(nil)).Index("index_city_indicator_city").IfNotExists().Unique().Column("city").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func UpsertCityIndicator(ctx context.Context, db *bun.DB, indicator *models.CityIndicator) error {
	_, err := db.NewInsert().Model(indicator).
		On("conflict (city) DO UPDATE").
		Set("temperature_c = EXCLUDED.temperature_c").
		Set("air_quality = EXCLUDED.air_quality").
		Set("risk_index = EXCLUDED.risk_index").
		Set("fetched_at = EXCLUDED.fetched_at").
		Exec(ctx)
	return err
}

func ListCityIndicators(ctx context.Context, db *bun.DB) ([]*models.CityIndicator, error) {
	var indicators []*models.CityIndicator
	err := db.NewSelect().Model(&indicators).Order("city ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return indicators, nil
}
