package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CityIndicator is one dashboard data point for a city, refreshed
// periodically from the upstream climate API.
type CityIndicator struct {
	bun.BaseModel `bun:"table:city_indicator"`
	ID            string    `bun:"id,pk" json:"id"`
	City          string    `bun:"city,notnull" json:"city"`
	Country       string    `bun:"country" json:"country"`
	TemperatureC  float64   `bun:"temperature_c" json:"temperature_c"`
	AirQuality    int       `bun:"air_quality" json:"air_quality"`
	RiskIndex     float64   `bun:"risk_index" json:"risk_index"`
	FetchedAt     time.Time `bun:"fetched_at" json:"fetched_at"`
}
