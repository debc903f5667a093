package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"resilience/internal/datastore"
	"resilience/internal/models"
	"resilience/internal/pkg/caching"
)

type trackedCity struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
}

// Cities shown on the dashboard. The weather API is keyed by
// coordinates, not names, so both travel together.
var trackedCities = []trackedCity{
	{"Jakarta", "Indonesia", -6.2088, 106.8456},
	{"Rotterdam", "Netherlands", 51.9244, 4.4777},
	{"Miami", "United States", 25.7617, -80.1918},
	{"Dhaka", "Bangladesh", 23.8103, 90.4125},
	{"Lagos", "Nigeria", 6.5244, 3.3792},
	{"Singapore", "Singapore", 1.3521, 103.8198},
}

type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
	} `json:"current"`
}

type openMeteoAirResponse struct {
	Current struct {
		EuropeanAQI float64 `json:"european_aqi"`
	} `json:"current"`
}

// ServiceClimate keeps per-city climate indicators warm from the
// open-meteo APIs. Fetches run on a schedule, reads come from the
// database through a short cache.
type ServiceClimate struct {
	*ServiceHTTP
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache

	weatherBaseURL    string
	airQualityBaseURL string
}

func NewServiceClimate(container *do.Injector) (*ServiceClimate, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceClimate{
		NewServiceHTTP(),
		container,
		postgresDB,
		cache,
		"https://api.open-meteo.com/v1/forecast",
		"https://air-quality-api.open-meteo.com/v1/air-quality",
	}, nil
}

func (service *ServiceClimate) ListIndicators(ctx context.Context) ([]*models.CityIndicator, error) {
	indicators, err := caching.UseCache(ctx, service.cache, DBKeyCityIndicators(), CACHE_TTL_5_MINS, func() ([]*models.CityIndicator, error) {
		return datastore.ListCityIndicators(ctx, service.postgresDB)
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return indicators, nil
}

// RefreshAll pulls fresh indicators for every tracked city. One bad
// city does not stop the rest.
func (service *ServiceClimate) RefreshAll(ctx context.Context) error {
	var lastErr error
	for _, city := range trackedCities {
		if err := service.refreshCity(ctx, city); err != nil {
			log.Printf("climate: refresh %s failed: %v\n", city.Name, err)
			lastErr = err
		}
	}

	if err := service.cache.Delete(ctx, DBKeyCityIndicators()); err != nil {
		log.Printf("climate: cache invalidation failed: %v\n", err)
	}

	return lastErr
}

func (service *ServiceClimate) refreshCity(ctx context.Context, city trackedCity) error {
	weatherURL := fmt.Sprintf("%s?latitude=%f&longitude=%f&current=temperature_2m", service.weatherBaseURL, city.Latitude, city.Longitude)
	var weather openMeteoResponse
	if err := service.GetJSON(ctx, weatherURL, &weather); err != nil {
		return err
	}

	airURL := fmt.Sprintf("%s?latitude=%f&longitude=%f&current=european_aqi", service.airQualityBaseURL, city.Latitude, city.Longitude)
	var air openMeteoAirResponse
	if err := service.GetJSON(ctx, airURL, &air); err != nil {
		return err
	}

	indicator := &models.CityIndicator{
		ID:           uuid.NewString(),
		City:         city.Name,
		Country:      city.Country,
		TemperatureC: weather.Current.Temperature,
		AirQuality:   int(air.Current.EuropeanAQI),
		RiskIndex:    riskIndex(weather.Current.Temperature, air.Current.EuropeanAQI),
		FetchedAt:    time.Now(),
	}

	return datastore.UpsertCityIndicator(ctx, service.postgresDB, indicator)
}

// riskIndex folds temperature stress and air quality into a 0-100
// score. Heat above 25C and AQI both push the index up.
func riskIndex(temperatureC, aqi float64) float64 {
	heat := (temperatureC - 25) * 4
	if heat < 0 {
		heat = 0
	}
	if heat > 50 {
		heat = 50
	}

	pollution := aqi / 2
	if pollution > 50 {
		pollution = 50
	}

	return heat + pollution
}
