package ports

import (
	"context"
	"time"

	"aqi-forecast-service/internal/core/domain"
)

// AirQualityClient fetches hourly pollutant concentrations and weather
// covariates for a location. Observations come back sorted by time with AQI
// unset; the feature service derives it.
type AirQualityClient interface {
	Name() string

	// FetchRecent returns hourly observations covering the last pastDays
	// days up to the current hour.
	FetchRecent(ctx context.Context, loc domain.Location, pastDays int) ([]domain.Observation, error)

	// FetchRange returns hourly observations between from and to inclusive.
	FetchRange(ctx context.Context, loc domain.Location, from, to time.Time) ([]domain.Observation, error)
}
