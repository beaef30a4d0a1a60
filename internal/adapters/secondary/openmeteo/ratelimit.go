package openmeteo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

// RateLimitedClient wraps an AirQualityClient with a token-bucket limiter so
// backfills cannot hammer the upstream API.
type RateLimitedClient struct {
	client  ports.AirQualityClient
	limiter *rate.Limiter
}

var _ ports.AirQualityClient = (*RateLimitedClient)(nil)

// NewRateLimitedClient allows rps requests per second with the given burst.
// rps may be fractional for slower-than-one-per-second limits.
func NewRateLimitedClient(client ports.AirQualityClient, rps float64, burst int) *RateLimitedClient {
	return &RateLimitedClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedClient) Name() string {
	return r.client.Name() + " [rate limited]"
}

func (r *RateLimitedClient) FetchRecent(ctx context.Context, loc domain.Location, pastDays int) ([]domain.Observation, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.client.FetchRecent(ctx, loc, pastDays)
}

func (r *RateLimitedClient) FetchRange(ctx context.Context, loc domain.Location, from, to time.Time) ([]domain.Observation, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.client.FetchRange(ctx, loc, from, to)
}
