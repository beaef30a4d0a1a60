package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

// ForecastService is the read side of the forecast store: latest horizon,
// current AQI and run history.
type ForecastService struct {
	repo     ports.ForecastRepository
	location domain.Location
}

func NewForecastService(repo ports.ForecastRepository, location domain.Location) *ForecastService {
	return &ForecastService{repo: repo, location: location}
}

// Latest returns the most recent run. When from/to are non-zero the
// predictions are filtered to that window; an inverted window is swapped
// rather than rejected, matching the dashboard behavior.
func (s *ForecastService) Latest(ctx context.Context, from, to time.Time) (*domain.ForecastRun, error) {
	run, err := s.repo.GetLatestRun(ctx, s.location.Name)
	if err != nil {
		return nil, err
	}
	if from.IsZero() && to.IsZero() {
		return run, nil
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		from, to = to, from
	}

	filtered := make([]domain.Prediction, 0, len(run.Predictions))
	for _, p := range run.Predictions {
		if !from.IsZero() && p.TargetTime.Before(from) {
			continue
		}
		if !to.IsZero() && p.TargetTime.After(to) {
			continue
		}
		filtered = append(filtered, p)
	}
	run.Predictions = filtered
	return run, nil
}

// Current returns the prediction from the latest run closest to now.
func (s *ForecastService) Current(ctx context.Context) (*domain.Prediction, *domain.ForecastRun, error) {
	run, err := s.repo.GetLatestRun(ctx, s.location.Name)
	if err != nil {
		return nil, nil, err
	}
	p, ok := run.NearestPrediction(time.Now().UTC())
	if !ok {
		return nil, nil, domain.ErrNoForecast
	}
	return &p, run, nil
}

// Run returns a single run with its predictions.
func (s *ForecastService) Run(ctx context.Context, id uuid.UUID) (*domain.ForecastRun, error) {
	return s.repo.GetRun(ctx, id)
}

// ListRuns pages through run history, newest first, without predictions.
func (s *ForecastService) ListRuns(ctx context.Context, limit, offset int) ([]*domain.ForecastRun, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.ListRuns(ctx, s.location.Name, limit, offset)
}
