package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

// FeatureService owns the observation history: ingestion from the upstream
// provider, backfill, and read access for the API and the pipelines.
type FeatureService struct {
	repo     ports.ObservationRepository
	client   ports.AirQualityClient
	location domain.Location
}

func NewFeatureService(repo ports.ObservationRepository, client ports.AirQualityClient, location domain.Location) *FeatureService {
	return &FeatureService{repo: repo, client: client, location: location}
}

// Location returns the configured monitoring site.
func (s *FeatureService) Location() domain.Location {
	return s.location
}

// IngestRecent pulls the provider's recent window and upserts it. Hours
// already stored are overwritten, so reanalyzed provider data wins.
func (s *FeatureService) IngestRecent(ctx context.Context, pastDays int) (int, error) {
	if pastDays <= 0 {
		pastDays = 2
	}
	obs, err := s.client.FetchRecent(ctx, s.location, pastDays)
	if err != nil {
		return 0, err
	}
	return s.store(ctx, obs)
}

// Backfill loads pastDays days of history from the provider archive.
func (s *FeatureService) Backfill(ctx context.Context, pastDays int) (int, error) {
	if pastDays <= 0 {
		return 0, domain.ErrInvalidRange
	}
	now := time.Now().UTC().Truncate(time.Hour)
	from := now.AddDate(0, 0, -pastDays)
	obs, err := s.client.FetchRange(ctx, s.location, from, now)
	if err != nil {
		return 0, err
	}
	return s.store(ctx, obs)
}

func (s *FeatureService) store(ctx context.Context, obs []domain.Observation) (int, error) {
	for i := range obs {
		obs[i].Location = s.location.Name
		obs[i].Time = obs[i].Time.UTC().Truncate(time.Hour)
		obs[i].AQI = domain.ComputeAQI(obs[i].Pollutants)
	}
	n, err := s.repo.UpsertBatch(ctx, obs)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"location": s.location.Name,
		"rows":     n,
	}).Info("observations stored")
	return n, nil
}

// Range returns stored observations between from and to inclusive.
func (s *FeatureService) Range(ctx context.Context, from, to time.Time) ([]domain.Observation, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, domain.ErrInvalidRange
	}
	return s.repo.GetRange(ctx, s.location.Name, from, to)
}

// Latest returns the most recent stored observation.
func (s *FeatureService) Latest(ctx context.Context) (*domain.Observation, error) {
	return s.repo.GetLatest(ctx, s.location.Name)
}

// Coverage reports how complete the stored hourly history is, with gaps.
func (s *FeatureService) Coverage(ctx context.Context, from, to time.Time) (*domain.Coverage, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, domain.ErrInvalidRange
	}
	obs, err := s.repo.GetRange(ctx, s.location.Name, from, to)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, domain.ErrNoObservations
	}
	total, err := s.repo.Count(ctx, s.location.Name)
	if err != nil {
		return nil, err
	}

	from = from.UTC().Truncate(time.Hour)
	to = to.UTC().Truncate(time.Hour)
	cov := &domain.Coverage{
		Location:  s.location.Name,
		From:      from,
		To:        to,
		Expected:  int(to.Sub(from)/time.Hour) + 1,
		Stored:    len(obs),
		TotalRows: total,
	}

	stored := make(map[time.Time]bool, len(obs))
	for _, o := range obs {
		stored[o.Time] = true
	}

	var gapStart time.Time
	inGap := false
	for h := from; !h.After(to); h = h.Add(time.Hour) {
		if !stored[h] && !inGap {
			gapStart, inGap = h, true
		}
		if stored[h] && inGap {
			cov.Gaps = append(cov.Gaps, domain.CoverageGap{
				From:  gapStart,
				To:    h.Add(-time.Hour),
				Hours: int(h.Sub(gapStart) / time.Hour),
			})
			inGap = false
		}
	}
	if inGap {
		cov.Gaps = append(cov.Gaps, domain.CoverageGap{
			From:  gapStart,
			To:    to,
			Hours: int(to.Sub(gapStart)/time.Hour) + 1,
		})
	}
	return cov, nil
}
