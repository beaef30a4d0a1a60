// Package memory provides in-memory decorators over the persistent stores.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

// CachedForecastRepository caches the latest run per location with a TTL.
// Writing a new run through it drops the cached entry, so readers never see
// a stale horizon after inference completes.
type CachedForecastRepository struct {
	repo ports.ForecastRepository
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	run      *domain.ForecastRun
	storedAt time.Time
}

var _ ports.ForecastRepository = (*CachedForecastRepository)(nil)

// NewCachedForecastRepository wraps repo with a latest-run cache.
func NewCachedForecastRepository(repo ports.ForecastRepository, ttl time.Duration) *CachedForecastRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedForecastRepository{
		repo:    repo,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedForecastRepository) CreateRun(ctx context.Context, run *domain.ForecastRun) error {
	if err := c.repo.CreateRun(ctx, run); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.entries, run.Location)
	c.mu.Unlock()
	return nil
}

func (c *CachedForecastRepository) GetLatestRun(ctx context.Context, location string) (*domain.ForecastRun, error) {
	c.mu.RLock()
	entry, ok := c.entries[location]
	c.mu.RUnlock()
	if ok && time.Since(entry.storedAt) < c.ttl {
		return copyRun(entry.run), nil
	}

	run, err := c.repo.GetLatestRun(ctx, location)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[location] = cacheEntry{run: copyRun(run), storedAt: time.Now()}
	c.mu.Unlock()
	return run, nil
}

func (c *CachedForecastRepository) GetRun(ctx context.Context, id uuid.UUID) (*domain.ForecastRun, error) {
	return c.repo.GetRun(ctx, id)
}

func (c *CachedForecastRepository) ListRuns(ctx context.Context, location string, limit, offset int) ([]*domain.ForecastRun, int, error) {
	return c.repo.ListRuns(ctx, location, limit, offset)
}

// copyRun clones the run so callers that filter predictions in place cannot
// mutate the cached copy.
func copyRun(run *domain.ForecastRun) *domain.ForecastRun {
	clone := *run
	clone.Predictions = make([]domain.Prediction, len(run.Predictions))
	copy(clone.Predictions, run.Predictions)
	return &clone
}
