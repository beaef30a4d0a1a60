package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aqi-forecast-service/internal/core/domain"
)

// ObservationRepository is the feature store: hourly observations keyed by
// (location, hour).
type ObservationRepository interface {
	// UpsertBatch inserts observations, replacing rows that already exist
	// for the same location and hour. Returns the number of rows written.
	UpsertBatch(ctx context.Context, obs []domain.Observation) (int, error)
	GetRange(ctx context.Context, location string, from, to time.Time) ([]domain.Observation, error)
	GetLatest(ctx context.Context, location string) (*domain.Observation, error)
	Count(ctx context.Context, location string) (int, error)
}

type VersionListFilter struct {
	Status string
	Limit  int
	Offset int
}

// ModelRegistryRepository stores registered models and their versions.
type ModelRegistryRepository interface {
	CreateModel(ctx context.Context, model *domain.RegisteredModel) error
	GetModelByID(ctx context.Context, id uuid.UUID) (*domain.RegisteredModel, error)
	GetModelByName(ctx context.Context, name string) (*domain.RegisteredModel, error)
	ListModels(ctx context.Context) ([]*domain.RegisteredModel, error)

	CreateVersion(ctx context.Context, version *domain.ModelVersion) error
	GetVersionByID(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error)
	ListVersions(ctx context.Context, modelID uuid.UUID, filter VersionListFilter) ([]*domain.ModelVersion, int, error)
	UpdateVersion(ctx context.Context, version *domain.ModelVersion) error

	// SetChampion marks the version as champion and clears the flag on every
	// other version of the same model, atomically.
	SetChampion(ctx context.Context, modelID uuid.UUID, versionID uuid.UUID) error
	GetChampion(ctx context.Context, modelID uuid.UUID) (*domain.ModelVersion, error)
}

// ForecastRepository stores forecast runs and their predictions.
type ForecastRepository interface {
	// CreateRun persists the run and all its predictions in one transaction.
	CreateRun(ctx context.Context, run *domain.ForecastRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*domain.ForecastRun, error)
	GetLatestRun(ctx context.Context, location string) (*domain.ForecastRun, error)
	ListRuns(ctx context.Context, location string, limit, offset int) ([]*domain.ForecastRun, int, error)
}
