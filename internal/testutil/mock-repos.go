package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

// MockObservationRepo is a mock of ObservationRepository.
type MockObservationRepo struct {
	mock.Mock
}

func (m *MockObservationRepo) UpsertBatch(ctx context.Context, obs []domain.Observation) (int, error) {
	args := m.Called(ctx, obs)
	return args.Int(0), args.Error(1)
}

func (m *MockObservationRepo) GetRange(ctx context.Context, location string, from, to time.Time) ([]domain.Observation, error) {
	args := m.Called(ctx, location, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Observation), args.Error(1)
}

func (m *MockObservationRepo) GetLatest(ctx context.Context, location string) (*domain.Observation, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Observation), args.Error(1)
}

func (m *MockObservationRepo) Count(ctx context.Context, location string) (int, error) {
	args := m.Called(ctx, location)
	return args.Int(0), args.Error(1)
}

// MockModelRegistryRepo is a mock of ModelRegistryRepository.
type MockModelRegistryRepo struct {
	mock.Mock
}

func (m *MockModelRegistryRepo) CreateModel(ctx context.Context, model *domain.RegisteredModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockModelRegistryRepo) GetModelByID(ctx context.Context, id uuid.UUID) (*domain.RegisteredModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisteredModel), args.Error(1)
}

func (m *MockModelRegistryRepo) GetModelByName(ctx context.Context, name string) (*domain.RegisteredModel, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisteredModel), args.Error(1)
}

func (m *MockModelRegistryRepo) ListModels(ctx context.Context) ([]*domain.RegisteredModel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RegisteredModel), args.Error(1)
}

func (m *MockModelRegistryRepo) CreateVersion(ctx context.Context, version *domain.ModelVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockModelRegistryRepo) GetVersionByID(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Error(1)
}

func (m *MockModelRegistryRepo) ListVersions(ctx context.Context, modelID uuid.UUID, filter ports.VersionListFilter) ([]*domain.ModelVersion, int, error) {
	args := m.Called(ctx, modelID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ModelVersion), args.Int(1), args.Error(2)
}

func (m *MockModelRegistryRepo) UpdateVersion(ctx context.Context, version *domain.ModelVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockModelRegistryRepo) SetChampion(ctx context.Context, modelID uuid.UUID, versionID uuid.UUID) error {
	args := m.Called(ctx, modelID, versionID)
	return args.Error(0)
}

func (m *MockModelRegistryRepo) GetChampion(ctx context.Context, modelID uuid.UUID) (*domain.ModelVersion, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Error(1)
}

// MockForecastRepo is a mock of ForecastRepository.
type MockForecastRepo struct {
	mock.Mock
}

func (m *MockForecastRepo) CreateRun(ctx context.Context, run *domain.ForecastRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockForecastRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.ForecastRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ForecastRun), args.Error(1)
}

func (m *MockForecastRepo) GetLatestRun(ctx context.Context, location string) (*domain.ForecastRun, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ForecastRun), args.Error(1)
}

func (m *MockForecastRepo) ListRuns(ctx context.Context, location string, limit, offset int) ([]*domain.ForecastRun, int, error) {
	args := m.Called(ctx, location, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ForecastRun), args.Int(1), args.Error(2)
}

// MockAirQualityClient is a mock of AirQualityClient.
type MockAirQualityClient struct {
	mock.Mock
}

func (m *MockAirQualityClient) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAirQualityClient) FetchRecent(ctx context.Context, loc domain.Location, pastDays int) ([]domain.Observation, error) {
	args := m.Called(ctx, loc, pastDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Observation), args.Error(1)
}

func (m *MockAirQualityClient) FetchRange(ctx context.Context, loc domain.Location, from, to time.Time) ([]domain.Observation, error) {
	args := m.Called(ctx, loc, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Observation), args.Error(1)
}
