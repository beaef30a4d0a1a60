package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aqi-forecast-service/internal/core/domain"
	"aqi-forecast-service/internal/testutil"
)

func hourlyObservations(hours int) []domain.Observation {
	end := time.Now().UTC().Truncate(time.Hour)
	start := end.Add(-time.Duration(hours-1) * time.Hour)
	obs := make([]domain.Observation, hours)
	for i := range obs {
		ts := start.Add(time.Duration(i) * time.Hour)
		// A daily cycle around AQI 120 with a mild trend.
		aqi := 120 + 40*math.Sin(2*math.Pi*float64(ts.Hour())/24) + 0.01*float64(i)
		obs[i] = domain.Observation{Location: "rawalpindi", Time: ts, AQI: int(aqi)}
	}
	return obs
}

func testTrainingConfig() TrainingConfig {
	return TrainingConfig{
		ModelName:    "aqi-rawalpindi",
		HorizonHours: 24,
		HistoryDays:  30,
		MinHours:     120,
	}
}

func TestTrainingService_Run(t *testing.T) {
	obsRepo := new(testutil.MockObservationRepo)
	regRepo := new(testutil.MockModelRegistryRepo)
	svc := NewTrainingService(obsRepo, NewRegistryService(regRepo), testSite, testTrainingConfig())

	model := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	regRepo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(model, nil)
	obsRepo.On("GetRange", mock.Anything, "rawalpindi", mock.Anything, mock.Anything).
		Return(hourlyObservations(10*24), nil)

	var created, finalized domain.ModelVersion
	regRepo.On("GetModelByID", mock.Anything, model.ID).Return(model, nil)
	regRepo.On("CreateVersion", mock.Anything, mock.AnythingOfType("*domain.ModelVersion")).
		Run(func(args mock.Arguments) {
			created = *args.Get(1).(*domain.ModelVersion)
		}).Return(nil)
	regRepo.On("UpdateVersion", mock.Anything, mock.AnythingOfType("*domain.ModelVersion")).
		Run(func(args mock.Arguments) {
			finalized = *args.Get(1).(*domain.ModelVersion)
		}).Return(nil)

	// No champion yet, so the fresh version is promoted.
	regRepo.On("GetChampion", mock.Anything, model.ID).Return(nil, domain.ErrNoChampion)
	ready := &domain.ModelVersion{ID: uuid.New(), RegisteredModelID: model.ID, Status: domain.VersionStatusReady}
	regRepo.On("GetVersionByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(ready, nil)
	regRepo.On("SetChampion", mock.Anything, model.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)

	version, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, version)

	// Registered pending first, with a spec the registry can always store.
	assert.Equal(t, domain.VersionStatusPending, created.Status)
	assert.Equal(t, 24, created.HorizonHours)
	assert.NotEmpty(t, created.Spec)
	assert.Greater(t, created.TrainingRows, 0)

	assert.Equal(t, domain.VersionStatusReady, finalized.Status)
	assert.NotEmpty(t, finalized.Spec)
	assert.False(t, math.IsNaN(finalized.Metrics.RMSE))
	regRepo.AssertCalled(t, "SetChampion", mock.Anything, model.ID, mock.AnythingOfType("uuid.UUID"))
}

func TestTrainingService_Run_ChampionRetained(t *testing.T) {
	obsRepo := new(testutil.MockObservationRepo)
	regRepo := new(testutil.MockModelRegistryRepo)
	svc := NewTrainingService(obsRepo, NewRegistryService(regRepo), testSite, testTrainingConfig())

	model := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	regRepo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(model, nil)
	obsRepo.On("GetRange", mock.Anything, "rawalpindi", mock.Anything, mock.Anything).
		Return(hourlyObservations(10*24), nil)
	regRepo.On("GetModelByID", mock.Anything, model.ID).Return(model, nil)
	regRepo.On("CreateVersion", mock.Anything, mock.Anything).Return(nil)
	regRepo.On("UpdateVersion", mock.Anything, mock.Anything).Return(nil)

	// An unbeatable incumbent keeps the title.
	incumbent := &domain.ModelVersion{
		ID:      uuid.New(),
		Status:  domain.VersionStatusReady,
		Metrics: domain.EvalMetrics{RMSE: 0},
	}
	regRepo.On("GetChampion", mock.Anything, model.ID).Return(incumbent, nil)
	regRepo.On("GetVersionByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.ModelVersion{Status: domain.VersionStatusReady}, nil)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	regRepo.AssertNotCalled(t, "SetChampion", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrainingService_Run_RegistersFailedVersion(t *testing.T) {
	obsRepo := new(testutil.MockObservationRepo)
	regRepo := new(testutil.MockModelRegistryRepo)
	// A one-hour training split leaves nothing any candidate can fit.
	cfg := TrainingConfig{ModelName: "aqi-rawalpindi", HorizonHours: 24, HistoryDays: 30, MinHours: 25}
	svc := NewTrainingService(obsRepo, NewRegistryService(regRepo), testSite, cfg)

	model := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	regRepo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(model, nil)
	obsRepo.On("GetRange", mock.Anything, "rawalpindi", mock.Anything, mock.Anything).
		Return(hourlyObservations(25), nil)

	var created, finalized domain.ModelVersion
	regRepo.On("GetModelByID", mock.Anything, model.ID).Return(model, nil)
	regRepo.On("CreateVersion", mock.Anything, mock.AnythingOfType("*domain.ModelVersion")).
		Run(func(args mock.Arguments) {
			created = *args.Get(1).(*domain.ModelVersion)
		}).Return(nil)
	regRepo.On("UpdateVersion", mock.Anything, mock.AnythingOfType("*domain.ModelVersion")).
		Run(func(args mock.Arguments) {
			finalized = *args.Get(1).(*domain.ModelVersion)
		}).Return(nil)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrTrainingFailed)

	// The pending row and the FAILED outcome both carry a non-null spec.
	assert.Equal(t, domain.VersionStatusPending, created.Status)
	assert.NotEmpty(t, created.Spec)
	assert.Equal(t, domain.VersionStatusFailed, finalized.Status)
	assert.NotEmpty(t, finalized.Spec)
	assert.NotEmpty(t, finalized.FailureReason)
	regRepo.AssertNotCalled(t, "SetChampion", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrainingService_Run_InsufficientHistory(t *testing.T) {
	obsRepo := new(testutil.MockObservationRepo)
	regRepo := new(testutil.MockModelRegistryRepo)
	svc := NewTrainingService(obsRepo, NewRegistryService(regRepo), testSite, testTrainingConfig())

	model := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	regRepo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(model, nil)
	obsRepo.On("GetRange", mock.Anything, "rawalpindi", mock.Anything, mock.Anything).
		Return(hourlyObservations(48), nil)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrInsufficientHistory)
	regRepo.AssertNotCalled(t, "CreateVersion", mock.Anything, mock.Anything)
}

func TestTrainingService_Run_NoObservations(t *testing.T) {
	obsRepo := new(testutil.MockObservationRepo)
	regRepo := new(testutil.MockModelRegistryRepo)
	svc := NewTrainingService(obsRepo, NewRegistryService(regRepo), testSite, testTrainingConfig())

	model := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	regRepo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(model, nil)
	obsRepo.On("GetRange", mock.Anything, "rawalpindi", mock.Anything, mock.Anything).
		Return([]domain.Observation{}, nil)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrInsufficientHistory)
}
