package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
	"aqi-forecast-service/internal/forecasting"
	"aqi-forecast-service/internal/forecasting/timeseries"
)

// InferenceService produces forecast runs: it rehydrates the champion
// version's forecaster, refits it on current history and persists the
// resulting horizon.
type InferenceService struct {
	obsRepo      ports.ObservationRepository
	forecastRepo ports.ForecastRepository
	registry     *RegistryService
	location     domain.Location
	modelName    string
	historyDays  int
}

func NewInferenceService(obsRepo ports.ObservationRepository, forecastRepo ports.ForecastRepository, registry *RegistryService, location domain.Location, modelName string, historyDays int) *InferenceService {
	if modelName == "" {
		modelName = "aqi-" + location.Name
	}
	if historyDays <= 0 {
		historyDays = 90
	}
	return &InferenceService{
		obsRepo:      obsRepo,
		forecastRepo: forecastRepo,
		registry:     registry,
		location:     location,
		modelName:    modelName,
		historyDays:  historyDays,
	}
}

// Run executes one inference round and returns the stored run with its
// predictions.
func (s *InferenceService) Run(ctx context.Context) (*domain.ForecastRun, error) {
	champion, err := s.registry.Champion(ctx, s.modelName)
	if err != nil {
		return nil, err
	}

	var spec forecasting.Spec
	if err := json.Unmarshal(champion.Spec, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSpec, err)
	}
	model, err := forecasting.FromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSpec, err)
	}

	series, err := s.loadSeries(ctx)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(series); err != nil {
		return nil, fmt.Errorf("fit champion on current history: %w", err)
	}

	horizon := champion.HorizonHours
	values, err := model.Forecast(horizon)
	if err != nil {
		return nil, err
	}

	lastTime, _ := series.Last()
	runID := uuid.New()
	run := &domain.ForecastRun{
		ID:             runID,
		RunAt:          time.Now().UTC(),
		Location:       s.location.Name,
		ModelVersionID: champion.ID,
		ModelName:      champion.Name,
		HorizonHours:   horizon,
		Predictions:    make([]domain.Prediction, horizon),
	}
	for h, v := range values {
		aqi := domain.ClampAQI(v)
		run.Predictions[h] = domain.Prediction{
			ID:         uuid.New(),
			RunID:      runID,
			TargetTime: lastTime.Add(time.Duration(h+1) * time.Hour),
			Value:      v,
			AQI:        aqi,
			Category:   domain.CategoryForAQI(aqi),
		}
	}

	if err := s.forecastRepo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"run_id":  run.ID,
		"model":   champion.Name,
		"horizon": horizon,
	}).Info("forecast run stored")
	return run, nil
}

func (s *InferenceService) loadSeries(ctx context.Context) (*timeseries.Series, error) {
	now := time.Now().UTC().Truncate(time.Hour)
	obs, err := s.obsRepo.GetRange(ctx, s.location.Name, now.AddDate(0, 0, -s.historyDays), now)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, domain.ErrNoObservations
	}
	times := make([]time.Time, len(obs))
	values := make([]float64, len(obs))
	for i, o := range obs {
		times[i] = o.Time
		values[i] = float64(o.AQI)
	}
	series, err := timeseries.New(times, values)
	if err != nil {
		return nil, err
	}
	return series.Regularize(), nil
}
