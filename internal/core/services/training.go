package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
	"aqi-forecast-service/internal/forecasting"
	"aqi-forecast-service/internal/forecasting/stats"
	"aqi-forecast-service/internal/forecasting/timeseries"
)

// TrainingConfig tunes the training pipeline.
type TrainingConfig struct {
	ModelName    string
	HorizonHours int
	HistoryDays  int
	MinHours     int
}

// TrainingService fits every candidate forecaster on the stored AQI history,
// scores them on a held-out horizon, registers the winner and promotes it
// when it beats the current champion.
type TrainingService struct {
	obsRepo  ports.ObservationRepository
	registry *RegistryService
	location domain.Location
	cfg      TrainingConfig
}

func NewTrainingService(obsRepo ports.ObservationRepository, registry *RegistryService, location domain.Location, cfg TrainingConfig) *TrainingService {
	if cfg.HorizonHours <= 0 {
		cfg.HorizonHours = 74
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 90
	}
	if cfg.MinHours <= 0 {
		cfg.MinHours = 14 * 24
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "aqi-" + location.Name
	}
	return &TrainingService{obsRepo: obsRepo, registry: registry, location: location, cfg: cfg}
}

type candidateResult struct {
	spec    forecasting.Spec
	metrics domain.EvalMetrics
}

// Run executes one training round and returns the registered version.
func (s *TrainingService) Run(ctx context.Context) (*domain.ModelVersion, error) {
	model, err := s.registry.EnsureModel(ctx, s.cfg.ModelName,
		fmt.Sprintf("hourly US AQI forecaster for %s", s.location.Name),
		s.location.Name, "us_aqi")
	if err != nil {
		return nil, err
	}

	series, err := s.loadSeries(ctx)
	if err != nil {
		return nil, err
	}
	if series.Len() < s.cfg.MinHours {
		return nil, domain.ErrInsufficientHistory
	}

	train, holdout := series.Split(series.Len() - s.cfg.HorizonHours)
	if train.Len() < s.cfg.MinHours-s.cfg.HorizonHours || holdout.Len() < s.cfg.HorizonHours {
		return nil, domain.ErrInsufficientHistory
	}

	// Register the round up front so a failed run still leaves a FAILED row.
	version := s.newVersion(model, series)
	if err := s.registry.RegisterVersion(ctx, version); err != nil {
		return nil, err
	}

	best, err := s.selectCandidate(train, holdout.Values)
	if err != nil {
		return nil, s.failVersion(ctx, version, err)
	}

	// Validate the winning spec against the full history before finalizing.
	winner, err := forecasting.FromSpec(best.spec)
	if err != nil {
		return nil, s.failVersion(ctx, version, err)
	}
	if err := winner.Fit(series); err != nil {
		return nil, s.failVersion(ctx, version, fmt.Errorf("refit winner on full history: %w", err))
	}

	version.Status = domain.VersionStatusReady
	version.Spec = mustMarshalSpec(best.spec)
	version.Metrics = best.metrics
	if err := s.registry.FinalizeVersion(ctx, version); err != nil {
		return nil, err
	}

	s.maybePromote(ctx, model, version)

	log.WithFields(log.Fields{
		"model":   model.Name,
		"version": version.Name,
		"kind":    best.spec.Kind,
		"rmse":    best.metrics.RMSE,
		"mae":     best.metrics.MAE,
	}).Info("training round complete")
	return s.registry.GetVersion(ctx, version.ID)
}

func (s *TrainingService) loadSeries(ctx context.Context) (*timeseries.Series, error) {
	now := time.Now().UTC().Truncate(time.Hour)
	obs, err := s.obsRepo.GetRange(ctx, s.location.Name, now.AddDate(0, 0, -s.cfg.HistoryDays), now)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, domain.ErrInsufficientHistory
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

// selectCandidate evaluates every candidate on the holdout and returns the
// lowest-RMSE one.
func (s *TrainingService) selectCandidate(train *timeseries.Series, actual []float64) (*candidateResult, error) {
	arimaOrder := ARIMADefaultOrder
	if m, err := forecasting.AutoARIMA(train, forecasting.DefaultAutoARIMAConfig()); err == nil {
		arimaOrder = m.Order()
	} else {
		log.WithError(err).Warn("arima order search failed, using default order")
	}

	candidates := []forecasting.Forecaster{
		forecasting.NewSeasonalNaive(24),
		forecasting.NewDrift(),
		forecasting.NewRidge(forecasting.DefaultRidgeParams()),
		forecasting.NewARIMA(arimaOrder.P, arimaOrder.D, arimaOrder.Q),
	}
	if ens, err := forecasting.NewEnsemble(
		forecasting.NewSeasonalNaive(24),
		forecasting.NewRidge(forecasting.DefaultRidgeParams()),
		forecasting.NewARIMA(arimaOrder.P, arimaOrder.D, arimaOrder.Q),
	); err == nil {
		candidates = append(candidates, ens)
	}

	var best *candidateResult
	for _, c := range candidates {
		if err := c.Fit(train); err != nil {
			log.WithError(err).WithField("candidate", c.Name()).Warn("candidate fit failed")
			continue
		}
		fc, err := c.Forecast(len(actual))
		if err != nil {
			log.WithError(err).WithField("candidate", c.Name()).Warn("candidate forecast failed")
			continue
		}
		rmse := stats.RMSE(actual, fc)
		if math.IsNaN(rmse) || math.IsInf(rmse, 0) {
			continue
		}
		result := &candidateResult{
			spec: c.Spec(),
			metrics: domain.EvalMetrics{
				RMSE: rmse,
				MAE:  stats.MAE(actual, fc),
				MAPE: stats.MAPE(actual, fc),
				R2:   stats.R2(actual, fc),
			},
		}
		log.WithFields(log.Fields{
			"candidate": c.Name(),
			"rmse":      result.metrics.RMSE,
		}).Debug("candidate evaluated")
		if best == nil || result.metrics.RMSE < best.metrics.RMSE {
			best = result
		}
	}
	if best == nil {
		return nil, domain.ErrTrainingFailed
	}
	return best, nil
}

func (s *TrainingService) newVersion(model *domain.RegisteredModel, series *timeseries.Series) *domain.ModelVersion {
	now := time.Now().UTC()
	trainedFrom := series.Times[0]
	trainedTo, _ := series.Last()
	return &domain.ModelVersion{
		RegisteredModelID: model.ID,
		Name:              now.Format("20060102-150405"),
		Status:            domain.VersionStatusPending,
		Spec:              json.RawMessage(`{}`),
		HorizonHours:      s.cfg.HorizonHours,
		TrainedFrom:       trainedFrom,
		TrainedTo:         trainedTo,
		TrainingRows:      series.Len(),
	}
}

// failVersion marks the pending version FAILED with the training error and
// passes the error through.
func (s *TrainingService) failVersion(ctx context.Context, version *domain.ModelVersion, cause error) error {
	version.Status = domain.VersionStatusFailed
	version.FailureReason = cause.Error()
	if err := s.registry.FinalizeVersion(ctx, version); err != nil {
		log.WithError(err).Error("record failed version")
	}
	return cause
}

func (s *TrainingService) maybePromote(ctx context.Context, model *domain.RegisteredModel, version *domain.ModelVersion) {
	champion, err := s.registry.repo.GetChampion(ctx, model.ID)
	switch {
	case err == domain.ErrNoChampion:
		// First usable version takes the title.
	case err != nil:
		log.WithError(err).Error("resolve current champion")
		return
	case champion.Metrics.RMSE <= version.Metrics.RMSE:
		log.WithFields(log.Fields{
			"champion":      champion.Name,
			"champion_rmse": champion.Metrics.RMSE,
			"contender":     version.Name,
		}).Info("champion retained")
		return
	}
	if _, err := s.registry.Promote(ctx, version.ID); err != nil {
		log.WithError(err).Error("promote new champion")
		return
	}
	log.WithField("version", version.Name).Info("new champion promoted")
}

// ARIMADefaultOrder is the fallback when the order search cannot run.
var ARIMADefaultOrder = forecasting.ARIMAOrder{P: 2, D: 1, Q: 1}

func mustMarshalSpec(spec forecasting.Spec) json.RawMessage {
	raw, err := json.Marshal(spec)
	if err != nil {
		// A spec built by the forecasting package always marshals.
		return json.RawMessage(fmt.Sprintf(`{"kind":%q}`, spec.Kind))
	}
	return raw
}
