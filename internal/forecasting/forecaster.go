// Package forecasting implements the candidate models the training pipeline
// fits and the inference pipeline rehydrates: naive baselines, ridge
// regression on lagged values, ARIMA, and a mean ensemble.
package forecasting

import (
	"encoding/json"
	"fmt"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

// Forecaster kinds as stored in a model version spec.
const (
	KindSeasonalNaive = "seasonal_naive"
	KindDrift         = "drift"
	KindRidge         = "ridge_regression"
	KindARIMA         = "arima"
	KindEnsemble      = "ensemble"
)

// Forecaster is a univariate model over a regular hourly series.
type Forecaster interface {
	Name() string
	Fit(s *timeseries.Series) error
	Forecast(steps int) ([]float64, error)
	Spec() Spec
}

// Spec is the persistable description of a forecaster: its kind plus the
// hyperparameters needed to reconstruct it. Fitted state is not stored;
// inference refits on current history.
type Spec struct {
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params,omitempty"`
}

func specOf(kind string, params any) Spec {
	raw, err := json.Marshal(params)
	if err != nil {
		return Spec{Kind: kind}
	}
	return Spec{Kind: kind, Params: raw}
}

// FromSpec reconstructs an unfitted forecaster from a stored spec.
func FromSpec(spec Spec) (Forecaster, error) {
	switch spec.Kind {
	case KindSeasonalNaive:
		var p SeasonalNaiveParams
		if len(spec.Params) > 0 {
			if err := json.Unmarshal(spec.Params, &p); err != nil {
				return nil, fmt.Errorf("decode %s params: %w", spec.Kind, err)
			}
		}
		if p.Period <= 0 {
			p.Period = 24
		}
		return NewSeasonalNaive(p.Period), nil

	case KindDrift:
		return NewDrift(), nil

	case KindRidge:
		var p RidgeParams
		if len(spec.Params) > 0 {
			if err := json.Unmarshal(spec.Params, &p); err != nil {
				return nil, fmt.Errorf("decode %s params: %w", spec.Kind, err)
			}
		}
		return NewRidge(p), nil

	case KindARIMA:
		var p ARIMAOrder
		if len(spec.Params) > 0 {
			if err := json.Unmarshal(spec.Params, &p); err != nil {
				return nil, fmt.Errorf("decode %s params: %w", spec.Kind, err)
			}
		}
		return NewARIMA(p.P, p.D, p.Q), nil

	case KindEnsemble:
		var p ensembleParams
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", spec.Kind, err)
		}
		members := make([]Forecaster, 0, len(p.Members))
		for _, ms := range p.Members {
			m, err := FromSpec(ms)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return NewEnsemble(members...)

	default:
		return nil, fmt.Errorf("unknown forecaster kind %q", spec.Kind)
	}
}
