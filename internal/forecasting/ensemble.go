package forecasting

import (
	"errors"
	"fmt"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

type ensembleParams struct {
	Members []Spec `json:"members"`
}

// Ensemble averages the forecasts of its member models. Members that fail to
// fit are dropped; fitting fails only when no member survives.
type Ensemble struct {
	members []Forecaster
	active  []Forecaster
}

// NewEnsemble creates a mean ensemble over the given members.
func NewEnsemble(members ...Forecaster) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, errors.New("ensemble needs at least one member")
	}
	return &Ensemble{members: members}, nil
}

func (e *Ensemble) Name() string { return KindEnsemble }

func (e *Ensemble) Spec() Spec {
	specs := make([]Spec, len(e.members))
	for i, m := range e.members {
		specs[i] = m.Spec()
	}
	return specOf(KindEnsemble, ensembleParams{Members: specs})
}

func (e *Ensemble) Fit(s *timeseries.Series) error {
	e.active = e.active[:0]
	var lastErr error
	for _, m := range e.members {
		if err := m.Fit(s); err != nil {
			lastErr = fmt.Errorf("%s: %w", m.Name(), err)
			continue
		}
		e.active = append(e.active, m)
	}
	if len(e.active) == 0 {
		return fmt.Errorf("no ensemble member could be fitted: %w", lastErr)
	}
	return nil
}

func (e *Ensemble) Forecast(steps int) ([]float64, error) {
	if len(e.active) == 0 {
		return nil, errors.New("ensemble is not fitted")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	sum := make([]float64, steps)
	count := 0
	for _, m := range e.active {
		fc, err := m.Forecast(steps)
		if err != nil {
			continue
		}
		for i, v := range fc {
			sum[i] += v
		}
		count++
	}
	if count == 0 {
		return nil, errors.New("no ensemble member produced a forecast")
	}
	for i := range sum {
		sum[i] /= float64(count)
	}
	return sum, nil
}
