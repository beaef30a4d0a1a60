package forecasting

import (
	"errors"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

// SeasonalNaiveParams configures the seasonal naive baseline.
type SeasonalNaiveParams struct {
	Period int `json:"period"`
}

// SeasonalNaive repeats the last observed seasonal cycle. With period 24 it
// forecasts each hour with yesterday's value for that hour.
type SeasonalNaive struct {
	period int
	season []float64
}

// NewSeasonalNaive creates a seasonal naive forecaster with the given period.
func NewSeasonalNaive(period int) *SeasonalNaive {
	if period <= 0 {
		period = 24
	}
	return &SeasonalNaive{period: period}
}

func (f *SeasonalNaive) Name() string { return KindSeasonalNaive }

func (f *SeasonalNaive) Spec() Spec {
	return specOf(KindSeasonalNaive, SeasonalNaiveParams{Period: f.period})
}

func (f *SeasonalNaive) Fit(s *timeseries.Series) error {
	if s.Len() < f.period {
		return errors.New("series shorter than one seasonal period")
	}
	f.season = make([]float64, f.period)
	copy(f.season, s.Values[s.Len()-f.period:])
	return nil
}

func (f *SeasonalNaive) Forecast(steps int) ([]float64, error) {
	if f.season == nil {
		return nil, errors.New("seasonal naive model is not fitted")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}
	out := make([]float64, steps)
	for h := 0; h < steps; h++ {
		out[h] = f.season[h%f.period]
	}
	return out, nil
}

// Drift extrapolates the average historical slope from the last observation,
// the random-walk-with-drift baseline.
type Drift struct {
	fitted bool
	last   float64
	slope  float64
}

// NewDrift creates a drift forecaster.
func NewDrift() *Drift { return &Drift{} }

func (f *Drift) Name() string { return KindDrift }

func (f *Drift) Spec() Spec { return Spec{Kind: KindDrift} }

func (f *Drift) Fit(s *timeseries.Series) error {
	if s.Len() < 2 {
		return errors.New("drift needs at least two points")
	}
	first := s.Values[0]
	_, last := s.Last()
	f.last = last
	f.slope = (last - first) / float64(s.Len()-1)
	f.fitted = true
	return nil
}

func (f *Drift) Forecast(steps int) ([]float64, error) {
	if !f.fitted {
		return nil, errors.New("drift model is not fitted")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}
	out := make([]float64, steps)
	for h := 0; h < steps; h++ {
		out[h] = f.last + f.slope*float64(h+1)
	}
	return out, nil
}
