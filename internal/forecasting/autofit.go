package forecasting

import (
	"errors"
	"math"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

// AutoARIMAConfig bounds the ARIMA order search.
type AutoARIMAConfig struct {
	MaxP int
	MaxD int
	MaxQ int
}

// DefaultAutoARIMAConfig keeps the search small enough for hourly retraining.
func DefaultAutoARIMAConfig() AutoARIMAConfig {
	return AutoARIMAConfig{MaxP: 3, MaxD: 1, MaxQ: 2}
}

// AutoARIMA fits ARIMA models over the order grid and returns the one with
// the lowest AICc. The white-noise order (0,0,0) is excluded.
func AutoARIMA(s *timeseries.Series, cfg AutoARIMAConfig) (*ARIMA, error) {
	if cfg.MaxP <= 0 && cfg.MaxQ <= 0 {
		return nil, errors.New("order search space is empty")
	}

	var best *ARIMA
	bestIC := math.Inf(1)
	for d := 0; d <= cfg.MaxD; d++ {
		for p := 0; p <= cfg.MaxP; p++ {
			for q := 0; q <= cfg.MaxQ; q++ {
				if p == 0 && q == 0 {
					continue
				}
				m := NewARIMA(p, d, q)
				if err := m.Fit(s); err != nil {
					continue
				}
				if ic := m.AICc(); ic < bestIC {
					best, bestIC = m, ic
				}
			}
		}
	}
	if best == nil {
		return nil, errors.New("no arima order could be fitted")
	}
	return best, nil
}
