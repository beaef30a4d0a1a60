// Package stats holds the statistical helpers shared by the forecasting
// models: autocorrelation, differencing and forecast accuracy metrics.
package stats

import "aqi-forecast-service/internal/forecasting/timeseries"

// ACF returns the autocorrelation function of the series for lags 0..maxLag.
// Returns nil for a constant or empty series.
func ACF(s *timeseries.Series, maxLag int) []float64 {
	n := s.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := s.Mean()
	variance := 0.0
	for _, v := range s.Values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (s.Values[i] - mean) * (s.Values[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}
