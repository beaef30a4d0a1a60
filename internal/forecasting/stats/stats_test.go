package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

func TestRMSE(t *testing.T) {
	assert.InDelta(t, 0.0, RMSE([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 2.0, RMSE([]float64{0, 0}, []float64{2, -2}), 1e-9)
	assert.True(t, math.IsNaN(RMSE(nil, nil)))
	assert.True(t, math.IsNaN(RMSE([]float64{1}, []float64{1, 2})))
}

func TestMAE(t *testing.T) {
	assert.InDelta(t, 1.5, MAE([]float64{1, 2}, []float64{2, 4}), 1e-9)
}

func TestMAPE_SkipsZeroActuals(t *testing.T) {
	// The zero actual is dropped; the remaining point is 50% off.
	got := MAPE([]float64{0, 100}, []float64{5, 50})
	assert.InDelta(t, 50.0, got, 1e-9)

	assert.True(t, math.IsNaN(MAPE([]float64{0, 0}, []float64{1, 2})))
}

func TestR2(t *testing.T) {
	actual := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, R2(actual, actual), 1e-9)

	// Predicting the mean scores zero.
	assert.InDelta(t, 0.0, R2(actual, []float64{2.5, 2.5, 2.5, 2.5}), 1e-9)

	// Constant actuals have no variance to explain.
	assert.True(t, math.IsNaN(R2([]float64{2, 2}, []float64{1, 3})))
}

func TestACF(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Alternating series: perfect negative lag-1 autocorrelation.
	s := timeseries.FromValues(t0, []float64{1, -1, 1, -1, 1, -1, 1, -1})
	acf := ACF(s, 2)
	require.Len(t, acf, 3)
	assert.InDelta(t, 1.0, acf[0], 1e-9)
	assert.Less(t, acf[1], -0.8)
	assert.Greater(t, acf[2], 0.6)
}

func TestACF_ConstantSeries(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := timeseries.FromValues(t0, []float64{5, 5, 5, 5})
	assert.Nil(t, ACF(s, 2))
}
