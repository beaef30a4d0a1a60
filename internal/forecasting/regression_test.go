package forecasting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

func TestRidge_TracksDailyCycle(t *testing.T) {
	// 14 days of a smooth daily cycle plus a level.
	values := make([]float64, 14*24)
	for i := range values {
		values[i] = 100 + 30*math.Sin(2*math.Pi*float64(i%24)/24)
	}
	s := timeseries.FromValues(testStart, values)

	f := NewRidge(DefaultRidgeParams())
	require.NoError(t, f.Fit(s))

	fc, err := f.Forecast(24)
	require.NoError(t, err)
	require.Len(t, fc, 24)

	// The cycle continues: forecast hour h should be close to the training
	// value for the same hour of day.
	for h := 0; h < 24; h++ {
		expected := 100 + 30*math.Sin(2*math.Pi*float64((len(values)+h)%24)/24)
		assert.InDelta(t, expected, fc[h], 10.0, "h=%d", h)
	}
}

func TestRidge_SeriesTooShort(t *testing.T) {
	s := timeseries.FromValues(testStart, make([]float64, 30))
	f := NewRidge(DefaultRidgeParams())
	assert.Error(t, f.Fit(s))
}

func TestRidge_NotFitted(t *testing.T) {
	_, err := NewRidge(DefaultRidgeParams()).Forecast(5)
	assert.Error(t, err)
}

func TestRidge_ZeroParamsGetDefaults(t *testing.T) {
	f := NewRidge(RidgeParams{})
	assert.Equal(t, DefaultRidgeParams().Lags, f.params.Lags)
	assert.Equal(t, 1.0, f.params.Lambda)
}

func TestSolveLinearSystem(t *testing.T) {
	// 2x + y = 5, x + 3y = 10 -> x = 1, y = 3
	a := [][]float64{{2, 1}, {1, 3}}
	b := []float64{5, 10}
	x, err := solveLinearSystem(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x[0], 1e-9)
	assert.InDelta(t, 3.0, x[1], 1e-9)
}

func TestSolveLinearSystem_Singular(t *testing.T) {
	a := [][]float64{{1, 2}, {2, 4}}
	b := []float64{1, 2}
	_, err := solveLinearSystem(a, b)
	assert.Error(t, err)
}
