package forecasting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

var testStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func dailyPattern(days int) *timeseries.Series {
	values := make([]float64, days*24)
	for i := range values {
		values[i] = float64(50 + 10*(i%24))
	}
	return timeseries.FromValues(testStart, values)
}

func TestSeasonalNaive_RepeatsLastCycle(t *testing.T) {
	s := dailyPattern(3)
	f := NewSeasonalNaive(24)
	require.NoError(t, f.Fit(s))

	fc, err := f.Forecast(48)
	require.NoError(t, err)
	require.Len(t, fc, 48)

	// Each forecast hour equals the same hour of the last observed day.
	last24 := s.Values[len(s.Values)-24:]
	for h := 0; h < 48; h++ {
		assert.Equal(t, last24[h%24], fc[h], "h=%d", h)
	}
}

func TestSeasonalNaive_SeriesTooShort(t *testing.T) {
	s := timeseries.FromValues(testStart, []float64{1, 2, 3})
	f := NewSeasonalNaive(24)
	assert.Error(t, f.Fit(s))
}

func TestSeasonalNaive_NotFitted(t *testing.T) {
	_, err := NewSeasonalNaive(24).Forecast(5)
	assert.Error(t, err)
}

func TestDrift_ExtrapolatesSlope(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i)
	}
	f := NewDrift()
	require.NoError(t, f.Fit(timeseries.FromValues(testStart, values)))

	fc, err := f.Forecast(3)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, fc[0], 1e-9)
	assert.InDelta(t, 11.0, fc[1], 1e-9)
	assert.InDelta(t, 12.0, fc[2], 1e-9)
}

func TestDrift_FlatSeries(t *testing.T) {
	f := NewDrift()
	require.NoError(t, f.Fit(timeseries.FromValues(testStart, []float64{7, 7, 7, 7})))

	fc, err := f.Forecast(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 7}, fc)
}

func TestDrift_NeedsTwoPoints(t *testing.T) {
	f := NewDrift()
	assert.Error(t, f.Fit(timeseries.FromValues(testStart, []float64{1})))
}
