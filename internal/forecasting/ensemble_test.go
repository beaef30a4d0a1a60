package forecasting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

func TestEnsemble_AveragesMembers(t *testing.T) {
	// Two drift models fitted on the same series forecast identically, so the
	// mean equals the member forecast.
	s := timeseries.FromValues(testStart, []float64{0, 1, 2, 3, 4, 5})
	e, err := NewEnsemble(NewDrift(), NewDrift())
	require.NoError(t, err)
	require.NoError(t, e.Fit(s))

	fc, err := e.Forecast(2)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, fc[0], 1e-9)
	assert.InDelta(t, 7.0, fc[1], 1e-9)
}

func TestEnsemble_DropsFailedMembers(t *testing.T) {
	// The seasonal member cannot fit on 6 points; the drift member carries
	// the ensemble alone.
	s := timeseries.FromValues(testStart, []float64{0, 1, 2, 3, 4, 5})
	e, err := NewEnsemble(NewSeasonalNaive(24), NewDrift())
	require.NoError(t, err)
	require.NoError(t, e.Fit(s))

	fc, err := e.Forecast(1)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, fc[0], 1e-9)
}

func TestEnsemble_AllMembersFail(t *testing.T) {
	s := timeseries.FromValues(testStart, []float64{1, 2, 3})
	e, err := NewEnsemble(NewSeasonalNaive(24))
	require.NoError(t, err)
	assert.Error(t, e.Fit(s))
}

func TestEnsemble_NoMembers(t *testing.T) {
	_, err := NewEnsemble()
	assert.Error(t, err)
}
