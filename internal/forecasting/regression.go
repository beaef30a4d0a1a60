package forecasting

import (
	"errors"
	"math"
	"time"

	"aqi-forecast-service/internal/forecasting/timeseries"
)

// RidgeParams configures the lagged ridge regression.
type RidgeParams struct {
	Lags      []int   `json:"lags"`      // autoregressive lags in hours
	Harmonics int     `json:"harmonics"` // daily sin/cos pairs
	Lambda    float64 `json:"lambda"`    // L2 penalty (intercept excluded)
}

// DefaultRidgeParams covers short-term persistence plus the daily cycle.
func DefaultRidgeParams() RidgeParams {
	return RidgeParams{
		Lags:      []int{1, 2, 3, 24, 48},
		Harmonics: 2,
		Lambda:    1.0,
	}
}

// Ridge is a linear autoregression on lagged values and hour-of-day
// harmonics, fitted by regularized normal equations. Multi-step forecasts
// are produced recursively, feeding predictions back in as lags.
type Ridge struct {
	params RidgeParams
	coefs  []float64 // [intercept, lags..., sin/cos pairs...]
	tail   []float64 // last maxLag values of the training series
	hour0  int       // hour of day of the first forecast step
	fitted bool
}

// NewRidge creates a ridge regression forecaster. Zero-value params are
// replaced by defaults.
func NewRidge(params RidgeParams) *Ridge {
	if len(params.Lags) == 0 {
		params = DefaultRidgeParams()
	}
	if params.Lambda <= 0 {
		params.Lambda = 1.0
	}
	return &Ridge{params: params}
}

func (f *Ridge) Name() string { return KindRidge }

func (f *Ridge) Spec() Spec { return specOf(KindRidge, f.params) }

func (f *Ridge) maxLag() int {
	m := 0
	for _, l := range f.params.Lags {
		if l > m {
			m = l
		}
	}
	return m
}

func (f *Ridge) featureCount() int {
	return 1 + len(f.params.Lags) + 2*f.params.Harmonics
}

// features builds the regressor row for a target at the given hour of day,
// reading lagged values from history (most recent value last).
func (f *Ridge) features(history []float64, hourOfDay int) []float64 {
	row := make([]float64, 0, f.featureCount())
	row = append(row, 1.0)
	n := len(history)
	for _, lag := range f.params.Lags {
		row = append(row, history[n-lag])
	}
	for k := 1; k <= f.params.Harmonics; k++ {
		angle := 2 * math.Pi * float64(k) * float64(hourOfDay) / 24
		row = append(row, math.Sin(angle), math.Cos(angle))
	}
	return row
}

func (f *Ridge) Fit(s *timeseries.Series) error {
	maxLag := f.maxLag()
	n := s.Len()
	if n < maxLag+f.featureCount()+1 {
		return errors.New("series too short for the configured lags")
	}

	dim := f.featureCount()
	// Accumulate X'X and X'y directly; the design matrix is never held.
	xtx := make([][]float64, dim)
	for i := range xtx {
		xtx[i] = make([]float64, dim)
	}
	xty := make([]float64, dim)

	for t := maxLag; t < n; t++ {
		row := f.features(s.Values[:t], s.Times[t].UTC().Hour())
		y := s.Values[t]
		for i := 0; i < dim; i++ {
			xty[i] += row[i] * y
			for j := 0; j < dim; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}

	// Ridge penalty on everything but the intercept.
	for i := 1; i < dim; i++ {
		xtx[i][i] += f.params.Lambda
	}

	coefs, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return err
	}
	f.coefs = coefs

	f.tail = make([]float64, maxLag)
	copy(f.tail, s.Values[n-maxLag:])
	lastTime, _ := s.Last()
	f.hour0 = lastTime.UTC().Add(time.Hour).Hour()
	f.fitted = true
	return nil
}

func (f *Ridge) Forecast(steps int) ([]float64, error) {
	if !f.fitted {
		return nil, errors.New("ridge model is not fitted")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	history := make([]float64, len(f.tail), len(f.tail)+steps)
	copy(history, f.tail)

	out := make([]float64, steps)
	for h := 0; h < steps; h++ {
		hour := (f.hour0 + h) % 24
		row := f.features(history, hour)
		pred := 0.0
		for i, c := range f.coefs {
			pred += c * row[i]
		}
		out[h] = pred
		history = append(history, pred)
	}
	return out, nil
}

// solveLinearSystem solves Ax = b by Gaussian elimination with partial
// pivoting. A and b are modified in place.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errors.New("singular design matrix")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}
