package forecasting

import (
	"errors"
	"math"

	"aqi-forecast-service/internal/forecasting/stats"
	"aqi-forecast-service/internal/forecasting/timeseries"
)

// ARIMAOrder is the (p, d, q) order of an ARIMA model.
type ARIMAOrder struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// ARIMA is an autoregressive integrated moving average model fitted by
// conditional sum of squares: AR coefficients start from Yule-Walker
// estimates and are refined jointly with the MA coefficients by gradient
// descent on the CSS objective.
type ARIMA struct {
	order     ARIMAOrder
	arCoeffs  []float64
	maCoeffs  []float64
	intercept float64
	variance  float64
	aic       float64
	aicc      float64
	residuals []float64
	data      *timeseries.Series
	diffed    *timeseries.Series
	fitted    bool
}

// NewARIMA creates an ARIMA(p,d,q) model. Negative orders are treated as 0.
func NewARIMA(p, d, q int) *ARIMA {
	if p < 0 {
		p = 0
	}
	if d < 0 {
		d = 0
	}
	if q < 0 {
		q = 0
	}
	return &ARIMA{
		order:    ARIMAOrder{P: p, D: d, Q: q},
		arCoeffs: make([]float64, p),
		maCoeffs: make([]float64, q),
	}
}

func (m *ARIMA) Name() string { return KindARIMA }

func (m *ARIMA) Spec() Spec { return specOf(KindARIMA, m.order) }

// Order returns the model order.
func (m *ARIMA) Order() ARIMAOrder { return m.order }

// AICc returns the corrected Akaike information criterion of the fit.
func (m *ARIMA) AICc() float64 { return m.aicc }

func (m *ARIMA) Fit(s *timeseries.Series) error {
	if s.Len() < m.order.P+m.order.D+m.order.Q+10 {
		return errors.New("insufficient data points for the specified order")
	}
	m.data = s

	diffed := s
	for i := 0; i < m.order.D; i++ {
		diffed = diffed.Diff()
		if diffed.Len() == 0 {
			return errors.New("differencing exhausted the series")
		}
	}
	m.diffed = diffed

	if err := m.fitCSS(); err != nil {
		return err
	}
	m.computeIC()
	m.fitted = true
	return nil
}

func (m *ARIMA) fitCSS() error {
	y := m.diffed.Values
	n := len(y)
	p, q := m.order.P, m.order.Q

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)
	m.intercept = mean

	if p == 0 && q == 0 {
		// White noise around the mean.
		m.residuals = make([]float64, n)
		sse := 0.0
		for i, v := range y {
			m.residuals[i] = v - mean
			sse += m.residuals[i] * m.residuals[i]
		}
		if n > 1 {
			m.variance = sse / float64(n-1)
		}
		return nil
	}

	if p > 0 {
		if acf := stats.ACF(m.diffed, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				m.arCoeffs = phi
			}
		}
	}
	for i := range m.maCoeffs {
		m.maCoeffs[i] = 0.1
	}

	m.refineCSS(y)
	m.finalizeResiduals(y)
	return nil
}

// predictAt evaluates the one-step prediction for index t given history and
// residuals so far.
func (m *ARIMA) predictAt(y, residuals []float64, t int) float64 {
	pred := m.intercept
	for i := 0; i < m.order.P && t-i-1 >= 0; i++ {
		pred += m.arCoeffs[i] * (y[t-i-1] - m.intercept)
	}
	for i := 0; i < m.order.Q && t-i-1 >= 0; i++ {
		pred += m.maCoeffs[i] * residuals[t-i-1]
	}
	return pred
}

func (m *ARIMA) refineCSS(y []float64) {
	n := len(y)
	p, q := m.order.P, m.order.Q
	start := p
	if q > start {
		start = q
	}

	const (
		maxIter      = 100
		tolerance    = 1e-6
		learningRate = 0.01
	)

	for iter := 0; iter < maxIter; iter++ {
		residuals := make([]float64, n)
		prevSSE := 0.0
		for t := start; t < n; t++ {
			residuals[t] = y[t] - m.predictAt(y, residuals, t)
			prevSSE += residuals[t] * residuals[t]
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := start; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.intercept)
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}

		// Bound coefficients to keep the model stationary and invertible.
		for i := 0; i < p; i++ {
			m.arCoeffs[i] -= learningRate * arGrad[i] / float64(n)
			m.arCoeffs[i] = math.Max(-0.99, math.Min(0.99, m.arCoeffs[i]))
		}
		for i := 0; i < q; i++ {
			m.maCoeffs[i] -= learningRate * maGrad[i] / float64(n)
			m.maCoeffs[i] = math.Max(-0.99, math.Min(0.99, m.maCoeffs[i]))
		}

		newSSE := 0.0
		for t := start; t < n; t++ {
			residuals[t] = y[t] - m.predictAt(y, residuals, t)
			newSSE += residuals[t] * residuals[t]
		}
		if math.Abs(prevSSE-newSSE) < tolerance {
			break
		}
	}
}

func (m *ARIMA) finalizeResiduals(y []float64) {
	n := len(y)
	p, q := m.order.P, m.order.Q
	start := p
	if q > start {
		start = q
	}

	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < start {
			m.residuals[t] = y[t] - m.intercept
			continue
		}
		m.residuals[t] = y[t] - m.predictAt(y, m.residuals, t)
	}

	sse := 0.0
	count := 0
	for t := start; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	if count > p+q+1 {
		m.variance = sse / float64(count-p-q-1)
	} else if count > 0 {
		m.variance = sse / float64(count)
	}
}

func (m *ARIMA) computeIC() {
	n := float64(len(m.residuals))
	k := float64(m.order.P + m.order.Q + 1)

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	logLik := math.Inf(-1)
	if m.variance > 0 {
		logLik = -n/2*math.Log(2*math.Pi) - n/2*math.Log(m.variance) - sse/(2*m.variance)
	}
	m.aic = -2*logLik + 2*k
	if n-k-1 > 0 {
		m.aicc = m.aic + 2*k*(k+1)/(n-k-1)
	} else {
		m.aicc = math.Inf(1)
	}
}

func (m *ARIMA) Forecast(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("arima model is not fitted")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	y := m.diffed.Values
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extRes := make([]float64, n+steps)
	copy(extRes, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.intercept
		for i := 0; i < m.order.P && t-i-1 >= 0; i++ {
			pred += m.arCoeffs[i] * (extY[t-i-1] - m.intercept)
		}
		// Future residuals have expectation zero.
		for i := 0; i < m.order.Q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.maCoeffs[i] * extRes[t-i-1]
		}
		extY[t] = pred
	}

	forecasts := extY[n:]
	if m.order.D > 0 {
		forecasts = m.integrate(forecasts)
	}
	return forecasts, nil
}

// integrate undoes the differencing, returning forecasts on the original
// scale.
func (m *ARIMA) integrate(forecasts []float64) []float64 {
	original := m.data.Values
	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	for i := 0; i < m.order.D; i++ {
		lastVal := original[len(original)-1-i]
		for j := range result {
			if j == 0 {
				result[j] += lastVal
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}

// yuleWalker estimates AR coefficients from the ACF via Levinson-Durbin
// recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		if v == 0 {
			break
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}
