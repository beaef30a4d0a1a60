package stats

import "math"

// RMSE returns the root mean squared error between forecasts and actuals.
// Slices must have equal, non-zero length; otherwise NaN.
func RMSE(actual, forecast []float64) float64 {
	if len(actual) == 0 || len(actual) != len(forecast) {
		return math.NaN()
	}
	sse := 0.0
	for i := range actual {
		d := actual[i] - forecast[i]
		sse += d * d
	}
	return math.Sqrt(sse / float64(len(actual)))
}

// MAE returns the mean absolute error.
func MAE(actual, forecast []float64) float64 {
	if len(actual) == 0 || len(actual) != len(forecast) {
		return math.NaN()
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - forecast[i])
	}
	return sum / float64(len(actual))
}

// MAPE returns the mean absolute percentage error. Zero actuals are skipped;
// if every actual is zero the result is NaN.
func MAPE(actual, forecast []float64) float64 {
	if len(actual) == 0 || len(actual) != len(forecast) {
		return math.NaN()
	}
	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs((actual[i] - forecast[i]) / actual[i])
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count) * 100
}

// R2 returns the coefficient of determination. A constant actual series
// yields NaN.
func R2(actual, forecast []float64) float64 {
	if len(actual) == 0 || len(actual) != len(forecast) {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	ssRes, ssTot := 0.0, 0.0
	for i := range actual {
		r := actual[i] - forecast[i]
		ssRes += r * r
		d := actual[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}
