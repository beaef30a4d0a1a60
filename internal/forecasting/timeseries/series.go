// Package timeseries provides the time series representation the forecasting
// models operate on.
package timeseries

import (
	"errors"
	"math"
	"time"
)

// Series is an ordered sequence of timestamped values. Models assume the
// series is regular (hourly) and gap-free; Regularize produces that form.
type Series struct {
	Times  []time.Time
	Values []float64
}

// New builds a series from aligned timestamp and value slices.
func New(times []time.Time, values []float64) (*Series, error) {
	if len(times) != len(values) {
		return nil, errors.New("times and values must have the same length")
	}
	return &Series{Times: times, Values: values}, nil
}

// FromValues builds a series with synthetic hourly timestamps starting at t0.
func FromValues(t0 time.Time, values []float64) *Series {
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = t0.Add(time.Duration(i) * time.Hour)
	}
	return &Series{Times: times, Values: values}
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean returns the arithmetic mean of the series values.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Variance returns the sample variance of the series values.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(len(s.Values)-1)
}

// Std returns the sample standard deviation of the series values.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Diff returns the first-differenced series, one point shorter.
func (s *Series) Diff() *Series {
	if len(s.Values) < 2 {
		return &Series{}
	}
	times := make([]time.Time, len(s.Values)-1)
	values := make([]float64, len(s.Values)-1)
	for i := 1; i < len(s.Values); i++ {
		times[i-1] = s.Times[i]
		values[i-1] = s.Values[i] - s.Values[i-1]
	}
	return &Series{Times: times, Values: values}
}

// Tail returns the last n points of the series (the whole series if n
// exceeds its length).
func (s *Series) Tail(n int) *Series {
	if n >= len(s.Values) {
		return s
	}
	start := len(s.Values) - n
	return &Series{Times: s.Times[start:], Values: s.Values[start:]}
}

// Split returns the series split at index n: the first n points and the rest.
func (s *Series) Split(n int) (*Series, *Series) {
	if n <= 0 {
		return &Series{}, s
	}
	if n >= len(s.Values) {
		return s, &Series{}
	}
	return &Series{Times: s.Times[:n], Values: s.Values[:n]},
		&Series{Times: s.Times[n:], Values: s.Values[n:]}
}

// Last returns the final timestamp and value. Panics on an empty series.
func (s *Series) Last() (time.Time, float64) {
	return s.Times[len(s.Times)-1], s.Values[len(s.Values)-1]
}

// Regularize resamples the series onto an exact hourly grid between its
// first and last timestamps, linearly interpolating missing hours. Input
// points must be sorted by time; duplicate hours keep the last value.
func (s *Series) Regularize() *Series {
	if len(s.Values) < 2 {
		return s
	}
	byHour := make(map[time.Time]float64, len(s.Values))
	first := s.Times[0].UTC().Truncate(time.Hour)
	last := first
	for i, t := range s.Times {
		h := t.UTC().Truncate(time.Hour)
		byHour[h] = s.Values[i]
		if h.After(last) {
			last = h
		}
		if h.Before(first) {
			first = h
		}
	}

	n := int(last.Sub(first)/time.Hour) + 1
	times := make([]time.Time, 0, n)
	values := make([]float64, 0, n)
	for h := first; !h.After(last); h = h.Add(time.Hour) {
		times = append(times, h)
		if v, ok := byHour[h]; ok {
			values = append(values, v)
		} else {
			values = append(values, math.NaN())
		}
	}
	interpolate(values)
	return &Series{Times: times, Values: values}
}

// interpolate fills NaN runs linearly between their neighbors in place.
// Leading and trailing NaNs take the nearest observed value.
func interpolate(values []float64) {
	n := len(values)
	i := 0
	for i < n {
		if !math.IsNaN(values[i]) {
			i++
			continue
		}
		start := i
		for i < n && math.IsNaN(values[i]) {
			i++
		}
		switch {
		case start == 0 && i == n:
			// Nothing observed at all; leave as-is.
		case start == 0:
			for j := start; j < i; j++ {
				values[j] = values[i]
			}
		case i == n:
			for j := start; j < n; j++ {
				values[j] = values[start-1]
			}
		default:
			lo, hi := values[start-1], values[i]
			span := float64(i - start + 1)
			for j := start; j < i; j++ {
				values[j] = lo + (hi-lo)*float64(j-start+1)/span
			}
		}
	}
}
