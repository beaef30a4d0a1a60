package domain

import "time"

// Location identifies the monitored site. The service runs against a single
// configured location, but rows carry it so multi-site data stays separable.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Observation is one hourly air-quality sample with its weather covariates
// and the US AQI derived from the pollutant concentrations.
type Observation struct {
	Location   string     `json:"location"`
	Time       time.Time  `json:"time"` // UTC, truncated to the hour
	Pollutants Pollutants `json:"pollutants"`

	TemperatureC    float64 `json:"temperature_c"`
	HumidityPct     float64 `json:"humidity_pct"`
	WindSpeedMS     float64 `json:"wind_speed_ms"`
	PressureHpa     float64 `json:"pressure_hpa"`
	PrecipitationMM float64 `json:"precipitation_mm"`

	AQI int `json:"us_aqi"`
}

// CoverageGap is a hole in the hourly observation history.
type CoverageGap struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Hours int       `json:"hours"`
}

// Coverage summarizes how complete the stored history is. TotalRows counts
// every row stored for the location, not just the queried window.
type Coverage struct {
	Location  string        `json:"location"`
	From      time.Time     `json:"from"`
	To        time.Time     `json:"to"`
	Expected  int           `json:"expected_hours"`
	Stored    int           `json:"stored_hours"`
	TotalRows int           `json:"total_rows"`
	Gaps      []CoverageGap `json:"gaps"`
}
