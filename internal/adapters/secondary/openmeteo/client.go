// Package openmeteo implements the air quality provider port against the
// Open-Meteo air-quality and weather APIs (hourly, keyless).
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

const (
	defaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
	defaultWeatherURL    = "https://api.open-meteo.com/v1/forecast"

	airQualityFields = "pm2_5,pm10,ozone,nitrogen_dioxide,sulphur_dioxide,carbon_monoxide"
	weatherFields    = "temperature_2m,relative_humidity_2m,wind_speed_10m,surface_pressure,precipitation"

	// Open-Meteo hourly timestamps, in the requested timezone (UTC here).
	timeLayout = "2006-01-02T15:04"
)

// Molar masses (g/mol) for converting Open-Meteo's µg/m³ gas concentrations
// to the ppb/ppm units the EPA breakpoint tables use, at 25°C/1 atm.
const (
	molarVolume = 24.45
	molarO3     = 48.00
	molarNO2    = 46.01
	molarSO2    = 64.07
	molarCO     = 28.01
)

// Client fetches hourly observations from Open-Meteo.
type Client struct {
	airQualityURL string
	weatherURL    string
	httpClient    *http.Client
}

var _ ports.AirQualityClient = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithBaseURLs overrides the API endpoints (used in tests).
func WithBaseURLs(airQuality, weather string) Option {
	return func(c *Client) {
		c.airQualityURL = airQuality
		c.weatherURL = weather
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates an Open-Meteo client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		airQualityURL: defaultAirQualityURL,
		weatherURL:    defaultWeatherURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return "open-meteo"
}

type hourlyResponse struct {
	Hourly struct {
		Time []string `json:"time"`

		PM25 []float64 `json:"pm2_5"`
		PM10 []float64 `json:"pm10"`
		O3   []float64 `json:"ozone"`
		NO2  []float64 `json:"nitrogen_dioxide"`
		SO2  []float64 `json:"sulphur_dioxide"`
		CO   []float64 `json:"carbon_monoxide"`

		TemperatureC []float64 `json:"temperature_2m"`
		HumidityPct  []float64 `json:"relative_humidity_2m"`
		WindSpeedMS  []float64 `json:"wind_speed_10m"`
		PressureHpa  []float64 `json:"surface_pressure"`
		PrecipMM     []float64 `json:"precipitation"`
	} `json:"hourly"`
}

func (c *Client) FetchRecent(ctx context.Context, loc domain.Location, pastDays int) ([]domain.Observation, error) {
	window := url.Values{}
	window.Set("past_days", fmt.Sprintf("%d", pastDays))
	window.Set("forecast_days", "1")
	return c.fetch(ctx, loc, window)
}

func (c *Client) FetchRange(ctx context.Context, loc domain.Location, from, to time.Time) ([]domain.Observation, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidRange
	}
	window := url.Values{}
	window.Set("start_date", from.UTC().Format("2006-01-02"))
	window.Set("end_date", to.UTC().Format("2006-01-02"))
	return c.fetch(ctx, loc, window)
}

func (c *Client) fetch(ctx context.Context, loc domain.Location, window url.Values) ([]domain.Observation, error) {
	airQuality, err := c.get(ctx, c.airQualityURL, loc, airQualityFields, window)
	if err != nil {
		return nil, err
	}
	weather, err := c.get(ctx, c.weatherURL, loc, weatherFields, window)
	if err != nil {
		return nil, err
	}
	return merge(loc, airQuality, weather)
}

func (c *Client) get(ctx context.Context, baseURL string, loc domain.Location, fields string, window url.Values) (*hourlyResponse, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", loc.Latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", loc.Longitude))
	params.Set("hourly", fields)
	params.Set("timezone", "UTC")
	for k, vs := range window {
		for _, v := range vs {
			params.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, body)
	}

	var decoded hourlyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, nil
}

// merge joins the two hourly responses on their timestamps. Hours present in
// only one response are dropped.
func merge(loc domain.Location, airQuality, weather *hourlyResponse) ([]domain.Observation, error) {
	type wx struct {
		temp, humidity, wind, pressure, precip float64
	}
	byHour := make(map[string]wx, len(weather.Hourly.Time))
	for i, ts := range weather.Hourly.Time {
		byHour[ts] = wx{
			temp:     at(weather.Hourly.TemperatureC, i),
			humidity: at(weather.Hourly.HumidityPct, i),
			wind:     at(weather.Hourly.WindSpeedMS, i),
			pressure: at(weather.Hourly.PressureHpa, i),
			precip:   at(weather.Hourly.PrecipMM, i),
		}
	}

	out := make([]domain.Observation, 0, len(airQuality.Hourly.Time))
	for i, ts := range airQuality.Hourly.Time {
		w, ok := byHour[ts]
		if !ok {
			continue
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse hourly timestamp %q: %w", ts, err)
		}
		out = append(out, domain.Observation{
			Location: loc.Name,
			Time:     t.UTC(),
			Pollutants: domain.Pollutants{
				PM25: at(airQuality.Hourly.PM25, i),
				PM10: at(airQuality.Hourly.PM10, i),
				O3:   ugm3ToPPB(at(airQuality.Hourly.O3, i), molarO3),
				NO2:  ugm3ToPPB(at(airQuality.Hourly.NO2, i), molarNO2),
				SO2:  ugm3ToPPB(at(airQuality.Hourly.SO2, i), molarSO2),
				CO:   ugm3ToPPM(at(airQuality.Hourly.CO, i), molarCO),
			},
			TemperatureC:    w.temp,
			HumidityPct:     w.humidity,
			WindSpeedMS:     w.wind,
			PressureHpa:     w.pressure,
			PrecipitationMM: w.precip,
		})
	}
	return out, nil
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func ugm3ToPPB(c, molarMass float64) float64 {
	return c * molarVolume / molarMass
}

func ugm3ToPPM(c, molarMass float64) float64 {
	return c * molarVolume / molarMass / 1000
}
