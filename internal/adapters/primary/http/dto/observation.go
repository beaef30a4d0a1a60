package dto

import (
	"time"

	"aqi-forecast-service/internal/core/domain"
)

type ObservationResponse struct {
	Location string    `json:"location"`
	Time     time.Time `json:"time"`

	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	O3   float64 `json:"o3"`
	NO2  float64 `json:"no2"`
	SO2  float64 `json:"so2"`
	CO   float64 `json:"co"`

	TemperatureC    float64 `json:"temperature_c"`
	HumidityPct     float64 `json:"humidity_pct"`
	WindSpeedMS     float64 `json:"wind_speed_ms"`
	PressureHpa     float64 `json:"pressure_hpa"`
	PrecipitationMM float64 `json:"precipitation_mm"`

	AQI      int    `json:"us_aqi"`
	Category string `json:"category"`
}

type ListObservationsResponse struct {
	Items []ObservationResponse `json:"items"`
	Total int                   `json:"total"`
}

// IngestResponse reports how many rows an ingest or backfill wrote.
type IngestResponse struct {
	Rows int `json:"rows"`
}

// BackfillRequest asks the ingest pipeline to load history.
type BackfillRequest struct {
	PastDays int `json:"past_days" binding:"required,min=1,max=92"`
}

func ToObservationResponse(o domain.Observation) ObservationResponse {
	return ObservationResponse{
		Location:        o.Location,
		Time:            o.Time,
		PM25:            o.Pollutants.PM25,
		PM10:            o.Pollutants.PM10,
		O3:              o.Pollutants.O3,
		NO2:             o.Pollutants.NO2,
		SO2:             o.Pollutants.SO2,
		CO:              o.Pollutants.CO,
		TemperatureC:    o.TemperatureC,
		HumidityPct:     o.HumidityPct,
		WindSpeedMS:     o.WindSpeedMS,
		PressureHpa:     o.PressureHpa,
		PrecipitationMM: o.PrecipitationMM,
		AQI:             o.AQI,
		Category:        string(domain.CategoryForAQI(o.AQI)),
	}
}
