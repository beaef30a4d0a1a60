package dto

import (
	"time"

	"aqi-forecast-service/internal/core/domain"
)

// PredictionResponse is one forecast hour, with the target time rendered in
// both UTC and the site's local timezone the way the dashboard shows it.
type PredictionResponse struct {
	TargetTimeUTC   time.Time `json:"forecast_date_utc"`
	TargetTimeLocal time.Time `json:"forecast_date_local"`
	Value           float64   `json:"value"`
	AQI             int       `json:"us_aqi"`
	Category        string    `json:"category"`
}

type ForecastRunResponse struct {
	ID             string               `json:"id"`
	RunAt          time.Time            `json:"prediction_time"`
	Location       string               `json:"location"`
	ModelVersionID string               `json:"model_version_id"`
	ModelName      string               `json:"model_version"`
	HorizonHours   int                  `json:"horizon_hours"`
	Predictions    []PredictionResponse `json:"predictions,omitempty"`
}

type ListRunsResponse struct {
	Items      []ForecastRunResponse `json:"items"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
	NextOffset int                   `json:"next_offset"`
}

type CurrentAQIResponse struct {
	AQI            int       `json:"us_aqi"`
	Category       string    `json:"category"`
	ForecastedFor  time.Time `json:"forecasted_for"`
	PredictionTime time.Time `json:"prediction_time"`
	ModelName      string    `json:"model_version"`
}

func ToPredictionResponse(p domain.Prediction, loc *time.Location) PredictionResponse {
	return PredictionResponse{
		TargetTimeUTC:   p.TargetTime.UTC(),
		TargetTimeLocal: p.TargetTime.In(loc),
		Value:           p.Value,
		AQI:             p.AQI,
		Category:        string(p.Category),
	}
}

func ToForecastRunResponse(run *domain.ForecastRun, loc *time.Location) ForecastRunResponse {
	resp := ForecastRunResponse{
		ID:             run.ID.String(),
		RunAt:          run.RunAt.UTC(),
		Location:       run.Location,
		ModelVersionID: run.ModelVersionID.String(),
		ModelName:      run.ModelName,
		HorizonHours:   run.HorizonHours,
	}
	for _, p := range run.Predictions {
		resp.Predictions = append(resp.Predictions, ToPredictionResponse(p, loc))
	}
	return resp
}
