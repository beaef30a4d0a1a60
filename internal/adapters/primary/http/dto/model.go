package dto

import (
	"encoding/json"
	"time"

	"aqi-forecast-service/internal/core/domain"
)

type RegisteredModelResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Target      string    `json:"target"`
}

type ModelVersionResponse struct {
	ID                string          `json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	RegisteredModelID string          `json:"registered_model_id"`
	Name              string          `json:"name"`
	Status            string          `json:"status"`
	IsChampion        bool            `json:"is_champion"`
	Spec              json.RawMessage `json:"spec,omitempty"`
	Metrics           MetricsResponse `json:"metrics"`
	HorizonHours      int             `json:"horizon_hours"`
	TrainedFrom       time.Time       `json:"trained_from"`
	TrainedTo         time.Time       `json:"trained_to"`
	TrainingRows      int             `json:"training_rows"`
	FailureReason     string          `json:"failure_reason,omitempty"`
}

type MetricsResponse struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"`
	R2   float64 `json:"r2"`
}

type ListVersionsResponse struct {
	Items      []ModelVersionResponse `json:"items"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"page_size"`
	NextOffset int                    `json:"next_offset"`
}

func ToRegisteredModelResponse(m *domain.RegisteredModel) RegisteredModelResponse {
	return RegisteredModelResponse{
		ID:          m.ID.String(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Name:        m.Name,
		Description: m.Description,
		Location:    m.Location,
		Target:      m.Target,
	}
}

func ToModelVersionResponse(v *domain.ModelVersion) ModelVersionResponse {
	return ModelVersionResponse{
		ID:                v.ID.String(),
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
		RegisteredModelID: v.RegisteredModelID.String(),
		Name:              v.Name,
		Status:            string(v.Status),
		IsChampion:        v.IsChampion,
		Spec:              v.Spec,
		Metrics: MetricsResponse{
			RMSE: v.Metrics.RMSE,
			MAE:  v.Metrics.MAE,
			MAPE: v.Metrics.MAPE,
			R2:   v.Metrics.R2,
		},
		HorizonHours:  v.HorizonHours,
		TrainedFrom:   v.TrainedFrom,
		TrainedTo:     v.TrainedTo,
		TrainingRows:  v.TrainingRows,
		FailureReason: v.FailureReason,
	}
}
