package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type VersionStatus string

const (
	VersionStatusPending VersionStatus = "PENDING"
	VersionStatusReady   VersionStatus = "READY"
	VersionStatusFailed  VersionStatus = "FAILED"
)

// RegisteredModel groups the versions trained for one forecast target.
// A single-location deployment has one model per location.
type RegisteredModel struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Target      string    `json:"target"` // forecast variable, e.g. "us_aqi"
}

// EvalMetrics are holdout scores recorded when a version is trained.
type EvalMetrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"`
	R2   float64 `json:"r2"`
}

// ModelVersion is one trained forecaster. Spec holds the forecaster kind and
// hyperparameters as produced by the forecasting package, so the version can
// be rehydrated for inference.
type ModelVersion struct {
	ID                uuid.UUID       `json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	RegisteredModelID uuid.UUID       `json:"registered_model_id"`
	Name              string          `json:"name"`
	Status            VersionStatus   `json:"status"`
	IsChampion        bool            `json:"is_champion"`
	Spec              json.RawMessage `json:"spec"`
	Metrics           EvalMetrics     `json:"metrics"`
	HorizonHours      int             `json:"horizon_hours"`
	TrainedFrom       time.Time       `json:"trained_from"`
	TrainedTo         time.Time       `json:"trained_to"`
	TrainingRows      int             `json:"training_rows"`
	FailureReason     string          `json:"failure_reason,omitempty"`
}
