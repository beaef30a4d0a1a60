package domain

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is one forecast hour inside a run. Value is the raw model
// output; AQI is the rounded, clamped value actually served.
type Prediction struct {
	ID         uuid.UUID `json:"id"`
	RunID      uuid.UUID `json:"run_id"`
	TargetTime time.Time `json:"target_time"` // UTC
	Value      float64   `json:"value"`
	AQI        int       `json:"us_aqi"`
	Category   Category  `json:"category"`
}

// ForecastRun is one inference execution: the full horizon produced at RunAt
// by a single model version. Serving always reads the latest run, so stale
// horizons never mix with fresh ones.
type ForecastRun struct {
	ID             uuid.UUID    `json:"id"`
	RunAt          time.Time    `json:"run_at"`
	Location       string       `json:"location"`
	ModelVersionID uuid.UUID    `json:"model_version_id"`
	ModelName      string       `json:"model_name"`
	HorizonHours   int          `json:"horizon_hours"`
	Predictions    []Prediction `json:"predictions,omitempty"`
}

// NearestPrediction returns the prediction whose target time is closest to
// now, mirroring the dashboard's "current forecasted AQI" tile.
func (r *ForecastRun) NearestPrediction(now time.Time) (Prediction, bool) {
	if len(r.Predictions) == 0 {
		return Prediction{}, false
	}
	best := r.Predictions[0]
	bestDiff := absDuration(best.TargetTime.Sub(now))
	for _, p := range r.Predictions[1:] {
		if d := absDuration(p.TargetTime.Sub(now)); d < bestDiff {
			best, bestDiff = p, d
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
