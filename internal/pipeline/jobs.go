package pipeline

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/core/domain"
	"aqi-forecast-service/internal/core/services"
)

// Config sets the cadence of the recurring pipelines.
type Config struct {
	IngestInterval time.Duration
	TrainInterval  time.Duration
	InferInterval  time.Duration
	IngestPastDays int
}

// Jobs builds the standard pipeline set: hourly ingestion, daily training
// and hourly inference. Training and inference skip quietly while the
// system is still warming up (no history, no champion yet).
func Jobs(features *services.FeatureService, training *services.TrainingService, inference *services.InferenceService, cfg Config) []Job {
	return []Job{
		{
			Name:       "ingest",
			Interval:   cfg.IngestInterval,
			Retry:      DefaultRetryConfig(),
			RunOnStart: true,
			Fn: func(ctx context.Context) error {
				_, err := features.IngestRecent(ctx, cfg.IngestPastDays)
				return err
			},
		},
		{
			Name:       "train",
			Interval:   cfg.TrainInterval,
			Retry:      RetryConfig{Attempts: 1},
			RunOnStart: true,
			Fn: func(ctx context.Context) error {
				_, err := training.Run(ctx)
				if errors.Is(err, domain.ErrInsufficientHistory) {
					log.Warn("training skipped: not enough observation history yet")
					return nil
				}
				return err
			},
		},
		{
			Name:     "infer",
			Interval: cfg.InferInterval,
			Retry:    RetryConfig{Attempts: 2, BaseDelay: 10 * time.Second},
			Fn: func(ctx context.Context) error {
				_, err := inference.Run(ctx)
				if errors.Is(err, domain.ErrNoChampion) || errors.Is(err, domain.ErrNoObservations) {
					log.Warn("inference skipped: no champion model yet")
					return nil
				}
				return err
			},
		},
	}
}
