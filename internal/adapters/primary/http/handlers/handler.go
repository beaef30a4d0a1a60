package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/core/domain"
	"aqi-forecast-service/internal/core/services"
)

type Handler struct {
	featureSvc   *services.FeatureService
	registrySvc  *services.RegistryService
	trainingSvc  *services.TrainingService
	inferenceSvc *services.InferenceService
	forecastSvc  *services.ForecastService

	modelName string
	siteTZ    *time.Location
}

func New(
	featureSvc *services.FeatureService,
	registrySvc *services.RegistryService,
	trainingSvc *services.TrainingService,
	inferenceSvc *services.InferenceService,
	forecastSvc *services.ForecastService,
	modelName string,
	site domain.Location,
) *Handler {
	tz, err := time.LoadLocation(site.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", site.Timezone).Warn("invalid site timezone, serving UTC")
		tz = time.UTC
	}
	return &Handler{
		featureSvc:   featureSvc,
		registrySvc:  registrySvc,
		trainingSvc:  trainingSvc,
		inferenceSvc: inferenceSvc,
		forecastSvc:  forecastSvc,
		modelName:    modelName,
		siteTZ:       tz,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Forecasts
	r.GET("/forecast/latest", h.GetLatestForecast)
	r.GET("/forecast/current", h.GetCurrentAQI)
	r.GET("/forecast/runs", h.ListForecastRuns)
	r.GET("/forecast/runs/:id", h.GetForecastRun)

	// Observations (feature store)
	r.GET("/observations", h.ListObservations)
	r.GET("/observations/latest", h.GetLatestObservation)
	r.GET("/observations/coverage", h.GetCoverage)

	// Model registry
	r.GET("/models", h.ListModels)
	r.GET("/models/:id", h.GetModel)
	r.GET("/models/:id/versions", h.ListModelVersions)
	r.GET("/model_versions/:id", h.GetModelVersion)
	r.POST("/model_versions/:id/promote", h.PromoteModelVersion)
	r.GET("/champion", h.GetChampion)

	// Pipeline triggers
	r.POST("/pipelines/ingest/run", h.RunIngest)
	r.POST("/pipelines/ingest/backfill", h.RunBackfill)
	r.POST("/pipelines/train/run", h.RunTraining)
	r.POST("/pipelines/infer/run", h.RunInference)
}
