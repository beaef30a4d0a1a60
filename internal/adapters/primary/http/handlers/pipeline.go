package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/adapters/primary/http/dto"
)

// RunIngest triggers one synchronous ingestion round.
func (h *Handler) RunIngest(c *gin.Context) {
	rows, err := h.featureSvc.IngestRecent(c.Request.Context(), 0)
	if err != nil {
		log.WithError(err).Error("manual ingest failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IngestResponse{Rows: rows})
}

// RunBackfill loads past_days of provider history into the feature store.
func (h *Handler) RunBackfill(c *gin.Context) {
	var req dto.BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.featureSvc.Backfill(c.Request.Context(), req.PastDays)
	if err != nil {
		log.WithError(err).Error("backfill failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IngestResponse{Rows: rows})
}

// RunTraining executes a training round and returns the registered version.
func (h *Handler) RunTraining(c *gin.Context) {
	version, err := h.trainingSvc.Run(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("manual training failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToModelVersionResponse(version))
}

// RunInference executes an inference round and returns the new run.
func (h *Handler) RunInference(c *gin.Context) {
	run, err := h.inferenceSvc.Run(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("manual inference failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToForecastRunResponse(run, h.siteTZ))
}
