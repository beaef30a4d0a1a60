package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/adapters/primary/http/dto"
	"aqi-forecast-service/internal/core/domain"
)

func (h *Handler) ListObservations(c *gin.Context) {
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}
	if from.IsZero() || to.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRange.Error()})
		return
	}

	obs, err := h.featureSvc.Range(c.Request.Context(), from, to)
	if err != nil {
		log.WithError(err).Error("list observations failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ObservationResponse, 0, len(obs))
	for _, o := range obs {
		items = append(items, dto.ToObservationResponse(o))
	}
	c.JSON(http.StatusOK, dto.ListObservationsResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetLatestObservation(c *gin.Context) {
	o, err := h.featureSvc.Latest(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToObservationResponse(*o))
}

func (h *Handler) GetCoverage(c *gin.Context) {
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}
	if from.IsZero() || to.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRange.Error()})
		return
	}

	cov, err := h.featureSvc.Coverage(c.Request.Context(), from, to)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cov)
}
