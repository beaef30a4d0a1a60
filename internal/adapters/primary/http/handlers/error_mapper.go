package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aqi-forecast-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrVersionNotFound),
		errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrNoForecast),
		errors.Is(err, domain.ErrNoChampion),
		errors.Is(err, domain.ErrNoObservations),
		errors.Is(err, domain.ErrObservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrModelNameConflict),
		errors.Is(err, domain.ErrVersionNameConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidModelName),
		errors.Is(err, domain.ErrVersionNotReady),
		errors.Is(err, domain.ErrInvalidSpec):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Preconditions the caller can fix by waiting or backfilling
	case errors.Is(err, domain.ErrInsufficientHistory),
		errors.Is(err, domain.ErrTrainingFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	// Upstream failures
	case errors.Is(err, domain.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
