package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/adapters/primary/http/dto"
)

// GetLatestForecast serves the newest run. Optional from/to query params
// (RFC3339) trim the horizon; an inverted range is swapped, not rejected.
func (h *Handler) GetLatestForecast(c *gin.Context) {
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}

	run, err := h.forecastSvc.Latest(c.Request.Context(), from, to)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToForecastRunResponse(run, h.siteTZ))
}

// GetCurrentAQI serves the prediction closest to now from the latest run.
func (h *Handler) GetCurrentAQI(c *gin.Context) {
	pred, run, err := h.forecastSvc.Current(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CurrentAQIResponse{
		AQI:            pred.AQI,
		Category:       string(pred.Category),
		ForecastedFor:  pred.TargetTime.In(h.siteTZ),
		PredictionTime: run.RunAt.UTC(),
		ModelName:      run.ModelName,
	})
}

func (h *Handler) ListForecastRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, total, err := h.forecastSvc.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		log.WithError(err).Error("list forecast runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ForecastRunResponse, 0, len(runs))
	for _, run := range runs {
		items = append(items, dto.ToForecastRunResponse(run, h.siteTZ))
	}
	c.JSON(http.StatusOK, dto.ListRunsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetForecastRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.forecastSvc.Run(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToForecastRunResponse(run, h.siteTZ))
}

// parseTimeParam reads an optional RFC3339 query parameter. On a malformed
// value it writes a 400 and returns ok=false.
func parseTimeParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ": expected RFC3339 timestamp"})
		return time.Time{}, false
	}
	return t, true
}
