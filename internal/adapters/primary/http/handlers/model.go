package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"aqi-forecast-service/internal/adapters/primary/http/dto"
	ports "aqi-forecast-service/internal/core/ports/output"
)

func (h *Handler) ListModels(c *gin.Context) {
	models, err := h.registrySvc.ListModels(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list models failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.RegisteredModelResponse, 0, len(models))
	for _, m := range models {
		items = append(items, dto.ToRegisteredModelResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) GetModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	model, err := h.registrySvc.GetModel(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRegisteredModelResponse(model))
}

func (h *Handler) ListModelVersions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := ports.VersionListFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}

	versions, total, err := h.registrySvc.ListVersions(c.Request.Context(), id, filter)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToModelVersionResponse(v))
	}
	c.JSON(http.StatusOK, dto.ListVersionsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetModelVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	version, err := h.registrySvc.GetVersion(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

// PromoteModelVersion makes a READY version the champion used by inference.
func (h *Handler) PromoteModelVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	version, err := h.registrySvc.Promote(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("promote version failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) GetChampion(c *gin.Context) {
	version, err := h.registrySvc.Champion(c.Request.Context(), h.modelName)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}
