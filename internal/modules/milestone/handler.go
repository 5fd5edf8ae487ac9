package milestone

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"buildtrack/internal/pkg/response"
	"buildtrack/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:projectCode/milestones", h.AddMilestone)
	rg.GET("/projects/:projectCode/milestones", h.ListMilestones)
	rg.GET("/projects/:projectCode/milestones/:milestoneId", h.GetMilestone)
	rg.PUT("/projects/:projectCode/milestones/:milestoneId", h.UpdateMilestone)
	rg.PATCH("/projects/:projectCode/milestones/:milestoneId/progress", h.UpdateProgress)
	rg.DELETE("/projects/:projectCode/milestones/:milestoneId", h.DeleteMilestone)

	rg.POST("/projects/:projectCode/milestones/:milestoneId/photos", h.AddPhoto)
	rg.GET("/projects/:projectCode/milestones/:milestoneId/photos", h.ListPhotos)
	rg.DELETE("/projects/:projectCode/milestones/:milestoneId/photos/:photoId", h.DeletePhoto)
}

func (h *Handler) AddMilestone(c *gin.Context) {
	var req AddMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	m, projectProgress, err := h.service.Add(
		c.Request.Context(),
		c.Param("projectCode"),
		req,
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"milestone":       m,
		"projectProgress": projectProgress,
	})
}

func (h *Handler) ListMilestones(c *gin.Context) {
	milestones, err := h.service.List(c.Request.Context(), c.Param("projectCode"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, milestones)
}

func (h *Handler) GetMilestone(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("projectCode"), c.Param("milestoneId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *Handler) UpdateMilestone(c *gin.Context) {
	var req UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	m, projectProgress, err := h.service.Update(
		c.Request.Context(),
		c.Param("projectCode"),
		c.Param("milestoneId"),
		req,
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"milestone":       m,
		"projectProgress": projectProgress,
	})
}

func (h *Handler) UpdateProgress(c *gin.Context) {
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Progress must be an integer between 0 and 100")
		return
	}

	m, projectProgress, err := h.service.UpdateProgress(
		c.Request.Context(),
		c.Param("projectCode"),
		c.Param("milestoneId"),
		req,
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"milestone":       m,
		"projectProgress": projectProgress,
	})
}

func (h *Handler) DeleteMilestone(c *gin.Context) {
	projectProgress, err := h.service.Delete(
		c.Request.Context(),
		c.Param("projectCode"),
		c.Param("milestoneId"),
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"projectProgress": projectProgress,
	})
}

func (h *Handler) AddPhoto(c *gin.Context) {
	var req AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	photo, err := h.service.AddPhoto(
		c.Request.Context(),
		c.Param("projectCode"),
		c.Param("milestoneId"),
		req,
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, photo)
}

func (h *Handler) ListPhotos(c *gin.Context) {
	photos, err := h.service.ListPhotos(c.Request.Context(), c.Param("projectCode"), c.Param("milestoneId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, photos)
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	err := h.service.DeletePhoto(
		c.Request.Context(),
		c.Param("projectCode"),
		c.Param("milestoneId"),
		c.Param("photoId"),
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) bindError(c *gin.Context, err error) {
	if details := validator.Details(err); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid milestone data")
	case errors.Is(err, ErrDuplicateOrder):
		response.Error(c, http.StatusBadRequest, "DUPLICATE_ORDER", "A milestone with this order already exists")
	case errors.Is(err, ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case errors.Is(err, ErrMilestoneNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Milestone not found")
	case errors.Is(err, ErrPhotoNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Photo not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Project was modified concurrently, please retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process milestone")
	}
}
