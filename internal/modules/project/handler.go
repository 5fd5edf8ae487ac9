package project

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"buildtrack/internal/pkg/pagination"
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
	rg.POST("/projects", h.CreateProject)
	rg.GET("/projects", h.ListProjects)
	rg.GET("/projects/:projectCode", h.GetProject)
	rg.PUT("/projects/:projectCode", h.UpdateProject)
	rg.PATCH("/projects/:projectCode/status", h.UpdateStatus)
	rg.DELETE("/projects/:projectCode", h.DeleteProject)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	created, err := h.service.Create(
		c.Request.Context(),
		req,
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) ListProjects(c *gin.Context) {
	q := ListQuery{
		Search:      c.Query("search"),
		Status:      c.Query("status"),
		ProjectType: c.Query("project_type"),
		SortBy:      c.DefaultQuery("sort_by", "created_at"),
		Order:       c.DefaultQuery("order", "desc"),
		Page:        pagination.Parse(c.Query("page"), c.Query("limit")),
	}

	projects, meta, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessPaginated(c, http.StatusOK, projects, meta)
}

func (h *Handler) GetProject(c *gin.Context) {
	detail, err := h.service.GetByCode(c.Request.Context(), c.Param("projectCode"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	updated, err := h.service.Update(
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

	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status must be one of: pending, in_progress, on_hold, completed, cancelled")
		return
	}

	updated, err := h.service.UpdateStatus(
		c.Request.Context(),
		c.Param("projectCode"),
		req.Status,
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("projectCode")); err != nil {
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
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project data")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Project was modified concurrently, please retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process project")
	}
}
