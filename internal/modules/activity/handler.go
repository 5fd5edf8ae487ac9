package activity

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"buildtrack/internal/pkg/pagination"
	"buildtrack/internal/pkg/response"
	"buildtrack/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects/:projectCode/activities", h.ListActivities)
}

func (h *Handler) ListActivities(c *gin.Context) {
	params := pagination.Parse(c.Query("page"), c.Query("limit"))

	entries, meta, err := h.service.List(c.Request.Context(), c.Param("projectCode"), params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch activities")
		return
	}

	response.SuccessPaginated(c, http.StatusOK, entries, meta)
}
