package document

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
	rg.POST("/projects/:projectCode/documents", h.UploadDocument)
	rg.GET("/projects/:projectCode/documents", h.ListDocuments)
	rg.DELETE("/projects/:projectCode/documents/:documentId", h.DeleteDocument)
}

func (h *Handler) UploadDocument(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := validator.Details(err); details != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	doc, err := h.service.Upload(
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

	response.Success(c, http.StatusCreated, doc)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context(), c.Param("projectCode"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	err := h.service.Delete(
		c.Request.Context(),
		c.Param("projectCode"),
		c.Param("documentId"),
		c.GetString("user_id"),
		c.GetString("user_name"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid document data")
	case errors.Is(err, ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case errors.Is(err, ErrDocumentNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Project was modified concurrently, please retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process document")
	}
}
