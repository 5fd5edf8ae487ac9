package tracking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"buildtrack/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the feed is public, same as the tracking page itself
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service *Service
	hub     *Hub
	log     *zap.Logger
}

func NewHandler(service *Service, hub *Hub, log *zap.Logger) *Handler {
	return &Handler{service: service, hub: hub, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects/track/:projectCode", h.TrackProject)
	rg.GET("/projects/track/:projectCode/live", h.LiveFeed)
	rg.GET("/projects/summary/:projectCode", h.ProjectSummary)
}

func (h *Handler) TrackProject(c *gin.Context) {
	view, err := h.service.Track(c.Request.Context(), c.Param("projectCode"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) ProjectSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("projectCode"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// LiveFeed upgrades the connection and streams progress events for one
// project until the client goes away.
func (h *Handler) LiveFeed(c *gin.Context) {
	projectCode := c.Param("projectCode")

	// reject unknown codes before upgrading
	if _, err := h.service.Summary(c.Request.Context(), projectCode); err != nil {
		h.writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed",
			zap.String("project_code", projectCode),
			zap.Error(err),
		)
		return
	}

	h.hub.Register(projectCode, conn)
	defer h.hub.Unregister(projectCode, conn)

	// drain the connection; clients only listen
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found, check the project code")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load project")
}
