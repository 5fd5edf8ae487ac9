package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"buildtrack/internal/database"
	"buildtrack/internal/domain"
	"buildtrack/internal/repository"
)

func setupRouter(t *testing.T) (*gin.Engine, *Hub, *repository.ProjectRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Project{}, &domain.ProjectCounter{}))

	projectRepo := repository.NewProjectRepository(db)
	hub := NewHub()
	t.Cleanup(hub.Close)

	service := NewService(projectRepo, nil)
	handler := NewHandler(service, hub, zap.NewNop())

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1)

	return router, hub, projectRepo
}

func seedTrackedProject(t *testing.T, repo *repository.ProjectRepository) *domain.Project {
	t.Helper()
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	p := &domain.Project{
		ProjectCode:      "PRJ-2026-007",
		ProjectName:      "Lakeside residence",
		ProjectType:      domain.TypeConstruction,
		CustomerName:     "Dana K.",
		CustomerEmail:    "dana@example.com",
		StartDate:        start,
		EstimatedEndDate: start.AddDate(1, 0, 0),
		Status:           domain.ProjectInProgress,
		Progress:         30,
		Milestones: domain.MilestoneList{{
			ID:        "m1",
			Title:     "Foundation",
			Order:     1,
			StartDate: start,
			EndDate:   start.AddDate(0, 1, 0),
			Progress:  30,
			Status:    domain.MilestoneInProgress,
			Notes:     "internal only",
			Photos:    []domain.Photo{},
		}},
		Documents:  domain.DocumentList{},
		Activities: domain.ActivityList{},
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestTrackProjectEndpoint(t *testing.T) {
	router, _, repo := setupRouter(t)
	seedTrackedProject(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/track/PRJ-2026-007", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data TrackingView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "PRJ-2026-007", payload.Data.ProjectInfo.ProjectCode)
	assert.Equal(t, "0/1", payload.Data.Timeline.MilestoneProgress)

	// no auth header needed, and internal data stays out of the body
	body := resp.Body.String()
	assert.NotContains(t, body, "dana@example.com")
	assert.NotContains(t, body, "internal only")
}

func TestTrackProjectEndpoint_NotFound(t *testing.T) {
	router, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/track/PRJ-2026-404", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "check the project code")
}

func TestProjectSummaryEndpoint(t *testing.T) {
	router, _, repo := setupRouter(t)
	seedTrackedProject(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/summary/PRJ-2026-007", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "Lakeside residence", payload.Data.ProjectName)
	assert.Equal(t, 30, payload.Data.Progress)
}

func TestLiveFeed(t *testing.T) {
	router, hub, repo := setupRouter(t)
	seedTrackedProject(t, repo)

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/projects/track/PRJ-2026-007/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// wait for the handler goroutine to register the watcher
	require.Eventually(t, func() bool {
		return hub.WatcherCount("PRJ-2026-007") == 1
	}, time.Second, 10*time.Millisecond)

	hub.NotifyProgress("PRJ-2026-007", "m1", domain.MilestoneCompleted, 100, 100)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var event ProgressEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "PRJ-2026-007", event.ProjectCode)
	assert.Equal(t, "completed", event.MilestoneStatus)
	assert.Equal(t, 100, event.ProjectProgress)
}

func TestLiveFeed_UnknownCode(t *testing.T) {
	router, _, _ := setupRouter(t)

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/projects/track/PRJ-2026-404/live"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHubUnregisterCleansUp(t *testing.T) {
	router, hub, repo := setupRouter(t)
	seedTrackedProject(t, repo)

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/projects/track/PRJ-2026-007/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.WatcherCount("PRJ-2026-007") == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.WatcherCount("PRJ-2026-007") == 0
	}, time.Second, 10*time.Millisecond)
}
