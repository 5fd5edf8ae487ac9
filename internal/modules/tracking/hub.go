package tracking

import (
	"sync"

	"github.com/gorilla/websocket"

	"buildtrack/internal/domain"
)

// ProgressEvent is pushed to everyone watching a project's live feed.
type ProgressEvent struct {
	ProjectCode       string `json:"project_code"`
	MilestoneID       string `json:"milestone_id"`
	MilestoneStatus   string `json:"milestone_status"`
	MilestoneProgress int    `json:"milestone_progress"`
	ProjectProgress   int    `json:"project_progress"`
}

// Hub fans progress events out to websocket watchers keyed by project code.
type Hub struct {
	watchers map[string]map[*websocket.Conn]bool
	mutex    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		watchers: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Register(projectCode string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.watchers[projectCode] == nil {
		h.watchers[projectCode] = make(map[*websocket.Conn]bool)
	}
	h.watchers[projectCode][conn] = true
}

func (h *Hub) Unregister(projectCode string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conns, exists := h.watchers[projectCode]; exists {
		if conns[conn] {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.watchers, projectCode)
		}
	}
}

// NotifyProgress satisfies the milestone service's notifier interface.
func (h *Hub) NotifyProgress(projectCode, milestoneID string, milestoneStatus domain.MilestoneStatus, milestoneProgress, projectProgress int) {
	h.Broadcast(ProgressEvent{
		ProjectCode:       projectCode,
		MilestoneID:       milestoneID,
		MilestoneStatus:   string(milestoneStatus),
		MilestoneProgress: milestoneProgress,
		ProjectProgress:   projectProgress,
	})
}

func (h *Hub) Broadcast(event ProgressEvent) {
	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.watchers[event.ProjectCode]))
	for conn := range h.watchers[event.ProjectCode] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.Unregister(event.ProjectCode, conn)
		}
	}
}

func (h *Hub) WatcherCount(projectCode string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.watchers[projectCode])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for code, conns := range h.watchers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.watchers, code)
	}
}
