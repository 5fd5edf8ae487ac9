package dashboard

import (
	"context"
	"time"

	"buildtrack/internal/domain"
	"buildtrack/internal/repository"
)

type ProjectRepository interface {
	CountByStatus(ctx context.Context) ([]repository.StatusCount, error)
	CountByType(ctx context.Context) ([]repository.TypeCount, error)
	Recent(ctx context.Context, limit int) ([]domain.Project, error)
}

type Service struct {
	projects ProjectRepository
}

func NewService(projects ProjectRepository) *Service {
	return &Service{projects: projects}
}

type Overview struct {
	TotalProjects     int64 `json:"totalProjects"`
	ActiveProjects    int64 `json:"activeProjects"`
	CompletedProjects int64 `json:"completedProjects"`
	PendingProjects   int64 `json:"pendingProjects"`
}

type RecentProject struct {
	ProjectCode  string    `json:"project_code"`
	ProjectName  string    `json:"project_name"`
	CustomerName string    `json:"customer_name"`
	ProjectType  string    `json:"project_type"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	CreatedAt    time.Time `json:"created_at"`
}

type Stats struct {
	Overview         Overview         `json:"overview"`
	ProjectsByStatus map[string]int64 `json:"projectsByStatus"`
	ProjectsByType   map[string]int64 `json:"projectsByType"`
	RecentProjects   []RecentProject  `json:"recentProjects"`
}

const recentLimit = 5

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	byStatus, err := s.projects.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.projects.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.projects.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		ProjectsByStatus: make(map[string]int64),
		ProjectsByType:   make(map[string]int64),
		RecentProjects:   make([]RecentProject, 0, len(recent)),
	}

	for _, row := range byStatus {
		stats.ProjectsByStatus[row.Status] = row.Count
		stats.Overview.TotalProjects += row.Count
		switch domain.ProjectStatus(row.Status) {
		case domain.ProjectInProgress:
			stats.Overview.ActiveProjects = row.Count
		case domain.ProjectCompleted:
			stats.Overview.CompletedProjects = row.Count
		case domain.ProjectPending:
			stats.Overview.PendingProjects = row.Count
		}
	}

	for _, row := range byType {
		stats.ProjectsByType[row.ProjectType] = row.Count
	}

	for _, p := range recent {
		stats.RecentProjects = append(stats.RecentProjects, RecentProject{
			ProjectCode:  p.ProjectCode,
			ProjectName:  p.ProjectName,
			CustomerName: p.CustomerName,
			ProjectType:  string(p.ProjectType),
			Status:       string(p.Status),
			Progress:     p.Progress,
			CreatedAt:    p.CreatedAt,
		})
	}

	return stats, nil
}
