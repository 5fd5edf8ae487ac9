package milestone

import (
	"context"

	"buildtrack/internal/domain"
)

// ProjectRepository is the slice of the project store the milestone manager
// needs: load the aggregate, write it back guarded by its revision.
type ProjectRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	UpdateWithRevision(ctx context.Context, p *domain.Project) error
}

// ProgressNotifier pushes progress events to live tracking watchers.
type ProgressNotifier interface {
	NotifyProgress(projectCode, milestoneID string, milestoneStatus domain.MilestoneStatus, milestoneProgress, projectProgress int)
}

// CacheInvalidator drops cached public views after a mutation.
type CacheInvalidator interface {
	InvalidateProject(ctx context.Context, projectCode string)
}
