package project

import (
	"context"

	"buildtrack/internal/domain"
	"buildtrack/internal/repository"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context, f repository.ListFilter) ([]domain.Project, int64, error)
	UpdateWithRevision(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, code string) error
	NextProjectSeq(ctx context.Context, year int) (int64, error)
}

// CacheInvalidator drops cached public views after a mutation.
type CacheInvalidator interface {
	InvalidateProject(ctx context.Context, projectCode string)
}
