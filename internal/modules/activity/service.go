package activity

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"buildtrack/internal/domain"
	"buildtrack/internal/pkg/pagination"
	"buildtrack/internal/repository"
)

// Audit actions recorded on projects.
const (
	ActionCreated           = "created"
	ActionUpdated           = "updated"
	ActionStatusChanged     = "status_changed"
	ActionMilestoneAdded    = "milestone_added"
	ActionMilestoneUpdated  = "milestone_updated"
	ActionMilestoneProgress = "milestone_progress_updated"
	ActionMilestoneDeleted  = "milestone_deleted"
	ActionPhotoUploaded     = "photo_uploaded"
	ActionPhotoDeleted      = "photo_deleted"
	ActionDocumentUploaded  = "document_uploaded"
	ActionDocumentDeleted   = "document_deleted"
)

type Entry struct {
	UserID      string
	UserName    string
	Action      string
	Description string
	Metadata    map[string]any
}

// New builds an immutable activity record with a fresh id and timestamp.
func New(e Entry) domain.Activity {
	if e.UserID == "" {
		e.UserID = "system"
	}
	if e.UserName == "" {
		e.UserName = "system"
	}
	if e.Action == "" {
		e.Action = "unknown"
	}
	return domain.Activity{
		ID:          uuid.NewString(),
		UserID:      e.UserID,
		UserName:    e.UserName,
		Action:      e.Action,
		Description: e.Description,
		Metadata:    e.Metadata,
		CreatedAt:   time.Now(),
	}
}

// Append attaches an entry to the project in memory. The caller is expected
// to persist the project in the same write as its own mutation, so either
// both land or neither does.
func Append(p *domain.Project, e Entry) domain.Activity {
	a := New(e)
	p.Activities = append(p.Activities, a)
	return a
}

type ProjectRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	UpdateWithRevision(ctx context.Context, p *domain.Project) error
}

type Logger struct {
	projects ProjectRepository
	log      *zap.Logger
}

func NewLogger(projects ProjectRepository, log *zap.Logger) *Logger {
	return &Logger{projects: projects, log: log}
}

// Log records an activity on its own, outside any other write. It is
// best-effort: a missing project or a lost race never fails the caller.
func (l *Logger) Log(ctx context.Context, projectCode string, e Entry) {
	for attempt := 0; attempt < 3; attempt++ {
		p, err := l.projects.GetByCode(ctx, projectCode)
		if err != nil {
			l.log.Warn("activity log skipped",
				zap.String("project_code", projectCode),
				zap.String("action", e.Action),
				zap.Error(err),
			)
			return
		}

		Append(p, e)

		err = l.projects.UpdateWithRevision(ctx, p)
		if err == nil {
			return
		}
		if !errors.Is(err, repository.ErrRevisionConflict) {
			l.log.Warn("activity log failed",
				zap.String("project_code", projectCode),
				zap.String("action", e.Action),
				zap.Error(err),
			)
			return
		}
	}

	l.log.Warn("activity log dropped after retries",
		zap.String("project_code", projectCode),
		zap.String("action", e.Action),
	)
}

type Service struct {
	projects ProjectRepository
}

func NewService(projects ProjectRepository) *Service {
	return &Service{projects: projects}
}

// List returns a project's audit trail, newest first.
func (s *Service) List(ctx context.Context, projectCode string, p pagination.Params) ([]domain.Activity, pagination.Meta, error) {
	project, err := s.projects.GetByCode(ctx, projectCode)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	entries := make([]domain.Activity, len(project.Activities))
	copy(entries, project.Activities)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	meta := pagination.NewMeta(int64(len(entries)), p)

	start := p.Offset()
	if start > len(entries) {
		start = len(entries)
	}
	end := start + p.Limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end], meta, nil
}
