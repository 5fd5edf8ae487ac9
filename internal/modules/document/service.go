package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"buildtrack/internal/domain"
	"buildtrack/internal/modules/activity"
	"buildtrack/internal/repository"
)

const casAttempts = 3

var (
	ErrValidation       = errors.New("validation error")
	ErrProjectNotFound  = errors.New("project not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrConflict         = errors.New("concurrent update conflict")
)

type ProjectRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	UpdateWithRevision(ctx context.Context, p *domain.Project) error
}

type CacheInvalidator interface {
	InvalidateProject(ctx context.Context, projectCode string)
}

type Service struct {
	projects ProjectRepository
	cache    CacheInvalidator
}

func NewService(projects ProjectRepository, cache CacheInvalidator) *Service {
	return &Service{projects: projects, cache: cache}
}

type UploadRequest struct {
	URL         string `json:"url" binding:"required,url"`
	Filename    string `json:"filename"`
	Description string `json:"description" binding:"max=5000"`
}

func (s *Service) Upload(ctx context.Context, projectCode string, req UploadRequest, userID, userName string) (*domain.Document, error) {
	var created domain.Document
	err := s.mutate(ctx, projectCode, func(p *domain.Project) error {
		created = domain.Document{
			ID:          uuid.NewString(),
			Filename:    req.Filename,
			URL:         req.URL,
			UploadedBy:  userID,
			UploadedAt:  time.Now(),
			Description: req.Description,
		}
		p.Documents = append(p.Documents, created)

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionDocumentUploaded,
			Description: fmt.Sprintf("Document uploaded: %s", displayName(created)),
			Metadata:    map[string]any{"documentId": created.ID},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) List(ctx context.Context, projectCode string) ([]domain.Document, error) {
	p, err := s.projects.GetByCode(ctx, projectCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if p.Documents == nil {
		return []domain.Document{}, nil
	}
	return p.Documents, nil
}

func (s *Service) Delete(ctx context.Context, projectCode, documentID, userID, userName string) error {
	return s.mutate(ctx, projectCode, func(p *domain.Project) error {
		idx := -1
		for i, d := range p.Documents {
			if d.ID == documentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrDocumentNotFound
		}
		removed := p.Documents[idx]

		p.Documents = append(p.Documents[:idx], p.Documents[idx+1:]...)

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionDocumentDeleted,
			Description: fmt.Sprintf("Document deleted: %s", displayName(removed)),
			Metadata:    map[string]any{"documentId": removed.ID},
		})
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, code string, fn func(p *domain.Project) error) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		p, err := s.projects.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		if err := fn(p); err != nil {
			return err
		}

		err = s.projects.UpdateWithRevision(ctx, p)
		if err == nil {
			if s.cache != nil {
				s.cache.InvalidateProject(ctx, code)
			}
			return nil
		}
		if !errors.Is(err, repository.ErrRevisionConflict) {
			return err
		}
	}
	return ErrConflict
}

func displayName(d domain.Document) string {
	if d.Filename != "" {
		return d.Filename
	}
	return d.URL
}
