package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buildtrack/internal/domain"
	"buildtrack/internal/modules/activity"
	"buildtrack/internal/pkg/dateutil"
	"buildtrack/internal/pkg/pagination"
	"buildtrack/internal/repository"
)

const casAttempts = 3

type Service struct {
	projects ProjectRepository
	cache    CacheInvalidator
	// publicBaseURL is prepended to customer tracking links.
	publicBaseURL string
}

func NewService(projects ProjectRepository, cache CacheInvalidator, publicBaseURL string) *Service {
	return &Service{
		projects:      projects,
		cache:         cache,
		publicBaseURL: publicBaseURL,
	}
}

func (s *Service) Create(ctx context.Context, req CreateProjectRequest, userID, userName string) (*CreateProjectResponse, error) {
	if !req.EstimatedEnd.After(req.StartDate) {
		return nil, ErrValidation
	}

	year := time.Now().Year()
	seq, err := s.projects.NextProjectSeq(ctx, year)
	if err != nil {
		return nil, err
	}
	code := FormatProjectCode(year, seq)

	p := &domain.Project{
		ProjectCode:      code,
		ProjectName:      req.ProjectName,
		Description:      req.Description,
		ProjectType:      domain.ProjectType(req.ProjectType),
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		CustomerAddress:  req.CustomerAddress,
		Budget:           req.Budget,
		StartDate:        req.StartDate,
		EstimatedEndDate: req.EstimatedEnd,
		Status:           domain.ProjectPending,
		Progress:         0,
		Notes:            req.Notes,
		CreatedBy:        userID,
		CreatedByName:    userName,
		Milestones:       domain.MilestoneList{},
		Documents:        domain.DocumentList{},
	}

	// the creation entry rides along in the insert itself
	activity.Append(p, activity.Entry{
		UserID:      userID,
		UserName:    userName,
		Action:      activity.ActionCreated,
		Description: fmt.Sprintf("Project created by %s", userName),
	})

	if err := s.projects.Create(ctx, p); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return &CreateProjectResponse{
		ProjectCode:  p.ProjectCode,
		ProjectName:  p.ProjectName,
		CustomerName: p.CustomerName,
		StartDate:    p.StartDate,
		EstimatedEnd: p.EstimatedEndDate,
		TrackingURL:  fmt.Sprintf("%s/api/v1/projects/track/%s", s.publicBaseURL, p.ProjectCode),
	}, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Project, pagination.Meta, error) {
	projects, total, err := s.projects.List(ctx, repository.ListFilter{
		Search:      q.Search,
		Status:      q.Status,
		ProjectType: q.ProjectType,
		SortBy:      q.SortBy,
		Order:       q.Order,
		Limit:       q.Page.Limit,
		Offset:      q.Page.Offset(),
	})
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return projects, pagination.NewMeta(total, q.Page), nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*ProjectDetail, error) {
	p, err := s.projects.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	daysRemaining := dateutil.DaysRemaining(p.EstimatedEndDate, now)
	return &ProjectDetail{
		Project:       *p,
		Duration:      dateutil.DurationDays(p.StartDate, p.EstimatedEndDate),
		DaysRemaining: daysRemaining,
		IsOverdue:     daysRemaining == 0 && p.Status != domain.ProjectCompleted,
	}, nil
}

func (s *Service) Update(ctx context.Context, code string, req UpdateProjectRequest, userID, userName string) (*domain.Project, error) {
	p, err := s.withProject(ctx, code, func(p *domain.Project) error {
		fields := applyUpdate(p, req)
		if len(fields) == 0 {
			return ErrValidation
		}
		if !p.EstimatedEndDate.After(p.StartDate) {
			return ErrValidation
		}

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionUpdated,
			Description: fmt.Sprintf("Project updated by %s", userName),
			Metadata:    map[string]any{"updatedFields": fields},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateProject(ctx, code)
	}
	return p, nil
}

func (s *Service) UpdateStatus(ctx context.Context, code, status, userID, userName string) (*domain.Project, error) {
	next := domain.ProjectStatus(status)
	if !next.Valid() {
		return nil, ErrValidation
	}

	p, err := s.withProject(ctx, code, func(p *domain.Project) error {
		p.Status = next
		if next == domain.ProjectCompleted {
			now := time.Now()
			p.ActualEndDate = &now
		} else {
			p.ActualEndDate = nil
		}

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionStatusChanged,
			Description: fmt.Sprintf("Project status changed to %s", status),
			Metadata:    map[string]any{"newStatus": status},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateProject(ctx, code)
	}
	return p, nil
}

// Delete removes the project row; the embedded milestones, documents and
// activities go with it.
func (s *Service) Delete(ctx context.Context, code string) error {
	err := s.projects.Delete(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateProject(ctx, code)
	}
	return nil
}

func (s *Service) withProject(ctx context.Context, code string, mutate func(p *domain.Project) error) (*domain.Project, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		p, err := s.projects.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		if err := mutate(p); err != nil {
			return nil, err
		}

		err = s.projects.UpdateWithRevision(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrRevisionConflict) {
			return nil, err
		}
	}
	return nil, ErrConflict
}

func applyUpdate(p *domain.Project, req UpdateProjectRequest) []string {
	var fields []string

	if req.ProjectName != nil {
		p.ProjectName = *req.ProjectName
		fields = append(fields, "project_name")
	}
	if req.Description != nil {
		p.Description = *req.Description
		fields = append(fields, "description")
	}
	if req.ProjectType != nil {
		p.ProjectType = domain.ProjectType(*req.ProjectType)
		fields = append(fields, "project_type")
	}
	if req.CustomerName != nil {
		p.CustomerName = *req.CustomerName
		fields = append(fields, "customer_name")
	}
	if req.CustomerEmail != nil {
		p.CustomerEmail = *req.CustomerEmail
		fields = append(fields, "customer_email")
	}
	if req.CustomerPhone != nil {
		p.CustomerPhone = *req.CustomerPhone
		fields = append(fields, "customer_phone")
	}
	if req.CustomerAddress != nil {
		p.CustomerAddress = *req.CustomerAddress
		fields = append(fields, "customer_address")
	}
	if req.Budget != nil {
		p.Budget = *req.Budget
		fields = append(fields, "budget")
	}
	if req.ActualCost != nil {
		p.ActualCost = *req.ActualCost
		fields = append(fields, "actual_cost")
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
		fields = append(fields, "start_date")
	}
	if req.EstimatedEnd != nil {
		p.EstimatedEndDate = *req.EstimatedEnd
		fields = append(fields, "estimated_end_date")
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
		fields = append(fields, "notes")
	}

	return fields
}
