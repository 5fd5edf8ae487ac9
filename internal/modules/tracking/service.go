package tracking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"buildtrack/internal/domain"
	"buildtrack/internal/pkg/dateutil"
	"buildtrack/internal/repository"
)

var ErrNotFound = errors.New("project not found")

type ProjectRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
}

// ViewCache is the read side of the tracking cache; lookups and stores are
// best-effort.
type ViewCache interface {
	GetTrack(ctx context.Context, code string, dst any) bool
	SetTrack(ctx context.Context, code string, v any)
	GetSummary(ctx context.Context, code string, dst any) bool
	SetSummary(ctx context.Context, code string, v any)
}

type Service struct {
	projects ProjectRepository
	cache    ViewCache
}

func NewService(projects ProjectRepository, cache ViewCache) *Service {
	return &Service{projects: projects, cache: cache}
}

// Track builds the public projection of a project: identity, computed
// timeline, and milestones in chronological order (the admin API sorts by
// planned order instead; the difference is deliberate).
func (s *Service) Track(ctx context.Context, projectCode string) (*TrackingView, error) {
	if s.cache != nil {
		var cached TrackingView
		if s.cache.GetTrack(ctx, projectCode, &cached) {
			return &cached, nil
		}
	}

	p, err := s.projects.GetByCode(ctx, projectCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	view := buildTrackingView(p, time.Now())

	if s.cache != nil {
		s.cache.SetTrack(ctx, projectCode, view)
	}
	return view, nil
}

func (s *Service) Summary(ctx context.Context, projectCode string) (*Summary, error) {
	if s.cache != nil {
		var cached Summary
		if s.cache.GetSummary(ctx, projectCode, &cached) {
			return &cached, nil
		}
	}

	p, err := s.projects.GetByCode(ctx, projectCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	summary := &Summary{
		ProjectCode:      p.ProjectCode,
		ProjectName:      p.ProjectName,
		ProjectType:      string(p.ProjectType),
		Status:           string(p.Status),
		Progress:         p.Progress,
		StartDate:        p.StartDate,
		EstimatedEndDate: p.EstimatedEndDate,
	}

	if s.cache != nil {
		s.cache.SetSummary(ctx, projectCode, summary)
	}
	return summary, nil
}

func buildTrackingView(p *domain.Project, now time.Time) *TrackingView {
	daysRemaining := dateutil.DaysRemaining(p.EstimatedEndDate, now)

	completed := 0
	for _, m := range p.Milestones {
		if m.Status == domain.MilestoneCompleted {
			completed++
		}
	}

	milestones := make([]TrackedMilestone, 0, len(p.Milestones))
	for _, m := range p.Milestones {
		milestones = append(milestones, projectMilestone(m))
	}
	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].StartDate.Before(milestones[j].StartDate)
	})

	return &TrackingView{
		ProjectInfo: ProjectInfo{
			ProjectCode:      p.ProjectCode,
			ProjectName:      p.ProjectName,
			Description:      p.Description,
			ProjectType:      string(p.ProjectType),
			CustomerName:     p.CustomerName,
			Status:           string(p.Status),
			Progress:         p.Progress,
			StartDate:        p.StartDate,
			EstimatedEndDate: p.EstimatedEndDate,
			ActualEndDate:    p.ActualEndDate,
			CreatedAt:        p.CreatedAt,
			UpdatedAt:        p.UpdatedAt,
		},
		Timeline: Timeline{
			Duration:            dateutil.DurationDays(p.StartDate, p.EstimatedEndDate),
			DaysRemaining:       daysRemaining,
			IsOverdue:           daysRemaining == 0 && p.Status != domain.ProjectCompleted,
			CompletedMilestones: completed,
			TotalMilestones:     len(p.Milestones),
			MilestoneProgress:   fmt.Sprintf("%d/%d", completed, len(p.Milestones)),
		},
		Milestones: milestones,
	}
}

// projectMilestone strips a milestone down to its public fields. Admin notes
// stay out; photos come back newest first.
func projectMilestone(m domain.Milestone) TrackedMilestone {
	photos := make([]TrackedPhoto, 0, len(m.Photos))
	for _, ph := range m.Photos {
		photos = append(photos, TrackedPhoto{
			ID:         ph.ID,
			URL:        ph.URL,
			Caption:    ph.Caption,
			UploadedAt: ph.UploadedAt,
		})
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].UploadedAt.After(photos[j].UploadedAt)
	})

	return TrackedMilestone{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Order:           m.Order,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		ActualStartDate: m.ActualStartDate,
		ActualEndDate:   m.ActualEndDate,
		Progress:        m.Progress,
		Status:          string(m.Status),
		Photos:          photos,
	}
}
