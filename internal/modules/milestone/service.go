package milestone

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"buildtrack/internal/domain"
	"buildtrack/internal/modules/activity"
	"buildtrack/internal/repository"
)

// casAttempts bounds the optimistic-concurrency retry loop.
const casAttempts = 3

type Service struct {
	projects ProjectRepository
	notifier ProgressNotifier
	cache    CacheInvalidator
}

func NewService(projects ProjectRepository, notifier ProgressNotifier, cache CacheInvalidator) *Service {
	return &Service{
		projects: projects,
		notifier: notifier,
		cache:    cache,
	}
}

// withProject runs mutate against a fresh read of the project and writes the
// result back guarded by the revision, retrying when a concurrent writer got
// there first. The activity entry added inside mutate lands in the same row
// update as the mutation itself.
func (s *Service) withProject(ctx context.Context, code string, mutate func(p *domain.Project) error) (*domain.Project, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		p, err := s.projects.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProjectNotFound
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

func (s *Service) afterMutation(ctx context.Context, p *domain.Project, m *domain.Milestone) {
	if s.cache != nil {
		s.cache.InvalidateProject(ctx, p.ProjectCode)
	}
	if s.notifier != nil && m != nil {
		s.notifier.NotifyProgress(p.ProjectCode, m.ID, m.Status, m.Progress, p.Progress)
	}
}

func (s *Service) Add(ctx context.Context, projectCode string, req AddMilestoneRequest, userID, userName string) (*domain.Milestone, int, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, 0, ErrValidation
	}

	var created domain.Milestone
	p, err := s.withProject(ctx, projectCode, func(p *domain.Project) error {
		for _, m := range p.Milestones {
			if m.Order == req.Order {
				return ErrDuplicateOrder
			}
		}

		created = domain.Milestone{
			ID:          uuid.NewString(),
			Title:       req.Title,
			Description: req.Description,
			Order:       req.Order,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Progress:    0,
			Status:      domain.MilestonePending,
			Photos:      []domain.Photo{},
			Notes:       req.Notes,
		}

		p.Milestones = append(p.Milestones, created)
		p.Progress = ComputeProgress(p.Milestones)

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionMilestoneAdded,
			Description: fmt.Sprintf("Milestone added: %s", created.Title),
			Metadata:    map[string]any{"milestoneId": created.ID, "order": created.Order},
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.afterMutation(ctx, p, &created)
	return &created, p.Progress, nil
}

func (s *Service) Update(ctx context.Context, projectCode, milestoneID string, req UpdateMilestoneRequest, userID, userName string) (*domain.Milestone, int, error) {
	var updated domain.Milestone
	p, err := s.withProject(ctx, projectCode, func(p *domain.Project) error {
		idx := indexOf(p.Milestones, milestoneID)
		if idx < 0 {
			return ErrMilestoneNotFound
		}
		m := &p.Milestones[idx]

		if req.Order != nil && *req.Order != m.Order {
			for _, other := range p.Milestones {
				if other.ID != m.ID && other.Order == *req.Order {
					return ErrDuplicateOrder
				}
			}
			m.Order = *req.Order
		}
		if req.Title != nil {
			m.Title = *req.Title
		}
		if req.Description != nil {
			m.Description = *req.Description
		}
		if req.StartDate != nil {
			m.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			m.EndDate = *req.EndDate
		}
		if req.Notes != nil {
			m.Notes = *req.Notes
		}

		if !m.EndDate.After(m.StartDate) {
			return ErrValidation
		}

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionMilestoneUpdated,
			Description: fmt.Sprintf("Milestone updated: %s", m.Title),
			Metadata:    map[string]any{"milestoneId": m.ID},
		})

		updated = *m
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.afterMutation(ctx, p, nil)
	return &updated, p.Progress, nil
}

// UpdateProgress sets a milestone's progress and, optionally, its status.
// Reaching 100 forces completed and stamps the actual end date once;
// repeated calls on a completed milestone are a no-op rather than a
// re-stamp. Completed is terminal.
func (s *Service) UpdateProgress(ctx context.Context, projectCode, milestoneID string, req UpdateProgressRequest, userID, userName string) (*domain.Milestone, int, error) {
	progress := *req.Progress
	if progress < 0 || progress > 100 {
		return nil, 0, ErrValidation
	}

	var updated domain.Milestone
	p, err := s.withProject(ctx, projectCode, func(p *domain.Project) error {
		idx := indexOf(p.Milestones, milestoneID)
		if idx < 0 {
			return ErrMilestoneNotFound
		}
		m := &p.Milestones[idx]

		wantsCompleted := progress == 100 || (req.Status != nil && domain.MilestoneStatus(*req.Status) == domain.MilestoneCompleted)

		if m.Status == domain.MilestoneCompleted {
			if !wantsCompleted {
				return ErrValidation
			}
			// already terminal, keep the original completion timestamp
			updated = *m
			return nil
		}

		if req.Status != nil {
			next := domain.MilestoneStatus(*req.Status)
			if !next.Valid() {
				return ErrValidation
			}
			if next == domain.MilestoneInProgress && m.ActualStartDate == nil {
				now := time.Now()
				m.ActualStartDate = &now
			}
			m.Status = next
		}

		m.Progress = progress
		if req.Notes != nil {
			m.Notes = *req.Notes
		}

		if wantsCompleted {
			m.Status = domain.MilestoneCompleted
			m.Progress = 100
			if m.ActualEndDate == nil {
				now := time.Now()
				m.ActualEndDate = &now
			}
		}

		p.Progress = ComputeProgress(p.Milestones)

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionMilestoneProgress,
			Description: fmt.Sprintf("Milestone %q progress set to %d%%", m.Title, m.Progress),
			Metadata:    map[string]any{"milestoneId": m.ID, "progress": m.Progress, "status": string(m.Status)},
		})

		updated = *m
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.afterMutation(ctx, p, &updated)
	return &updated, p.Progress, nil
}

func (s *Service) Delete(ctx context.Context, projectCode, milestoneID, userID, userName string) (int, error) {
	p, err := s.withProject(ctx, projectCode, func(p *domain.Project) error {
		idx := indexOf(p.Milestones, milestoneID)
		if idx < 0 {
			return ErrMilestoneNotFound
		}
		title := p.Milestones[idx].Title

		p.Milestones = append(p.Milestones[:idx], p.Milestones[idx+1:]...)
		p.Progress = ComputeProgress(p.Milestones)

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionMilestoneDeleted,
			Description: fmt.Sprintf("Milestone deleted: %s", title),
			Metadata:    map[string]any{"milestoneId": milestoneID},
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.afterMutation(ctx, p, nil)
	return p.Progress, nil
}

func (s *Service) Get(ctx context.Context, projectCode, milestoneID string) (*domain.Milestone, error) {
	p, err := s.projects.GetByCode(ctx, projectCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	idx := indexOf(p.Milestones, milestoneID)
	if idx < 0 {
		return nil, ErrMilestoneNotFound
	}
	m := p.Milestones[idx]
	return &m, nil
}

// List returns milestones in planned execution order. The public tracking
// view sorts chronologically instead; the two orderings are intentionally
// different.
func (s *Service) List(ctx context.Context, projectCode string) ([]domain.Milestone, error) {
	p, err := s.projects.GetByCode(ctx, projectCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	milestones := make([]domain.Milestone, len(p.Milestones))
	copy(milestones, p.Milestones)
	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].Order < milestones[j].Order
	})
	return milestones, nil
}

func (s *Service) AddPhoto(ctx context.Context, projectCode, milestoneID string, req AddPhotoRequest, userID, userName string) (*domain.Photo, error) {
	var created domain.Photo
	p, err := s.withProject(ctx, projectCode, func(p *domain.Project) error {
		idx := indexOf(p.Milestones, milestoneID)
		if idx < 0 {
			return ErrMilestoneNotFound
		}
		m := &p.Milestones[idx]

		created = domain.Photo{
			ID:         uuid.NewString(),
			Filename:   req.Filename,
			URL:        req.URL,
			Caption:    req.Caption,
			UploadedBy: userID,
			UploadedAt: time.Now(),
		}
		m.Photos = append(m.Photos, created)

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionPhotoUploaded,
			Description: fmt.Sprintf("Photo uploaded to milestone %q", m.Title),
			Metadata:    map[string]any{"milestoneId": m.ID, "photoId": created.ID},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, p, nil)
	return &created, nil
}

// ListPhotos returns a milestone's photos, newest first.
func (s *Service) ListPhotos(ctx context.Context, projectCode, milestoneID string) ([]domain.Photo, error) {
	m, err := s.Get(ctx, projectCode, milestoneID)
	if err != nil {
		return nil, err
	}

	photos := make([]domain.Photo, len(m.Photos))
	copy(photos, m.Photos)
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].UploadedAt.After(photos[j].UploadedAt)
	})
	return photos, nil
}

func (s *Service) DeletePhoto(ctx context.Context, projectCode, milestoneID, photoID, userID, userName string) error {
	p, err := s.withProject(ctx, projectCode, func(p *domain.Project) error {
		idx := indexOf(p.Milestones, milestoneID)
		if idx < 0 {
			return ErrMilestoneNotFound
		}
		m := &p.Milestones[idx]

		photoIdx := -1
		for i, ph := range m.Photos {
			if ph.ID == photoID {
				photoIdx = i
				break
			}
		}
		if photoIdx < 0 {
			return ErrPhotoNotFound
		}

		m.Photos = append(m.Photos[:photoIdx], m.Photos[photoIdx+1:]...)

		activity.Append(p, activity.Entry{
			UserID:      userID,
			UserName:    userName,
			Action:      activity.ActionPhotoDeleted,
			Description: fmt.Sprintf("Photo removed from milestone %q", m.Title),
			Metadata:    map[string]any{"milestoneId": m.ID, "photoId": photoID},
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.afterMutation(ctx, p, nil)
	return nil
}

func indexOf(milestones []domain.Milestone, id string) int {
	for i, m := range milestones {
		if m.ID == id {
			return i
		}
	}
	return -1
}
