package project

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"buildtrack/internal/domain"
	"buildtrack/internal/repository"
)

// Mock repositories
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	args := m.Called(ctx, p)
	if p != nil {
		p.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockProjectRepository) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, f repository.ListFilter) ([]domain.Project, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) UpdateWithRevision(ctx context.Context, p *domain.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockProjectRepository) NextProjectSeq(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

func validCreateRequest() CreateProjectRequest {
	start := time.Now().AddDate(0, 0, 7)
	return CreateProjectRequest{
		ProjectName:   "Warehouse extension",
		ProjectType:   "construction",
		CustomerName:  "Dana K.",
		CustomerEmail: "dana@example.com",
		CustomerPhone: "77010001122",
		Budget:        250000,
		StartDate:     start,
		EstimatedEnd:  start.AddDate(0, 6, 0),
	}
}

func TestCreateProject(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "https://track.example.com")

	year := time.Now().Year()
	repo.On("NextProjectSeq", mock.Anything, year).Return(int64(1), nil)

	var stored *domain.Project
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.Project)
	}).Return(nil)

	resp, err := svc.Create(context.Background(), validCreateRequest(), "u1", "Alice")

	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PRJ-%d-001", year), resp.ProjectCode)
	assert.Equal(t, fmt.Sprintf("https://track.example.com/api/v1/projects/track/PRJ-%d-001", year), resp.TrackingURL)

	assert.Equal(t, domain.ProjectPending, stored.Status)
	assert.Equal(t, 0, stored.Progress)
	assert.Empty(t, stored.Milestones)
	assert.Equal(t, "u1", stored.CreatedBy)

	// the creation audit entry goes in with the insert
	assert.Len(t, stored.Activities, 1)
	assert.Equal(t, "created", stored.Activities[0].Action)

	repo.AssertExpectations(t)
}

func TestCreateProject_EndBeforeStart(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "https://track.example.com")

	req := validCreateRequest()
	req.EstimatedEnd = req.StartDate.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), req, "u1", "Alice")

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "NextProjectSeq")
	repo.AssertNotCalled(t, "Create")
}

func TestCreateProject_DuplicateCode(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "https://track.example.com")

	repo.On("NextProjectSeq", mock.Anything, mock.Anything).Return(int64(7), nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("UNIQUE constraint failed: projects.project_code"))

	_, err := svc.Create(context.Background(), validCreateRequest(), "u1", "Alice")

	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetByCode_DerivedTimeline(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "")

	start := time.Now().AddDate(0, -8, 0)
	p := &domain.Project{
		ProjectCode:      "PRJ-2025-010",
		ProjectName:      "Old kitchen refit",
		StartDate:        start,
		EstimatedEndDate: start.AddDate(0, 6, 0), // two months past due
		Status:           domain.ProjectInProgress,
	}
	repo.On("GetByCode", mock.Anything, "PRJ-2025-010").Return(p, nil)

	detail, err := svc.GetByCode(context.Background(), "PRJ-2025-010")

	assert.NoError(t, err)
	assert.Equal(t, 0, detail.DaysRemaining)
	assert.True(t, detail.IsOverdue)
	assert.Greater(t, detail.Duration, 0)

	// a completed project is never flagged overdue
	p.Status = domain.ProjectCompleted
	detail, err = svc.GetByCode(context.Background(), "PRJ-2025-010")
	assert.NoError(t, err)
	assert.False(t, detail.IsOverdue)
}

func TestGetByCode_NotFound(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "")

	repo.On("GetByCode", mock.Anything, "PRJ-2026-404").Return(nil, repository.ErrNotFound)

	_, err := svc.GetByCode(context.Background(), "PRJ-2026-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProject_NoFields(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "")

	p := &domain.Project{
		ProjectCode:      "PRJ-2026-001",
		StartDate:        time.Now(),
		EstimatedEndDate: time.Now().AddDate(0, 1, 0),
	}
	repo.On("GetByCode", mock.Anything, "PRJ-2026-001").Return(p, nil)

	_, err := svc.Update(context.Background(), "PRJ-2026-001", UpdateProjectRequest{}, "u1", "Alice")

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "UpdateWithRevision")
}

func TestUpdateProject_TracksChangedFields(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "")

	p := &domain.Project{
		ProjectCode:      "PRJ-2026-001",
		ProjectName:      "Warehouse extension",
		StartDate:        time.Now(),
		EstimatedEndDate: time.Now().AddDate(0, 1, 0),
	}
	repo.On("GetByCode", mock.Anything, "PRJ-2026-001").Return(p, nil)
	repo.On("UpdateWithRevision", mock.Anything, p).Return(nil)

	name := "Warehouse extension phase 2"
	cost := 120000.0
	updated, err := svc.Update(context.Background(), "PRJ-2026-001", UpdateProjectRequest{ProjectName: &name, ActualCost: &cost}, "u1", "Alice")

	assert.NoError(t, err)
	assert.Equal(t, name, updated.ProjectName)
	assert.Equal(t, cost, updated.ActualCost)

	last := updated.Activities[len(updated.Activities)-1]
	assert.Equal(t, "updated", last.Action)
	assert.ElementsMatch(t, []string{"project_name", "actual_cost"}, last.Metadata["updatedFields"])
}

func TestUpdateStatus(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "")

	p := &domain.Project{
		ProjectCode:      "PRJ-2026-001",
		Status:           domain.ProjectInProgress,
		StartDate:        time.Now().AddDate(0, -1, 0),
		EstimatedEndDate: time.Now().AddDate(0, 1, 0),
	}
	repo.On("GetByCode", mock.Anything, "PRJ-2026-001").Return(p, nil)
	repo.On("UpdateWithRevision", mock.Anything, p).Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), "PRJ-2026-001", "completed", "u1", "Alice")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, updated.Status)
	assert.NotNil(t, updated.ActualEndDate)

	// reopening clears the completion date
	updated, err = svc.UpdateStatus(context.Background(), "PRJ-2026-001", "in_progress", "u1", "Alice")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProjectInProgress, updated.Status)
	assert.Nil(t, updated.ActualEndDate)
}

func TestUpdateStatus_Invalid(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "")

	_, err := svc.UpdateStatus(context.Background(), "PRJ-2026-001", "archived", "u1", "Alice")

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "GetByCode")
}

func TestDeleteProject_NotFound(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo, nil, "")

	repo.On("Delete", mock.Anything, "PRJ-2026-404").Return(repository.ErrNotFound)

	err := svc.Delete(context.Background(), "PRJ-2026-404")
	assert.ErrorIs(t, err, ErrNotFound)
}
