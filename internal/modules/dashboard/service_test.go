package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"buildtrack/internal/domain"
	"buildtrack/internal/repository"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockProjectRepository) CountByType(ctx context.Context) ([]repository.TypeCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TypeCount), args.Error(1)
}

func (m *MockProjectRepository) Recent(ctx context.Context, limit int) ([]domain.Project, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func TestStats(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo)

	repo.On("CountByStatus", mock.Anything).Return([]repository.StatusCount{
		{Status: "in_progress", Count: 4},
		{Status: "completed", Count: 2},
		{Status: "pending", Count: 1},
		{Status: "on_hold", Count: 1},
	}, nil)
	repo.On("CountByType", mock.Anything).Return([]repository.TypeCount{
		{ProjectType: "construction", Count: 6},
		{ProjectType: "furniture", Count: 2},
	}, nil)
	repo.On("Recent", mock.Anything, 5).Return([]domain.Project{
		{ProjectCode: "PRJ-2026-008", ProjectName: "Lakeside residence", Status: domain.ProjectInProgress, Progress: 40},
	}, nil)

	stats, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(8), stats.Overview.TotalProjects)
	assert.Equal(t, int64(4), stats.Overview.ActiveProjects)
	assert.Equal(t, int64(2), stats.Overview.CompletedProjects)
	assert.Equal(t, int64(1), stats.Overview.PendingProjects)
	assert.Equal(t, int64(1), stats.ProjectsByStatus["on_hold"])
	assert.Equal(t, int64(6), stats.ProjectsByType["construction"])
	assert.Len(t, stats.RecentProjects, 1)
	assert.Equal(t, "PRJ-2026-008", stats.RecentProjects[0].ProjectCode)

	repo.AssertExpectations(t)
}

func TestStats_Empty(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo)

	repo.On("CountByStatus", mock.Anything).Return([]repository.StatusCount{}, nil)
	repo.On("CountByType", mock.Anything).Return([]repository.TypeCount{}, nil)
	repo.On("Recent", mock.Anything, 5).Return([]domain.Project{}, nil)

	stats, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.Overview.TotalProjects)
	assert.NotNil(t, stats.RecentProjects)
	assert.Empty(t, stats.RecentProjects)
}

func TestStats_RepositoryError(t *testing.T) {
	repo := new(MockProjectRepository)
	svc := NewService(repo)

	repo.On("CountByStatus", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}
