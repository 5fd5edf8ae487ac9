package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"buildtrack/internal/domain"
	"buildtrack/internal/pkg/pagination"
	"buildtrack/internal/repository"
)

type fakeProjectRepo struct {
	project       *domain.Project
	conflictsLeft int
	writes        int
}

func (r *fakeProjectRepo) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	if r.project == nil || r.project.ProjectCode != code {
		return nil, repository.ErrNotFound
	}
	return r.project, nil
}

func (r *fakeProjectRepo) UpdateWithRevision(ctx context.Context, p *domain.Project) error {
	r.writes++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return repository.ErrRevisionConflict
	}
	r.project = p
	return nil
}

func TestNew_Defaults(t *testing.T) {
	a := New(Entry{})

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "system", a.UserID)
	assert.Equal(t, "system", a.UserName)
	assert.Equal(t, "unknown", a.Action)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestAppend(t *testing.T) {
	p := &domain.Project{ProjectCode: "PRJ-2026-001"}

	a := Append(p, Entry{UserID: "u1", UserName: "Alice", Action: ActionStatusChanged})

	assert.Len(t, p.Activities, 1)
	assert.Equal(t, a.ID, p.Activities[0].ID)
	assert.Equal(t, ActionStatusChanged, p.Activities[0].Action)
}

func TestLogger_MissingProjectIsSwallowed(t *testing.T) {
	repo := &fakeProjectRepo{}
	logger := NewLogger(repo, zap.NewNop())

	// must not panic or error out
	logger.Log(context.Background(), "PRJ-2026-404", Entry{Action: ActionUpdated})
	assert.Equal(t, 0, repo.writes)
}

func TestLogger_RetriesOnConflict(t *testing.T) {
	repo := &fakeProjectRepo{
		project:       &domain.Project{ProjectCode: "PRJ-2026-001"},
		conflictsLeft: 2,
	}
	logger := NewLogger(repo, zap.NewNop())

	logger.Log(context.Background(), "PRJ-2026-001", Entry{UserID: "u1", Action: ActionUpdated})

	assert.Equal(t, 3, repo.writes)
	assert.Len(t, repo.project.Activities, 3) // fake keeps appending on each retry read
}

func TestLogger_GivesUpAfterRetries(t *testing.T) {
	repo := &fakeProjectRepo{
		project:       &domain.Project{ProjectCode: "PRJ-2026-001"},
		conflictsLeft: 10,
	}
	logger := NewLogger(repo, zap.NewNop())

	// exhausts its attempts and drops the entry without failing
	logger.Log(context.Background(), "PRJ-2026-001", Entry{Action: ActionUpdated})
	assert.Equal(t, 3, repo.writes)
}

func TestList_NewestFirstAndPaginated(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &domain.Project{ProjectCode: "PRJ-2026-001"}
	for i := 0; i < 5; i++ {
		p.Activities = append(p.Activities, domain.Activity{
			ID:        string(rune('a' + i)),
			Action:    ActionUpdated,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	svc := NewService(&fakeProjectRepo{project: p})

	entries, meta, err := svc.List(context.Background(), "PRJ-2026-001", pagination.Params{Page: 1, Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "e", entries[0].ID) // most recent
	assert.Equal(t, "d", entries[1].ID)
	assert.Equal(t, int64(5), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)

	entries, _, err = svc.List(context.Background(), "PRJ-2026-001", pagination.Params{Page: 3, Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)

	// past the end returns an empty page, not an error
	entries, _, err = svc.List(context.Background(), "PRJ-2026-001", pagination.Params{Page: 9, Limit: 2})
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
