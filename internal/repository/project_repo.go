package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"buildtrack/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrRevisionConflict means a concurrent writer changed the project row
	// between our read and our write.
	ErrRevisionConflict = errors.New("revision conflict")
)

// IsUniqueViolation reports whether err is a unique-constraint violation on
// either backing store.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	var p domain.Project
	tx := r.db.WithContext(ctx).Where("project_code = ?", code).First(&p)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &p, nil
}

type ListFilter struct {
	Search      string
	Status      string
	ProjectType string
	SortBy      string
	Order       string
	Limit       int
	Offset      int
}

var sortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"project_name": "project_name",
	"start_date":   "start_date",
	"progress":     "progress",
}

func (r *ProjectRepository) List(ctx context.Context, f ListFilter) ([]domain.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Project{})

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(project_code) LIKE ? OR LOWER(project_name) LIKE ? OR LOWER(customer_name) LIKE ?",
			like, like, like,
		)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ProjectType != "" {
		q = q.Where("project_type = ?", f.ProjectType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}

	var projects []domain.Project
	tx := q.Order(col + " " + dir).Limit(f.Limit).Offset(f.Offset).Find(&projects)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return projects, total, nil
}

// UpdateWithRevision writes back the full mutable state of a project, but only
// if nobody else has written since the caller read it. On success the
// in-memory revision is bumped to match the stored row.
func (r *ProjectRepository) UpdateWithRevision(ctx context.Context, p *domain.Project) error {
	prev := p.Revision
	now := time.Now()

	tx := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("project_code = ? AND revision = ?", p.ProjectCode, prev).
		Updates(map[string]any{
			"project_name":       p.ProjectName,
			"description":        p.Description,
			"project_type":       p.ProjectType,
			"customer_name":      p.CustomerName,
			"customer_email":     p.CustomerEmail,
			"customer_phone":     p.CustomerPhone,
			"customer_address":   p.CustomerAddress,
			"budget":             p.Budget,
			"actual_cost":        p.ActualCost,
			"start_date":         p.StartDate,
			"estimated_end_date": p.EstimatedEndDate,
			"actual_end_date":    p.ActualEndDate,
			"status":             p.Status,
			"progress":           p.Progress,
			"notes":              p.Notes,
			"milestones":         p.Milestones,
			"documents":          p.Documents,
			"activities":         p.Activities,
			"revision":           prev + 1,
			"updated_at":         now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRevisionConflict
	}

	p.Revision = prev + 1
	p.UpdatedAt = now
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, code string) error {
	tx := r.db.WithContext(ctx).Where("project_code = ?", code).Delete(&domain.Project{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NextProjectSeq atomically increments and returns the per-year sequence used
// for project codes. The increment happens server-side, so concurrent
// creations never see the same value.
func (r *ProjectRepository) NextProjectSeq(ctx context.Context, year int) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctr := domain.ProjectCounter{Year: year, Seq: 0}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ctr).Error; err != nil {
			return err
		}
		return tx.Raw(
			"UPDATE project_counters SET seq = seq + 1 WHERE year = ? RETURNING seq",
			year,
		).Scan(&seq).Error
	})
	return seq, err
}

type StatusCount struct {
	Status string
	Count  int64
}

type TypeCount struct {
	ProjectType string
	Count       int64
}

func (r *ProjectRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	tx := r.db.WithContext(ctx).Model(&domain.Project{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows)
	return rows, tx.Error
}

func (r *ProjectRepository) CountByType(ctx context.Context) ([]TypeCount, error) {
	var rows []TypeCount
	tx := r.db.WithContext(ctx).Model(&domain.Project{}).
		Select("project_type, COUNT(*) AS count").
		Group("project_type").
		Scan(&rows)
	return rows, tx.Error
}

func (r *ProjectRepository) Recent(ctx context.Context, limit int) ([]domain.Project, error) {
	var projects []domain.Project
	tx := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&projects)
	return projects, tx.Error
}
