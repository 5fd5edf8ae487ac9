package project

import (
	"time"

	"buildtrack/internal/domain"
	"buildtrack/internal/pkg/pagination"
)

type CreateProjectRequest struct {
	ProjectName     string    `json:"project_name" binding:"required,min=5,max=255"`
	Description     string    `json:"description" binding:"max=5000"`
	ProjectType     string    `json:"project_type" binding:"required,oneof=construction furniture"`
	CustomerName    string    `json:"customer_name" binding:"required,min=3,max=255"`
	CustomerEmail   string    `json:"customer_email" binding:"required,email"`
	CustomerPhone   string    `json:"customer_phone" binding:"required,numeric,min=10,max=15"`
	CustomerAddress string    `json:"customer_address" binding:"omitempty,min=10"`
	Budget          float64   `json:"budget" binding:"omitempty,gt=0"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EstimatedEnd    time.Time `json:"estimated_end_date" binding:"required"`
	Notes           string    `json:"notes" binding:"max=5000"`
}

type UpdateProjectRequest struct {
	ProjectName     *string    `json:"project_name" binding:"omitempty,min=5,max=255"`
	Description     *string    `json:"description" binding:"omitempty,max=5000"`
	ProjectType     *string    `json:"project_type" binding:"omitempty,oneof=construction furniture"`
	CustomerName    *string    `json:"customer_name" binding:"omitempty,min=3,max=255"`
	CustomerEmail   *string    `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone   *string    `json:"customer_phone" binding:"omitempty,numeric,min=10,max=15"`
	CustomerAddress *string    `json:"customer_address" binding:"omitempty,min=10"`
	Budget          *float64   `json:"budget" binding:"omitempty,gt=0"`
	ActualCost      *float64   `json:"actual_cost" binding:"omitempty,gte=0"`
	StartDate       *time.Time `json:"start_date"`
	EstimatedEnd    *time.Time `json:"estimated_end_date"`
	Notes           *string    `json:"notes" binding:"omitempty,max=5000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress on_hold completed cancelled"`
}

type CreateProjectResponse struct {
	ProjectCode  string    `json:"project_code"`
	ProjectName  string    `json:"project_name"`
	CustomerName string    `json:"customer_name"`
	StartDate    time.Time `json:"start_date"`
	EstimatedEnd time.Time `json:"estimated_end_date"`
	TrackingURL  string    `json:"tracking_url"`
}

// ProjectDetail is the admin view: the full record plus derived timeline
// fields.
type ProjectDetail struct {
	domain.Project
	Duration      int  `json:"duration"`
	DaysRemaining int  `json:"days_remaining"`
	IsOverdue     bool `json:"is_overdue"`
}

type ListQuery struct {
	Search      string
	Status      string
	ProjectType string
	SortBy      string
	Order       string
	Page        pagination.Params
}
