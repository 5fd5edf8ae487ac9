package tracking

import "time"

// The tracking view is the reduced public projection of a project. It never
// carries customer contact details beyond the name, internal user ids, or
// admin notes.

type TrackingView struct {
	ProjectInfo ProjectInfo        `json:"projectInfo"`
	Timeline    Timeline           `json:"timeline"`
	Milestones  []TrackedMilestone `json:"milestones"`
}

type ProjectInfo struct {
	ProjectCode      string     `json:"project_code"`
	ProjectName      string     `json:"project_name"`
	Description      string     `json:"description,omitempty"`
	ProjectType      string     `json:"project_type"`
	CustomerName     string     `json:"customer_name"`
	Status           string     `json:"status"`
	Progress         int        `json:"progress"`
	StartDate        time.Time  `json:"start_date"`
	EstimatedEndDate time.Time  `json:"estimated_end_date"`
	ActualEndDate    *time.Time `json:"actual_end_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Timeline struct {
	Duration            int    `json:"duration"`
	DaysRemaining       int    `json:"daysRemaining"`
	IsOverdue           bool   `json:"isOverdue"`
	CompletedMilestones int    `json:"completedMilestones"`
	TotalMilestones     int    `json:"totalMilestones"`
	MilestoneProgress   string `json:"milestoneProgress"`
}

type TrackedMilestone struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Order           int            `json:"order"`
	StartDate       time.Time      `json:"start_date"`
	EndDate         time.Time      `json:"end_date"`
	ActualStartDate *time.Time     `json:"actual_start_date,omitempty"`
	ActualEndDate   *time.Time     `json:"actual_end_date,omitempty"`
	Progress        int            `json:"progress"`
	Status          string         `json:"status"`
	Photos          []TrackedPhoto `json:"photos"`
}

type TrackedPhoto struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Summary struct {
	ProjectCode      string    `json:"project_code"`
	ProjectName      string    `json:"project_name"`
	ProjectType      string    `json:"project_type"`
	Status           string    `json:"status"`
	Progress         int       `json:"progress"`
	StartDate        time.Time `json:"start_date"`
	EstimatedEndDate time.Time `json:"estimated_end_date"`
}
