package domain

import "time"

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

type ProjectType string

const (
	TypeConstruction ProjectType = "construction"
	TypeFurniture    ProjectType = "furniture"
)

func (t ProjectType) Valid() bool {
	return t == TypeConstruction || t == TypeFurniture
}

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneDelayed    MilestoneStatus = "delayed"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted, MilestoneDelayed:
		return true
	}
	return false
}

// Project is the aggregate root. Milestones, documents and activities live
// inside the project row as JSON columns, so a single row update covers the
// whole aggregate.
type Project struct {
	ID          int64       `json:"id"`
	ProjectCode string      `json:"project_code" gorm:"uniqueIndex"`
	ProjectName string      `json:"project_name"`
	Description string      `json:"description,omitempty" gorm:"type:text"`
	ProjectType ProjectType `json:"project_type"`

	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty" gorm:"type:text"`

	Budget     float64 `json:"budget,omitempty"`
	ActualCost float64 `json:"actual_cost,omitempty"`

	StartDate        time.Time  `json:"start_date"`
	EstimatedEndDate time.Time  `json:"estimated_end_date"`
	ActualEndDate    *time.Time `json:"actual_end_date,omitempty"`

	Status   ProjectStatus `json:"status"`
	Progress int           `json:"progress"`
	Notes    string        `json:"notes,omitempty" gorm:"type:text"`

	CreatedBy     string `json:"-"`
	CreatedByName string `json:"-"`

	// Revision guards read-modify-write updates on the embedded collections.
	Revision int64 `json:"-"`

	Milestones MilestoneList `json:"milestones" gorm:"type:json"`
	Documents  DocumentList  `json:"documents" gorm:"type:json"`
	Activities ActivityList  `json:"-" gorm:"type:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Milestone struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// Order defines the planned execution sequence, unique within a project.
	Order int `json:"order"`

	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	ActualStartDate *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate   *time.Time `json:"actual_end_date,omitempty"`

	Progress int             `json:"progress"`
	Status   MilestoneStatus `json:"status"`
	Photos   []Photo         `json:"photos"`
	Notes    string          `json:"notes,omitempty"`
}

type Photo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename,omitempty"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption,omitempty"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename,omitempty"`
	URL         string    `json:"url"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Description string    `json:"description,omitempty"`
}

// Activity is an immutable audit entry. Entries are only ever appended.
type Activity struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	UserName    string         `json:"user_name"`
	Action      string         `json:"action"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ProjectCounter holds the per-year sequence used for project codes.
type ProjectCounter struct {
	Year int   `json:"year" gorm:"primaryKey"`
	Seq  int64 `json:"seq"`
}
