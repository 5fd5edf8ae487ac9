package milestone

import "time"

type AddMilestoneRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=5000"`
	Order       int       `json:"order" binding:"required,gt=0"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Notes       string    `json:"notes" binding:"max=5000"`
}

type UpdateMilestoneRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Order       *int       `json:"order" binding:"omitempty,gt=0"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Notes       *string    `json:"notes" binding:"omitempty,max=5000"`
}

type UpdateProgressRequest struct {
	Progress *int    `json:"progress" binding:"required,min=0,max=100"`
	Status   *string `json:"status" binding:"omitempty,oneof=pending in_progress completed delayed"`
	Notes    *string `json:"notes" binding:"omitempty,max=5000"`
}

type AddPhotoRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Filename string `json:"filename"`
	Caption  string `json:"caption" binding:"max=500"`
}
