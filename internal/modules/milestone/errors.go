package milestone

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicateOrder    = errors.New("milestone order already used")
	ErrProjectNotFound   = errors.New("project not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrConflict          = errors.New("concurrent update conflict")
)
