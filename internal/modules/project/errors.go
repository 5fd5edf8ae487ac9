package project

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("project not found")
	ErrConflict   = errors.New("concurrent update conflict")
)
