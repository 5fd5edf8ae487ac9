package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate struct fields
func Validate(v interface{}) map[string]string {
	return Details(validate.Struct(v))
}

// Details flattens a validation error into field -> failed rule, nil when err
// carries no field-level information.
func Details(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
