package server

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/Ravishyamsingh/Drone-Service/internal/errors"
)

// requestValidator adapts go-playground/validator to echo's Validator
// interface, mapping failures to structured validation errors.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apperrors.ValidationError(err.Error())
	}
	return nil
}
