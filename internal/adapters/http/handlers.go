package http

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/jsau/apiserver/internal/domain/entities"
)

// CustomValidator wraps the validator and reports the first failing field as
// an *entities.ValidationError
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator installed on the echo instance
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &CustomValidator{validator: v}
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &entities.ValidationError{Field: verrs[0].Field(), Reason: verrs[0].Tag()}
	}
	return &entities.ValidationError{Field: "body", Reason: err.Error()}
}

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
