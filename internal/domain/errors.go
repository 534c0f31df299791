package domain

import "errors"

var (
	// ErrTodoNotFound is returned when no todo has the requested id.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes which input field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
