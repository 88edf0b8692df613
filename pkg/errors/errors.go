package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeModelUnavailable indicates the trained model artifact is missing.
	// Scoring stays down until the artifact is regenerated by the offline
	// training pipeline; the service never retries on its own.
	ErrorTypeModelUnavailable ErrorType = "MODEL_UNAVAILABLE"

	// ErrorTypeArtifactIncompatible indicates the model artifact exists but
	// cannot be deserialized (corrupt payload or unsupported format version)
	ErrorTypeArtifactIncompatible ErrorType = "ARTIFACT_INCOMPATIBLE"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewModelUnavailableError creates an error for a missing model artifact
func NewModelUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeModelUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewArtifactIncompatibleError creates an error for an undeserializable artifact
func NewArtifactIncompatibleError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeArtifactIncompatible,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
