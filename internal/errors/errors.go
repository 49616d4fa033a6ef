package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeConflict   = "CONFLICT"
)

// Domain failures. Each one has a defined fallback; none of them is
// allowed to take the process down.
var (
	// ErrContentGeneration means a generator could not build a challenge,
	// usually because the option domain is smaller than the option count.
	ErrContentGeneration = stderrors.New("content generation failed")
	// ErrInvalidResponseShape marks a response with the wrong arity or type.
	// It is scored as an incorrect answer and never returned to callers.
	ErrInvalidResponseShape = stderrors.New("invalid response shape")
	// ErrPersistence wraps a failed save; logged, never fatal.
	ErrPersistence = stderrors.New("persistence failure")
	// ErrFeedbackUnavailable wraps a failed or timed out feedback call.
	ErrFeedbackUnavailable = stderrors.New("feedback unavailable")
	// ErrInvalidTransition is returned for an event the current state does not accept.
	ErrInvalidTransition = stderrors.New("invalid state transition")
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewConflictError reports an operation the resource's current state rejects.
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
		Err:     err,
	}
}

// ContentGenerationError carries the context of a degenerate content domain.
type ContentGenerationError struct {
	Kind   string
	Level  int
	Domain int
	Needed int
}

func (e *ContentGenerationError) Error() string {
	return fmt.Sprintf("%s level %d: domain of %d values cannot supply %d distinct options",
		e.Kind, e.Level, e.Domain, e.Needed)
}

func (e *ContentGenerationError) Unwrap() error {
	return ErrContentGeneration
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
