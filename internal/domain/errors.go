package domain

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrPersistence      = errors.New("persistence failed")
	ErrGenerationFailed = errors.New("generation failed")
)

// ValidationError carries field-level messages keyed by field path
// ("questions.0.question"). Fields may be empty for whole-payload errors.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for field, msg := range e.Fields {
			return fmt.Sprintf("%s: %s: %s", e.Message, field, msg)
		}
	}
	if len(e.Fields) > 1 {
		return fmt.Sprintf("%s: %d fields invalid", e.Message, len(e.Fields))
	}
	return e.Message
}

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error   { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Message: "Validation failed",
		Fields:  map[string]string{field: message},
	}
}

// NotFoundError indicates a resource was not found or is not owned by the caller.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string   { return e.Message }
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error   { return ErrNotFound }

// UnauthorizedError indicates missing or rejected credentials. Code is an
// optional machine-readable hint for the client (e.g. EMAIL_NOT_CONFIRMED).
type UnauthorizedError struct {
	Message string
	Code    string
}

func (e *UnauthorizedError) Error() string   { return e.Message }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *UnauthorizedError) Unwrap() error   { return ErrUnauthorized }

// PersistenceError means the store rejected a write. The operation performed no
// partial changes.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) StatusCode() int { return http.StatusUnprocessableEntity }

// Is allows errors.Is() to match against ErrPersistence while Unwrap exposes the cause.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
func (e *PersistenceError) Unwrap() error        { return e.Err }

// GenerationError is returned when a generation attempt fails upstream. The
// attempt is already recorded under LogID.
type GenerationError struct {
	LogID uuid.UUID
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s failed: %v", e.LogID, e.Cause)
}

func (e *GenerationError) StatusCode() int { return http.StatusBadGateway }
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}
func (e *GenerationError) Unwrap() error { return e.Cause }

// ConflictError represents a resource conflict.
type ConflictError struct {
	Message string
	Code    string
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
