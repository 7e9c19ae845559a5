// Package services implements the business operations behind the HTTP API:
// workflow CRUD and build checks, document ingestion and chat execution.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrWorkflowNameRequired = errors.New("workflow name is required")
	ErrWorkflowNil          = errors.New("workflow cannot be nil")
	ErrEmptyMessage         = errors.New("message content cannot be empty")
	ErrEmptyQuery           = errors.New("search query cannot be empty")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrEmptyDocument        = errors.New("document has no content")
	ErrDocumentNotIngested  = errors.New("document has not been ingested")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrEmptyMessage) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, ErrUnsupportedFileType) ||
		errors.Is(err, ErrEmptyDocument) ||
		errors.Is(err, ErrDocumentNotIngested)
}
