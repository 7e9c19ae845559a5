package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrDocumentNotFound indicates a document was not found by the given identifier.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrChatNotFound indicates a chat was not found by the given identifier.
	ErrChatNotFound = errors.New("chat not found")
)

// OpError wraps a repository failure with the operation and entity that
// produced it.
type OpError struct {
	Op       string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	EntityID string // Entity identifier if applicable
	Err      error  // Underlying error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s operation failed for %s: %v", e.Op, e.EntityID, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func (e *OpError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOpError creates a new operation error with context.
func NewOpError(op, entityID string, err error) *OpError {
	return &OpError{
		Op:       op,
		EntityID: entityID,
		Err:      err,
	}
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsDocumentNotFound checks if an error indicates a document was not found.
func IsDocumentNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}

// IsChatNotFound checks if an error indicates a chat was not found.
func IsChatNotFound(err error) bool {
	return errors.Is(err, ErrChatNotFound)
}
