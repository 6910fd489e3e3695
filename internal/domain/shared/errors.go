package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a domain error for malformed caller input.
// Validation errors are the caller's fault and are never retried.
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: message,
	}
}

// NewNotFoundError creates a domain error for a missing referenced resource
func NewNotFoundError(message string) *DomainError {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// StorageFault wraps a transient persistence backend failure.
// Callers may retry the whole operation.
type StorageFault struct {
	Op  string
	Err error
}

func (e *StorageFault) Error() string {
	return fmt.Sprintf("storage fault in %s: %v", e.Op, e.Err)
}

func (e *StorageFault) Unwrap() error {
	return e.Err
}

// NewStorageFault wraps err as a storage fault for the given operation
func NewStorageFault(op string, err error) *StorageFault {
	return &StorageFault{Op: op, Err: err}
}

// PublishFault wraps an event bus publish failure. Publish faults never
// unwind already-applied aggregate state changes.
type PublishFault struct {
	EventType string
	Err       error
}

func (e *PublishFault) Error() string {
	return fmt.Sprintf("publish fault for %s: %v", e.EventType, e.Err)
}

func (e *PublishFault) Unwrap() error {
	return e.Err
}

// NewPublishFault wraps err as a publish fault for the given event type
func NewPublishFault(eventType string, err error) *PublishFault {
	return &PublishFault{EventType: eventType, Err: err}
}
