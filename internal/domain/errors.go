package domain

import "errors"

// Custom errors
var (
	ErrNotFound           = NewDomainError("not found")
	ErrValidation         = NewDomainError("validation failed")
	ErrBINotFound         = wrapDomainError(ErrNotFound, "BI not found")
	ErrBaseNotFound       = wrapDomainError(ErrNotFound, "Base not found")
	ErrAutomationNotFound = wrapDomainError(ErrNotFound, "Automação not found")
	ErrTaskNotFound       = wrapDomainError(ErrNotFound, "Task not found")
	ErrTicketNotFound     = wrapDomainError(ErrNotFound, "ticket not found")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
	kind    error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match the generic kind (ErrNotFound, ErrValidation).
func (e *DomainError) Unwrap() error {
	return e.kind
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

func wrapDomainError(kind error, message string) *DomainError {
	return &DomainError{Message: message, kind: kind}
}

// NewValidationError builds an error that matches ErrValidation.
func NewValidationError(message string) error {
	return wrapDomainError(ErrValidation, message)
}

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
