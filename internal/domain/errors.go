package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthenticated indicates a missing, invalid or expired credential.
	ErrUnauthenticated = errors.New("not authorized to access this route")
	// ErrForbidden indicates the caller is authenticated but may not perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrInvalidOperation indicates a business rule rejected an otherwise well-formed request.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInvalidTransition indicates a booking status change not allowed by the lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict indicates the write would break a uniqueness rule.
	ErrConflict = errors.New("conflict")
	// ErrEmailTaken indicates a registration with an already used email.
	ErrEmailTaken = errors.New("User with this email already exists")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)

// Error pairs a sentinel kind with the message shown to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects field-level failures. It matches ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add records a failure for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns e when it holds at least one failure.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
