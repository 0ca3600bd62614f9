package domain

import (
	"errors"
	"sort"
	"strings"
)

// Common domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrTokenInvalid    = errors.New("token invalid")
)

// ValidationError carries field-keyed messages for malformed input
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field message was recorded
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns e when it has messages, nil otherwise
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// AuthorizationError means the caller is authenticated but not allowed
type AuthorizationError struct {
	Reason string
}

// Forbidden creates an AuthorizationError
func Forbidden(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

func (e *AuthorizationError) Error() string {
	return "forbidden: " + e.Reason
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrForbidden
}

// NotFoundError means a referenced resource does not exist
type NotFoundError struct {
	Resource string
}

// NotFound creates a NotFoundError
func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
