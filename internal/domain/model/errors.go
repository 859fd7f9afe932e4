package model

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared by every layer. Adapters wrap them with context via
// fmt.Errorf("...: %w", err); callers classify with errors.Is.
var (
	// ErrAuthFailed indicates the credentials were rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrWriteDenied indicates a write was attempted without an active session
	// or was refused by the store.
	ErrWriteDenied = errors.New("write denied")

	// ErrStoreUnavailable indicates a transport or configuration failure
	// talking to the catalog store.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrValidation indicates a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrPartialBatch indicates a seed batch stopped partway. Records created
	// before the failure remain in the store.
	ErrPartialBatch = errors.New("seed batch incomplete")

	// ErrNotFound indicates the requested service does not exist.
	ErrNotFound = errors.New("service not found")
)

// ValidationError lists the fields that failed validation, keyed by form field
// name. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// Add records a problem with a field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// Empty reports whether no field problems were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AuthError carries a displayable reason for a rejected login. It matches
// ErrAuthFailed under errors.Is.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "failed to log in: " + e.Reason
}

func (e *AuthError) Unwrap() error { return ErrAuthFailed }
