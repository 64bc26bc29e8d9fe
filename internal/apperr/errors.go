// Package apperr defines the error taxonomy shared by services and the
// HTTP layer. Services return these; handlers map them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap with %w so callers can errors.Is them.
var (
	// ErrUnauthorized means the caller could not be identified
	// (unknown API key, missing or invalid bearer token).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is known but lacks access
	// (not a member of the project's team).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the referenced project does not exist.
	ErrNotFound = errors.New("not found")
)

// Issue is one validation failure, addressed by its item path
// (e.g. "3.userId").
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports a malformed ingestion payload. Validation is
// all-or-nothing: the batch is rejected as a whole and Issues itemizes
// every failing field.
type ValidationError struct {
	Message string  `json:"message"`
	Issues  []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%d issues)", e.Message, len(e.Issues))
}

// StorageError wraps an underlying store failure. It is surfaced to the
// caller as a generic failure and never retried internally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
