package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackendUnavailable indicates the storage backend is not reachable
	// or rejected the operation. Callers surface it as a single message;
	// there is no automatic failover to another backend.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// ValidationError carries every field problem found in a submitted entry.
// All checks run before any persistence call, so a ValidationError always
// means no state change occurred.
type ValidationError struct {
	// Problems holds one human-readable message per failed check.
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid entry"
	}
	return fmt.Sprintf("invalid entry: %s", strings.Join(e.Problems, "; "))
}

// AsValidationError returns the ValidationError wrapped in err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
