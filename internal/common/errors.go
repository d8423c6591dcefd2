// Package common defines shared constants, helpers and sentinel errors used
// across LiftLog components. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorBadRequest   = errors.New("bad request")
	ErrorValidation   = errors.New("validation error")

	// Infrastructure errors.
	ErrorStorage      = errors.New("storage failure")
	ErrorPasswordHash = errors.New("password hash failure")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError wraps ErrorValidation with a client-facing reason.
func ValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrorValidation, reason)
}

// BadRequestError wraps ErrorBadRequest with a client-facing reason.
func BadRequestError(reason string) error {
	return fmt.Errorf("%w: %s", ErrorBadRequest, reason)
}

// passthrough are the sentinels StorageError leaves alone.
var passthrough = []error{
	ErrorNotFound, ErrorConflict, ErrorStorage,
	ErrorValidation, ErrorBadRequest, ErrorForbidden, ErrorUnauthorized,
	ErrorPasswordHash, ErrorInternal,
}

// StorageError marks err as a storage failure unless it already carries a
// domain sentinel that callers are expected to branch on.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range passthrough {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrorStorage, err)
}

// Reason extracts the client-facing part of a validation or bad-request
// error ("validation error: name is required" -> "name is required").
func Reason(err error) string {
	for _, sentinel := range []error{ErrorValidation, ErrorBadRequest} {
		prefix := sentinel.Error() + ": "
		msg := err.Error()
		if errors.Is(err, sentinel) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return err.Error()
}
