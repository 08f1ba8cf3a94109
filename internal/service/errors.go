package service

import "errors"

// Sentinel errors shared by all services. Handlers map these to HTTP status
// codes; nothing matches on error strings.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// validationError wraps a human-readable reason under ErrValidation so
// callers can both branch on the class and surface the detail.
func validationError(reason string) error {
	return &wrappedError{msg: reason, sentinel: ErrValidation}
}

// notFoundError tags a missing-entity message with ErrNotFound.
func notFoundError(what string) error {
	return &wrappedError{msg: what + " not found", sentinel: ErrNotFound}
}

// backendError hides a downstream failure behind ErrBackendUnavailable;
// the cause stays available for logging via Unwrap chains.
func backendError(msg string, cause error) error {
	return &wrappedError{msg: msg, sentinel: ErrBackendUnavailable, cause: cause}
}

type wrappedError struct {
	msg      string
	sentinel error
	cause    error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *wrappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}
