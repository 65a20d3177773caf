package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict: customer already exists")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")
	ErrNoIDs           = errors.New("at least one id is required")

	// ErrPublisherClosed is returned when a notification is published after shutdown began.
	ErrPublisherClosed = errors.New("notification publisher is closed")
	// ErrQueueClosed is returned by the bounded queue once Close has been called.
	ErrQueueClosed = errors.New("queue is closed")
)

// IsClientError reports whether err was caused by the caller rather than the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNoIDs)
}
