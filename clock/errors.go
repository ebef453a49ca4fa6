/*
errors.go - Centralized error types for the clock engine

PURPOSE:
  All sentinel errors in one place. Not-found conditions never mutate
  state: callers get the sentinel back and nothing changed. Persistence
  failures are surfaced as-is; the engine does not retry.

USAGE:
  if clock.IsNotFound(err) {
      // unknown worker / day / record index
  }
*/
package clock

import "errors"

var (
	// ErrWorkerNotFound is returned for an unknown worker id.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrStateNotFound is returned when no state exists for a worker id.
	ErrStateNotFound = errors.New("worker state not found")

	// ErrDayNotFound is returned when no day log exists for a date.
	ErrDayNotFound = errors.New("day log not found")

	// ErrRecordNotFound is returned for an out-of-range record index.
	ErrRecordNotFound = errors.New("record not found")

	// ErrConcurrentModification is returned when a state save loses an
	// optimistic revision check against another writer.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrInvalidPIN is returned on a failed login attempt.
	ErrInvalidPIN = errors.New("invalid pin")

	// ErrSessionNotFound is returned for an unknown or expired session token.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnauthorized is returned when a session lacks rights for an operation.
	ErrUnauthorized = errors.New("unauthorized")
)

// IsNotFound reports whether err indicates a missing worker, state, day,
// record, or session.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkerNotFound) ||
		errors.Is(err, ErrStateNotFound) ||
		errors.Is(err, ErrDayNotFound) ||
		errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsConflict reports whether err is a lost optimistic-concurrency race.
// Such saves are safe to retry after reloading state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
