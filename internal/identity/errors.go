package identity

import "errors"

var (
	// ErrInvalidInput rejects registrations missing an email or password.
	ErrInvalidInput = errors.New("email and password are required")

	// ErrDuplicateEmail indicates the email is already registered. The unique
	// index on users.email is the authority; the service pre-check only makes
	// the common case cheaper.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password so callers cannot probe which addresses are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound indicates no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrConflict indicates a version-guarded update lost to a concurrent
	// writer and must be retried against fresh state.
	ErrConflict = errors.New("user record was modified concurrently")

	// ErrUnavailable indicates the store timed out or the operation was
	// cancelled; callers may retry or report degradation.
	ErrUnavailable = errors.New("user store unavailable")
)
