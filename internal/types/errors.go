package types

import "errors"

// Sentinel errors shared across the stores. Services wrap these with %w so
// callers can branch with errors.Is while still seeing the full context.
var (
	// ErrNotFound signals an unresolvable place, city, trip, or review
	// reference. Callers degrade to an empty view instead of failing hard.
	ErrNotFound = errors.New("not found")

	// ErrValidation signals rejected input. The operation aborts before any
	// write; no partial state is ever persisted.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUsername signals a registration conflict on the username.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials is returned for any failed login. Unknown user
	// and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
