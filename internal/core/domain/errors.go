package domain

import "errors"

// Error kinds surfaced to callers. Handlers branch on these with errors.Is
// to pick the right status code and recovery hint.
var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("invalid input")

	// ErrConflict marks a duplicate registration.
	ErrConflict = errors.New("already exists")

	// ErrNotFound marks an absent lookup or delete target.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a mutation attempted without a resolved identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorage marks an unreachable or timed-out backing store.
	ErrStorage = errors.New("storage unavailable")
)
