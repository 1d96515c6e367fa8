package storage

import "context"

// Repository defines the interface for the per-user storage accumulator
type Repository interface {
	// Get returns the user's storage accumulator, creating a zeroed row if
	// none exists yet
	Get(ctx context.Context, userID int64) (*UserStorage, error)

	// Add adds delta bytes to the user's accumulator, creating the row when
	// absent. Negative deltas are clamped at zero.
	Add(ctx context.Context, userID int64, delta int64) error
}
