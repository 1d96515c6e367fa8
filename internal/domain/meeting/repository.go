package meeting

import "context"

// Repository defines the interface for meeting data access
type Repository interface {
	// Create creates a new meeting
	Create(ctx context.Context, m *Meeting) error

	// GetByID retrieves a meeting by ID
	GetByID(ctx context.Context, id int64) (*Meeting, error)

	// Delete deletes a meeting
	Delete(ctx context.Context, id int64) error

	// ListByUser retrieves a user's meetings with pagination
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Meeting, int64, error)

	// CountByUser returns the number of meetings a user owns
	CountByUser(ctx context.Context, userID int64) (int64, error)
}
