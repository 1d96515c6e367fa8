package meeting

import (
	"context"

	"github.com/notemeet/notemeet/internal/auth"
)

// Service defines the interface for meeting business logic
type Service interface {
	// Create records a new meeting after checking the owner's remaining
	// meeting allowance
	Create(ctx context.Context, actor auth.Actor, m *Meeting) error

	// Get retrieves a meeting, enforcing ownership
	Get(ctx context.Context, actor auth.Actor, id int64) (*Meeting, error)

	// Delete removes a meeting and releases its recording storage
	Delete(ctx context.Context, actor auth.Actor, id int64) error

	// List retrieves a user's meetings with pagination
	List(ctx context.Context, actor auth.Actor, userID int64, limit, offset int) ([]*Meeting, int64, error)
}
