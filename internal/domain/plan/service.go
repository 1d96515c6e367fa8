package plan

import "context"

// Service defines the interface for plan catalog business logic
type Service interface {
	// List retrieves plans; publicOnly restricts to the public catalog
	List(ctx context.Context, publicOnly bool) ([]*Plan, error)

	// GetByID retrieves a plan by ID
	GetByID(ctx context.Context, id int64) (*Plan, error)

	// Create creates a new catalog plan
	Create(ctx context.Context, p *Plan) error

	// Update updates a catalog plan
	Update(ctx context.Context, p *Plan) error

	// Delete removes a plan from the catalog
	Delete(ctx context.Context, id int64) error
}
