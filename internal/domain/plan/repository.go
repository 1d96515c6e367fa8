package plan

import "context"

// Repository defines the interface for plan catalog data access
type Repository interface {
	// Create creates a new plan
	Create(ctx context.Context, p *Plan) error

	// GetByID retrieves a plan by ID
	GetByID(ctx context.Context, id int64) (*Plan, error)

	// Update updates a plan
	Update(ctx context.Context, p *Plan) error

	// Delete deletes a plan
	Delete(ctx context.Context, id int64) error

	// List retrieves plans; publicOnly restricts to active public catalog entries
	List(ctx context.Context, publicOnly bool) ([]*Plan, error)
}
