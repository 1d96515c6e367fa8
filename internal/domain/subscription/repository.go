package subscription

import (
	"context"
	"time"
)

// Repository defines the interface for subscription data access
type Repository interface {
	// Create inserts a new subscription unless the user already holds an
	// active subscription to the same plan. The check and the insert run in
	// one transaction, and a partial unique index on
	// (user_id, plan_id, status=active) backs it against concurrent creates;
	// a duplicate surfaces as a Conflict error either way.
	Create(ctx context.Context, sub *Subscription) error

	// GetByID retrieves a subscription by ID
	GetByID(ctx context.Context, id int64) (*Subscription, error)

	// ListActiveByUser retrieves a user's active subscriptions joined with
	// their plan data. An empty result is a valid state, not an error.
	ListActiveByUser(ctx context.Context, userID int64) ([]*WithPlan, error)

	// CancelByUserPlan cancels the user's active subscriptions to one plan.
	// Returns the number of rows affected; zero is not an error.
	CancelByUserPlan(ctx context.Context, userID, planID int64) (int64, error)

	// CancelAllByUser cancels all of the user's active subscriptions.
	// Returns the number of rows affected; zero is not an error.
	CancelAllByUser(ctx context.Context, userID int64) (int64, error)

	// SetStatus flips a single subscription's status by primary key
	SetStatus(ctx context.Context, id int64, status string) error

	// Renew reactivates a subscription and advances its billing period
	Renew(ctx context.Context, id int64, startsAt, endsAt time.Time) error

	// Delete hard-deletes a subscription by ID
	Delete(ctx context.Context, id int64) error

	// HasActiveEarlyAccess reports whether the user holds an active
	// subscription to a plan flagged for early access
	HasActiveEarlyAccess(ctx context.Context, userID int64) (bool, error)

	// ExpireDue marks active subscriptions whose period ended before now as
	// expired; returns the number of rows affected
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
