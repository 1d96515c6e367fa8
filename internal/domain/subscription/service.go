package subscription

import (
	"context"
	"time"

	"github.com/notemeet/notemeet/internal/auth"
)

// Service defines the interface for subscription business logic. Operations
// that target a user's data take an explicit Actor; callers must be the user
// themselves or hold the admin role.
type Service interface {
	// UserSubscriptions returns the target user's active subscriptions with
	// plan data. Fails NotFound when the user does not exist.
	UserSubscriptions(ctx context.Context, actor auth.Actor, userID int64) ([]*WithPlan, error)

	// TotalLimits sums allowances across all of the user's active
	// subscriptions. Multiple concurrent plans stack additively.
	TotalLimits(ctx context.Context, actor auth.Actor, userID int64) (Limits, error)

	// RemainingLimits subtracts actual consumption (meeting count, used
	// storage) from the totals. Meeting duration is returned unadjusted.
	RemainingLimits(ctx context.Context, actor auth.Actor, userID int64) (Limits, error)

	// Subscribe enrolls the user in a plan. Subscribing twice to the same
	// plan while the first enrollment is active fails with Conflict;
	// subscribing to a different plan stacks.
	Subscribe(ctx context.Context, actor auth.Actor, userID, planID int64) (*Subscription, error)

	// CancelPlan cancels the user's active subscriptions to one plan.
	// A no-op when none are active.
	CancelPlan(ctx context.Context, actor auth.Actor, userID, planID int64) error

	// CancelAll cancels all of the user's active subscriptions.
	// A no-op when none are active.
	CancelAll(ctx context.Context, actor auth.Actor, userID int64) error

	// CancelByID cancels a single subscription by primary key. The caller is
	// expected to have been authorized as admin at the HTTP boundary.
	CancelByID(ctx context.Context, id int64) error

	// RenewByID reactivates a subscription and advances its billing period.
	RenewByID(ctx context.Context, id int64) (*Subscription, error)

	// DeleteByID hard-deletes a subscription. Admin only, at the boundary.
	DeleteByID(ctx context.Context, id int64) error

	// IsEarlyAccess reports whether the user holds an active subscription to
	// an early-access plan.
	IsEarlyAccess(ctx context.Context, actor auth.Actor, userID int64) (bool, error)

	// ExpireDue expires active subscriptions past their period end.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
