package subscription

import (
	"time"

	"github.com/notemeet/notemeet/internal/domain/plan"
)

// Subscription is a user's enrollment in a plan, with a lifecycle status.
type Subscription struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	PlanID          int64     `json:"plan_id"`
	Status          string    `json:"status"`
	BillingPeriod   string    `json:"billing_period"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	BasePriceCents  int64     `json:"base_price_cents"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Subscription statuses
const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// WithPlan is a subscription joined with its plan catalog entry.
type WithPlan struct {
	Subscription
	Plan plan.Plan `json:"plan"`
}

// Limits holds aggregate usage allowances. The same shape is used for
// totals and for remaining allowances after consumption is subtracted.
type Limits struct {
	StorageLimitGB         int64 `json:"storage_limit_gb"`
	MeetingDurationMinutes int64 `json:"meeting_duration_minutes"`
	MeetingsAllowed        int64 `json:"meetings_allowed"`
}

// Add accumulates another plan's allowances into l.
func (l *Limits) Add(p plan.Plan) {
	l.StorageLimitGB += p.StorageLimitGB
	l.MeetingDurationMinutes += int64(p.MeetingDurationMinutes)
	l.MeetingsAllowed += int64(p.MeetingsAllowed)
}

// PeriodDuration returns the wall-clock length of a billing period.
func PeriodDuration(period string) time.Duration {
	if period == plan.PeriodYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}
