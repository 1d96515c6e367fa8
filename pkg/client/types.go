package client

import "time"

// User represents a user in the system
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

// Plan represents a subscription plan catalog entry
type Plan struct {
	ID                     int64    `json:"id"`
	Name                   string   `json:"name"`
	Tier                   string   `json:"tier"`
	Description            string   `json:"description,omitempty"`
	PriceCents             int64    `json:"price_cents"`
	Currency               string   `json:"currency"`
	BillingPeriod          string   `json:"billing_period"`
	MeetingsAllowed        int      `json:"meetings_allowed"`
	MeetingDurationMinutes int      `json:"meeting_duration_minutes"`
	StorageLimitGB         int64    `json:"storage_limit_gb"`
	TrialDays              int      `json:"trial_days"`
	IsActive               bool     `json:"is_active"`
	IsPublic               bool     `json:"is_public"`
	EarlyAccess            bool     `json:"early_access"`
	Features               []string `json:"features"`
}

// Subscription represents a plan enrollment
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
}

// SubscriptionWithPlan is a subscription joined with its plan
type SubscriptionWithPlan struct {
	Subscription
	Plan Plan `json:"plan"`
}

// Limits holds aggregate usage allowances
type Limits struct {
	StorageLimitGB         int64 `json:"storage_limit_gb"`
	MeetingDurationMinutes int64 `json:"meeting_duration_minutes"`
	MeetingsAllowed        int64 `json:"meetings_allowed"`
}

// Meeting represents a recorded meeting
type Meeting struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Title              string    `json:"title"`
	StartsAt           time.Time `json:"starts_at"`
	DurationMinutes    int       `json:"duration_minutes"`
	RecordingSizeBytes int64     `json:"recording_size_bytes"`
	CreatedAt          time.Time `json:"created_at"`
}

// MeetingPage is a paginated list of meetings
type MeetingPage struct {
	Data       []Meeting `json:"data"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalItems int64     `json:"total_items"`
	TotalPages int       `json:"total_pages"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
