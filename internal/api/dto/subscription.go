package dto

// SubscribeRequest represents a request to enroll in a plan
type SubscribeRequest struct {
	PlanID int64 `json:"plan_id" validate:"required,gt=0"`
}

// CancelRequest represents a request to cancel subscriptions. With a plan ID
// only that plan's subscriptions are canceled, otherwise all of them.
type CancelRequest struct {
	PlanID *int64 `json:"plan_id,omitempty" validate:"omitempty,gt=0"`
}

// LimitsResponse represents aggregated allowances in API responses
type LimitsResponse struct {
	StorageLimitGB         int64 `json:"storage_limit_gb"`
	MeetingDurationMinutes int64 `json:"meeting_duration_minutes"`
	MeetingsAllowed        int64 `json:"meetings_allowed"`
}

// EarlyAccessResponse reports early-access program membership
type EarlyAccessResponse struct {
	EarlyAccess bool `json:"early_access"`
}
