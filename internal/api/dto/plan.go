package dto

// CreatePlanRequest represents an admin request to add a catalog plan
type CreatePlanRequest struct {
	Name                   string   `json:"name" validate:"required,min=2,max=100"`
	Tier                   string   `json:"tier" validate:"required,oneof=free pro business enterprise"`
	Description            string   `json:"description,omitempty"`
	PriceCents             int64    `json:"price_cents" validate:"min=0"`
	Currency               string   `json:"currency" validate:"required,len=3"`
	BillingPeriod          string   `json:"billing_period" validate:"required,oneof=monthly yearly"`
	MeetingsAllowed        int      `json:"meetings_allowed" validate:"min=0"`
	MeetingDurationMinutes int      `json:"meeting_duration_minutes" validate:"min=0"`
	StorageLimitGB         int64    `json:"storage_limit_gb" validate:"min=0"`
	TrialDays              int      `json:"trial_days" validate:"min=0"`
	IsActive               bool     `json:"is_active"`
	IsPublic               bool     `json:"is_public"`
	EarlyAccess            bool     `json:"early_access"`
	Features               []string `json:"features,omitempty"`
}

// UpdatePlanRequest represents an admin request to modify a catalog plan
type UpdatePlanRequest struct {
	Name                   *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description            *string  `json:"description,omitempty"`
	PriceCents             *int64   `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	MeetingsAllowed        *int     `json:"meetings_allowed,omitempty" validate:"omitempty,min=0"`
	MeetingDurationMinutes *int     `json:"meeting_duration_minutes,omitempty" validate:"omitempty,min=0"`
	StorageLimitGB         *int64   `json:"storage_limit_gb,omitempty" validate:"omitempty,min=0"`
	TrialDays              *int     `json:"trial_days,omitempty" validate:"omitempty,min=0"`
	IsActive               *bool    `json:"is_active,omitempty"`
	IsPublic               *bool    `json:"is_public,omitempty"`
	EarlyAccess            *bool    `json:"early_access,omitempty"`
	Features               []string `json:"features,omitempty"`
}
