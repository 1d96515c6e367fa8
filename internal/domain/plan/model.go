package plan

import "time"

// Plan is a catalog entry defining price and usage allowances for a
// subscription tier.
type Plan struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	Tier                   string    `json:"tier"`
	Description            string    `json:"description,omitempty"`
	PriceCents             int64     `json:"price_cents"`
	Currency               string    `json:"currency"`
	BillingPeriod          string    `json:"billing_period"`
	MeetingsAllowed        int       `json:"meetings_allowed"`
	MeetingDurationMinutes int       `json:"meeting_duration_minutes"`
	StorageLimitGB         int64     `json:"storage_limit_gb"`
	TrialDays              int       `json:"trial_days"`
	IsActive               bool      `json:"is_active"`
	IsPublic               bool      `json:"is_public"`
	EarlyAccess            bool      `json:"early_access"`
	Features               []string  `json:"features"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Plan tiers
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierBusiness   = "business"
	TierEnterprise = "enterprise"
)

// Billing periods
const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// ValidTier reports whether t is a known plan tier.
func ValidTier(t string) bool {
	switch t {
	case TierFree, TierPro, TierBusiness, TierEnterprise:
		return true
	}
	return false
}

// ValidPeriod reports whether p is a known billing period.
func ValidPeriod(p string) bool {
	return p == PeriodMonthly || p == PeriodYearly
}
