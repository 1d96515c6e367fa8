package client

import "context"

// SubscriptionService provides access to subscription management
type SubscriptionService struct {
	client *Client
}

// List returns the caller's active subscriptions
func (s *SubscriptionService) List(ctx context.Context) ([]SubscriptionWithPlan, error) {
	var subs []SubscriptionWithPlan
	if err := s.client.doRequest(ctx, "GET", "/api/v1/subscriptions/me", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Subscribe enrolls the caller in a plan
func (s *SubscriptionService) Subscribe(ctx context.Context, planID int64) (*Subscription, error) {
	req := map[string]int64{"plan_id": planID}

	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", "/api/v1/subscriptions", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelPlan cancels the caller's subscriptions to one plan
func (s *SubscriptionService) CancelPlan(ctx context.Context, planID int64) error {
	req := map[string]int64{"plan_id": planID}
	return s.client.doRequest(ctx, "DELETE", "/api/v1/subscriptions/me", req, nil)
}

// CancelAll cancels all of the caller's subscriptions
func (s *SubscriptionService) CancelAll(ctx context.Context) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/subscriptions/me", nil, nil)
}

// Limits returns the caller's aggregated total allowances
func (s *SubscriptionService) Limits(ctx context.Context) (*Limits, error) {
	var l Limits
	if err := s.client.doRequest(ctx, "GET", "/api/v1/subscriptions/me/limits", nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Remaining returns the caller's allowances after consumption
func (s *SubscriptionService) Remaining(ctx context.Context) (*Limits, error) {
	var l Limits
	if err := s.client.doRequest(ctx, "GET", "/api/v1/subscriptions/me/remaining", nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// EarlyAccess reports whether the caller holds an early-access plan
func (s *SubscriptionService) EarlyAccess(ctx context.Context) (bool, error) {
	var resp struct {
		EarlyAccess bool `json:"early_access"`
	}
	if err := s.client.doRequest(ctx, "GET", "/api/v1/subscriptions/me/early-access", nil, &resp); err != nil {
		return false, err
	}
	return resp.EarlyAccess, nil
}
