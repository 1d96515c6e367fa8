package client

import (
	"context"
	"fmt"
)

// PlanService provides access to the plan catalog
type PlanService struct {
	client *Client
}

// List returns the public plan catalog
func (s *PlanService) List(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := s.client.doRequest(ctx, "GET", "/api/v1/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Get returns a single plan by ID
func (s *PlanService) Get(ctx context.Context, id int64) (*Plan, error) {
	var p Plan
	path := fmt.Sprintf("/api/v1/plans/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
