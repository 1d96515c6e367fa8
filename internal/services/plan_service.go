package services

import (
	"context"

	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/pkg/logger"
)

// PlanService implements plan.Service
type PlanService struct {
	repo   plan.Repository
	logger *logger.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(repo plan.Repository, log *logger.Logger) plan.Service {
	return &PlanService{repo: repo, logger: log}
}

// List returns catalog plans
func (s *PlanService) List(ctx context.Context, publicOnly bool) ([]*plan.Plan, error) {
	return s.repo.List(ctx, publicOnly)
}

// GetByID returns a plan by ID
func (s *PlanService) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a plan to the catalog
func (s *PlanService) Create(ctx context.Context, p *plan.Plan) error {
	if err := validatePlan(p); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id": p.ID,
		"name":    p.Name,
		"tier":    p.Tier,
	}).Info("Plan created")
	return nil
}

// Update modifies a catalog plan
func (s *PlanService) Update(ctx context.Context, p *plan.Plan) error {
	if err := validatePlan(p); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(ctx, p.ID); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	s.logger.With("plan_id", p.ID).Info("Plan updated")
	return nil
}

// Delete removes a plan from the catalog. Existing subscriptions keep their
// plan row via the foreign key, so deletion fails while subscriptions
// reference it.
func (s *PlanService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.With("plan_id", id).Info("Plan deleted")
	return nil
}

func validatePlan(p *plan.Plan) error {
	if !plan.ValidTier(p.Tier) {
		return errors.BadRequest("Invalid plan tier")
	}
	if !plan.ValidPeriod(p.BillingPeriod) {
		return errors.BadRequest("Invalid billing period")
	}
	if p.PriceCents < 0 {
		return errors.BadRequest("Price must not be negative")
	}
	if p.MeetingsAllowed < 0 || p.MeetingDurationMinutes < 0 || p.StorageLimitGB < 0 {
		return errors.BadRequest("Allowances must not be negative")
	}
	return nil
}
