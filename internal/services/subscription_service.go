package services

import (
	"context"
	"time"

	"github.com/notemeet/notemeet/internal/auth"
	"github.com/notemeet/notemeet/internal/domain/meeting"
	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/domain/storage"
	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/domain/user"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/metrics"
)

// SubscriptionService implements subscription.Service. It aggregates a user's
// entitlements across all active subscriptions (allowances stack additively)
// and drives the subscription lifecycle.
type SubscriptionService struct {
	subs     subscription.Repository
	plans    plan.Repository
	users    user.Repository
	meetings meeting.Repository
	storage  storage.Repository
	logger   *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	subs subscription.Repository,
	plans plan.Repository,
	users user.Repository,
	meetings meeting.Repository,
	store storage.Repository,
	log *logger.Logger,
) subscription.Service {
	return &SubscriptionService{
		subs:     subs,
		plans:    plans,
		users:    users,
		meetings: meetings,
		storage:  store,
		logger:   log,
	}
}

// authorize checks that the actor may operate on the target user's data
func (s *SubscriptionService) authorize(actor auth.Actor, userID int64) error {
	if !actor.CanActOn(userID) {
		return errors.Forbidden("Not allowed to access this user's subscriptions")
	}
	return nil
}

// UserSubscriptions returns the target user's active subscriptions with plan data
func (s *SubscriptionService) UserSubscriptions(ctx context.Context, actor auth.Actor, userID int64) ([]*subscription.WithPlan, error) {
	if err := s.authorize(actor, userID); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.subs.ListActiveByUser(ctx, userID)
}

// TotalLimits sums allowances across all of the user's active subscriptions
func (s *SubscriptionService) TotalLimits(ctx context.Context, actor auth.Actor, userID int64) (subscription.Limits, error) {
	subs, err := s.UserSubscriptions(ctx, actor, userID)
	if err != nil {
		return subscription.Limits{}, err
	}

	var totals subscription.Limits
	for _, sub := range subs {
		totals.Add(sub.Plan)
	}
	return totals, nil
}

// RemainingLimits subtracts actual consumption from the aggregated totals.
// Storage and meeting count are usage-adjusted; meeting duration is returned
// as-is from the totals.
func (s *SubscriptionService) RemainingLimits(ctx context.Context, actor auth.Actor, userID int64) (subscription.Limits, error) {
	totals, err := s.TotalLimits(ctx, actor, userID)
	if err != nil {
		return subscription.Limits{}, err
	}

	meetingCount, err := s.meetings.CountByUser(ctx, userID)
	if err != nil {
		return subscription.Limits{}, err
	}

	used, err := s.storage.Get(ctx, userID)
	if err != nil {
		return subscription.Limits{}, err
	}

	return subscription.Limits{
		StorageLimitGB:         totals.StorageLimitGB - used.UsedStorageBytes/storage.BytesPerGB,
		MeetingDurationMinutes: totals.MeetingDurationMinutes,
		MeetingsAllowed:        totals.MeetingsAllowed - meetingCount,
	}, nil
}

// Subscribe enrolls the user in a plan
func (s *SubscriptionService) Subscribe(ctx context.Context, actor auth.Actor, userID, planID int64) (*subscription.Subscription, error) {
	if err := s.authorize(actor, userID); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, errors.BadRequest("Plan is no longer available")
	}

	now := time.Now()
	sub := &subscription.Subscription{
		UserID:          userID,
		PlanID:          planID,
		Status:          subscription.StatusActive,
		BillingPeriod:   p.BillingPeriod,
		StartsAt:        now,
		EndsAt:          now.Add(subscription.PeriodDuration(p.BillingPeriod)),
		BasePriceCents:  p.PriceCents,
		TotalPriceCents: p.PriceCents,
	}

	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionEvent("subscribe", p.Tier)
	s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"plan_id":         planID,
		"subscription_id": sub.ID,
	}).Info("User subscribed to plan")

	return sub, nil
}

// CancelPlan cancels the user's active subscriptions to one plan
func (s *SubscriptionService) CancelPlan(ctx context.Context, actor auth.Actor, userID, planID int64) error {
	if err := s.authorize(actor, userID); err != nil {
		return err
	}

	affected, err := s.subs.CancelByUserPlan(ctx, userID, planID)
	if err != nil {
		return err
	}

	metrics.RecordSubscriptionEvent("cancel", "")
	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"plan_id":  planID,
		"affected": affected,
	}).Info("Subscription canceled")

	return nil
}

// CancelAll cancels all of the user's active subscriptions. Canceling with
// none active is a successful no-op.
func (s *SubscriptionService) CancelAll(ctx context.Context, actor auth.Actor, userID int64) error {
	if err := s.authorize(actor, userID); err != nil {
		return err
	}

	affected, err := s.subs.CancelAllByUser(ctx, userID)
	if err != nil {
		return err
	}

	metrics.RecordSubscriptionEvent("cancel_all", "")
	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"affected": affected,
	}).Info("All subscriptions canceled")

	return nil
}

// CancelByID cancels a single subscription by primary key
func (s *SubscriptionService) CancelByID(ctx context.Context, id int64) error {
	if err := s.subs.SetStatus(ctx, id, subscription.StatusCanceled); err != nil {
		return err
	}

	metrics.RecordSubscriptionEvent("cancel", "")
	s.logger.With("subscription_id", id).Info("Subscription canceled by admin")
	return nil
}

// RenewByID reactivates a subscription and advances its billing period
func (s *SubscriptionService) RenewByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	endsAt := now.Add(subscription.PeriodDuration(sub.BillingPeriod))
	if err := s.subs.Renew(ctx, id, now, endsAt); err != nil {
		return nil, err
	}

	sub.Status = subscription.StatusActive
	sub.StartsAt = now
	sub.EndsAt = endsAt

	metrics.RecordSubscriptionEvent("renew", "")
	s.logger.With("subscription_id", id).Info("Subscription renewed")
	return sub, nil
}

// DeleteByID hard-deletes a subscription
func (s *SubscriptionService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.subs.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.With("subscription_id", id).Info("Subscription deleted")
	return nil
}

// IsEarlyAccess reports whether the user holds an active subscription to an
// early-access plan
func (s *SubscriptionService) IsEarlyAccess(ctx context.Context, actor auth.Actor, userID int64) (bool, error) {
	if err := s.authorize(actor, userID); err != nil {
		return false, err
	}
	return s.subs.HasActiveEarlyAccess(ctx, userID)
}

// ExpireDue expires active subscriptions past their period end
func (s *SubscriptionService) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	affected, err := s.subs.ExpireDue(ctx, now)
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		metrics.RecordSubscriptionsExpired(affected)
		s.logger.With("affected", affected).Info("Expired due subscriptions")
	}
	return affected, nil
}
