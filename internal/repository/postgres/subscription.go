package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/pkg/errors"
)

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *DB) subscription.Repository {
	return &SubscriptionRepository{db: db}
}

// isUniqueViolation reports whether err is a unique-constraint violation from
// either supported driver
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// Create inserts a new subscription. The duplicate-active check and the
// insert share one transaction; the partial unique index on
// (user_id, plan_id, status=active) closes the remaining race window.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to start transaction", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, r.db.Rebind(`
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = ? AND plan_id = ? AND status = ?
		)
	`), sub.UserID, sub.PlanID, subscription.StatusActive).Scan(&exists)
	if err != nil {
		return errors.DatabaseError("Failed to check existing subscriptions", err)
	}
	if exists {
		return errors.Conflict("Already subscribed to this plan")
	}

	id, err := r.db.txInsertID(ctx, tx, `
		INSERT INTO subscriptions (user_id, plan_id, status, billing_period,
			starts_at, ends_at, base_price_cents, total_price_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sub.UserID, sub.PlanID, sub.Status, sub.BillingPeriod,
		sub.StartsAt.Unix(), sub.EndsAt.Unix(),
		sub.BasePriceCents, sub.TotalPriceCents, now.Unix(), now.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Already subscribed to this plan")
		}
		return errors.DatabaseError("Failed to create subscription", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Already subscribed to this plan")
		}
		return errors.DatabaseError("Failed to commit subscription", err)
	}

	sub.ID = id
	return nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, billing_period, starts_at, ends_at,
			base_price_cents, total_price_cents, created_at, updated_at
		FROM subscriptions WHERE id = ?
	`

	var s subscription.Subscription
	var startsAt, endsAt, createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.Status, &s.BillingPeriod,
		&startsAt, &endsAt, &s.BasePriceCents, &s.TotalPriceCents,
		&createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}

	s.StartsAt = time.Unix(startsAt, 0)
	s.EndsAt = time.Unix(endsAt, 0)
	s.CreatedAt = time.Unix(createdAt, 0)
	s.UpdatedAt = time.Unix(updatedAt, 0)

	return &s, nil
}

// ListActiveByUser retrieves a user's active subscriptions joined with plan data
func (r *SubscriptionRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*subscription.WithPlan, error) {
	query := `
		SELECT s.id, s.user_id, s.plan_id, s.status, s.billing_period,
			s.starts_at, s.ends_at, s.base_price_cents, s.total_price_cents,
			s.created_at, s.updated_at,
			p.id, p.name, p.tier, p.description, p.price_cents, p.currency,
			p.billing_period, p.meetings_allowed, p.meeting_duration_minutes,
			p.storage_limit_gb, p.trial_days, p.is_active, p.is_public,
			p.early_access, p.features, p.created_at, p.updated_at
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.user_id = ? AND s.status = ?
		ORDER BY s.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, subscription.StatusActive)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list subscriptions", err)
	}
	defer rows.Close()

	var subs []*subscription.WithPlan
	for rows.Next() {
		s, err := scanSubscriptionWithPlan(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan subscription", err)
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate subscriptions", err)
	}

	return subs, nil
}

func scanSubscriptionWithPlan(rows *sql.Rows) (*subscription.WithPlan, error) {
	var s subscription.WithPlan
	var startsAt, endsAt, createdAt, updatedAt int64
	var planDescription sql.NullString
	var planFeatures string
	var planCreatedAt, planUpdatedAt int64

	err := rows.Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.Status, &s.BillingPeriod,
		&startsAt, &endsAt, &s.BasePriceCents, &s.TotalPriceCents,
		&createdAt, &updatedAt,
		&s.Plan.ID, &s.Plan.Name, &s.Plan.Tier, &planDescription,
		&s.Plan.PriceCents, &s.Plan.Currency, &s.Plan.BillingPeriod,
		&s.Plan.MeetingsAllowed, &s.Plan.MeetingDurationMinutes,
		&s.Plan.StorageLimitGB, &s.Plan.TrialDays,
		&s.Plan.IsActive, &s.Plan.IsPublic, &s.Plan.EarlyAccess,
		&planFeatures, &planCreatedAt, &planUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.StartsAt = time.Unix(startsAt, 0)
	s.EndsAt = time.Unix(endsAt, 0)
	s.CreatedAt = time.Unix(createdAt, 0)
	s.UpdatedAt = time.Unix(updatedAt, 0)

	if planDescription.Valid {
		s.Plan.Description = planDescription.String
	}
	if planFeatures != "" {
		if err := json.Unmarshal([]byte(planFeatures), &s.Plan.Features); err != nil {
			return nil, err
		}
	}
	s.Plan.CreatedAt = time.Unix(planCreatedAt, 0)
	s.Plan.UpdatedAt = time.Unix(planUpdatedAt, 0)

	return &s, nil
}

// CancelByUserPlan cancels the user's active subscriptions to one plan
func (r *SubscriptionRepository) CancelByUserPlan(ctx context.Context, userID, planID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = ?, updated_at = ?
		WHERE user_id = ? AND plan_id = ? AND status = ?
	`, subscription.StatusCanceled, time.Now().Unix(), userID, planID, subscription.StatusActive)
	if err != nil {
		return 0, errors.DatabaseError("Failed to cancel subscription", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows, nil
}

// CancelAllByUser cancels all of the user's active subscriptions
func (r *SubscriptionRepository) CancelAllByUser(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = ?, updated_at = ?
		WHERE user_id = ? AND status = ?
	`, subscription.StatusCanceled, time.Now().Unix(), userID, subscription.StatusActive)
	if err != nil {
		return 0, errors.DatabaseError("Failed to cancel subscriptions", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows, nil
}

// SetStatus flips a single subscription's status by primary key
func (r *SubscriptionRepository) SetStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().Unix(), id)
	if err != nil {
		return errors.DatabaseError("Failed to update subscription status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Subscription")
	}

	return nil
}

// Renew reactivates a subscription and advances its billing period
func (r *SubscriptionRepository) Renew(ctx context.Context, id int64, startsAt, endsAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = ?, starts_at = ?, ends_at = ?, updated_at = ?
		WHERE id = ?
	`, subscription.StatusActive, startsAt.Unix(), endsAt.Unix(), time.Now().Unix(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("User already holds an active subscription to this plan")
		}
		return errors.DatabaseError("Failed to renew subscription", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Subscription")
	}

	return nil
}

// Delete hard-deletes a subscription by ID
func (r *SubscriptionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete subscription", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Subscription")
	}

	return nil
}

// HasActiveEarlyAccess reports whether the user holds an active subscription
// to a plan flagged for early access
func (r *SubscriptionRepository) HasActiveEarlyAccess(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions s
			JOIN plans p ON p.id = s.plan_id
			WHERE s.user_id = ? AND s.status = ? AND p.early_access = TRUE
		)
	`, userID, subscription.StatusActive).Scan(&exists)
	if err != nil {
		return false, errors.DatabaseError("Failed to check early access", err)
	}
	return exists, nil
}

// ExpireDue marks active subscriptions whose period ended before now as expired
func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = ?, updated_at = ?
		WHERE status = ? AND ends_at <= ?
	`, subscription.StatusExpired, now.Unix(), subscription.StatusActive, now.Unix())
	if err != nil {
		return 0, errors.DatabaseError("Failed to expire subscriptions", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}
	return rows, nil
}
