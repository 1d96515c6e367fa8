package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/pkg/errors"
)

// PlanRepository implements plan.Repository
type PlanRepository struct {
	db *DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *DB) plan.Repository {
	return &PlanRepository{db: db}
}

const planColumns = `id, name, tier, description, price_cents, currency, billing_period,
	meetings_allowed, meeting_duration_minutes, storage_limit_gb, trial_days,
	is_active, is_public, early_access, features, created_at, updated_at`

// Create creates a new plan
func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	features, err := json.Marshal(p.Features)
	if err != nil {
		return errors.Internal("Failed to encode plan features", err)
	}

	query := `
		INSERT INTO plans (name, tier, description, price_cents, currency, billing_period,
			meetings_allowed, meeting_duration_minutes, storage_limit_gb, trial_days,
			is_active, is_public, early_access, features, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.insertID(ctx, query,
		p.Name, p.Tier, p.Description, p.PriceCents, p.Currency, p.BillingPeriod,
		p.MeetingsAllowed, p.MeetingDurationMinutes, p.StorageLimitGB, p.TrialDays,
		p.IsActive, p.IsPublic, p.EarlyAccess, string(features), now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create plan", err)
	}

	p.ID = id
	return nil
}

// GetByID retrieves a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)

	p, err := scanPlan(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Plan")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get plan", err)
	}
	return p, nil
}

// Update updates a plan
func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	p.UpdatedAt = time.Now()

	features, err := json.Marshal(p.Features)
	if err != nil {
		return errors.Internal("Failed to encode plan features", err)
	}

	query := `
		UPDATE plans
		SET name = ?, tier = ?, description = ?, price_cents = ?, currency = ?,
			billing_period = ?, meetings_allowed = ?, meeting_duration_minutes = ?,
			storage_limit_gb = ?, trial_days = ?, is_active = ?, is_public = ?,
			early_access = ?, features = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Tier, p.Description, p.PriceCents, p.Currency,
		p.BillingPeriod, p.MeetingsAllowed, p.MeetingDurationMinutes,
		p.StorageLimitGB, p.TrialDays, p.IsActive, p.IsPublic,
		p.EarlyAccess, string(features), p.UpdatedAt.Unix(), p.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update plan", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Plan")
	}

	return nil
}

// Delete deletes a plan
func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete plan", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Plan")
	}

	return nil
}

// List retrieves plans; publicOnly restricts to active public catalog entries
func (r *PlanRepository) List(ctx context.Context, publicOnly bool) ([]*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	if publicOnly {
		query += ` WHERE is_active = TRUE AND is_public = TRUE`
	}
	query += ` ORDER BY price_cents ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list plans", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan plan", err)
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate plans", err)
	}

	return plans, nil
}

// scanPlan scans one plan row using the planColumns ordering
func scanPlan(scan func(dest ...any) error) (*plan.Plan, error) {
	var p plan.Plan
	var description sql.NullString
	var features string
	var createdAt, updatedAt int64

	err := scan(
		&p.ID, &p.Name, &p.Tier, &description, &p.PriceCents, &p.Currency, &p.BillingPeriod,
		&p.MeetingsAllowed, &p.MeetingDurationMinutes, &p.StorageLimitGB, &p.TrialDays,
		&p.IsActive, &p.IsPublic, &p.EarlyAccess, &features, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		p.Description = description.String
	}
	if features != "" {
		if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
			return nil, err
		}
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)

	return &p, nil
}
