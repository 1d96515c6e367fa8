package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/domain/user"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/repository/postgres"
	"github.com/notemeet/notemeet/internal/testutil"
)

func seedUser(t *testing.T, users user.Repository, email string) *user.User {
	t.Helper()
	u := &user.User{Email: email, Username: "u", PasswordHash: "x", Role: user.RoleUser}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedPlan(t *testing.T, plans plan.Repository, p *plan.Plan) *plan.Plan {
	t.Helper()
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.BillingPeriod == "" {
		p.BillingPeriod = plan.PeriodMonthly
	}
	if err := plans.Create(context.Background(), p); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return p
}

func newSub(userID, planID int64) *subscription.Subscription {
	now := time.Now()
	return &subscription.Subscription{
		UserID:        userID,
		PlanID:        planID,
		Status:        subscription.StatusActive,
		BillingPeriod: plan.PeriodMonthly,
		StartsAt:      now,
		EndsAt:        now.Add(30 * 24 * time.Hour),
	}
}

func TestSubscriptionRepository_Create_DuplicateActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := postgres.NewUserRepository(db)
	plans := postgres.NewPlanRepository(db)
	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "alice@example.com")
	p := seedPlan(t, plans, &plan.Plan{Name: "Pro", Tier: plan.TierPro, IsActive: true, IsPublic: true})

	if err := repo.Create(ctx, newSub(u.ID, p.ID)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A second active subscription to the same plan must be rejected.
	err := repo.Create(ctx, newSub(u.ID, p.ID))
	if !errors.IsCode(err, errors.ErrCodeConflict) {
		t.Fatalf("Create() duplicate error = %v, want conflict", err)
	}

	// After canceling, the same plan can be subscribed to again.
	if _, err := repo.CancelByUserPlan(ctx, u.ID, p.ID); err != nil {
		t.Fatalf("CancelByUserPlan() error = %v", err)
	}
	if err := repo.Create(ctx, newSub(u.ID, p.ID)); err != nil {
		t.Errorf("Create() after cancel error = %v", err)
	}

	// A different user is unconstrained.
	bob := seedUser(t, users, "bob@example.com")
	if err := repo.Create(ctx, newSub(bob.ID, p.ID)); err != nil {
		t.Errorf("Create() for second user error = %v", err)
	}
}

func TestSubscriptionRepository_ListActiveByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := postgres.NewUserRepository(db)
	plans := postgres.NewPlanRepository(db)
	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "alice@example.com")
	basic := seedPlan(t, plans, &plan.Plan{
		Name: "Basic", Tier: plan.TierFree, StorageLimitGB: 5,
		MeetingsAllowed: 10, MeetingDurationMinutes: 30,
		IsActive: true, IsPublic: true, Features: []string{"transcripts"},
	})
	pro := seedPlan(t, plans, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, StorageLimitGB: 10,
		MeetingsAllowed: 50, MeetingDurationMinutes: 60,
		IsActive: true, IsPublic: true,
	})

	if err := repo.Create(ctx, newSub(u.ID, basic.ID)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	proSub := newSub(u.ID, pro.ID)
	if err := repo.Create(ctx, proSub); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Canceled subscriptions are filtered out of the active list.
	if _, err := repo.CancelByUserPlan(ctx, u.ID, basic.ID); err != nil {
		t.Fatalf("CancelByUserPlan() error = %v", err)
	}

	subs, err := repo.ListActiveByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListActiveByUser() error = %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("ListActiveByUser() = %d subscriptions, want 1", len(subs))
	}
	got := subs[0]
	if got.ID != proSub.ID {
		t.Errorf("ListActiveByUser() id = %d, want %d", got.ID, proSub.ID)
	}
	if got.Plan.Name != "Pro" || got.Plan.StorageLimitGB != 10 {
		t.Errorf("ListActiveByUser() joined plan = %+v, want Pro with 10 GB", got.Plan)
	}

	// Unknown user yields an empty list, not an error.
	subs, err = repo.ListActiveByUser(ctx, 404)
	if err != nil {
		t.Fatalf("ListActiveByUser() unknown user error = %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("ListActiveByUser() unknown user = %d subscriptions, want 0", len(subs))
	}
}

func TestSubscriptionRepository_Renew(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := postgres.NewUserRepository(db)
	plans := postgres.NewPlanRepository(db)
	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "alice@example.com")
	p := seedPlan(t, plans, &plan.Plan{Name: "Pro", Tier: plan.TierPro, IsActive: true, IsPublic: true})

	sub := newSub(u.ID, p.ID)
	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.SetStatus(ctx, sub.ID, subscription.StatusCanceled); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	starts := time.Now()
	ends := starts.Add(30 * 24 * time.Hour)
	if err := repo.Renew(ctx, sub.ID, starts, ends); err != nil {
		t.Fatalf("Renew() error = %v", err)
	}

	got, err := repo.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != subscription.StatusActive {
		t.Errorf("Renew() status = %v, want %v", got.Status, subscription.StatusActive)
	}

	if err := repo.Renew(ctx, 404, starts, ends); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Renew() unknown id error = %v, want not found", err)
	}
}

func TestSubscriptionRepository_Renew_ConflictsWithActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := postgres.NewUserRepository(db)
	plans := postgres.NewPlanRepository(db)
	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "alice@example.com")
	p := seedPlan(t, plans, &plan.Plan{Name: "Pro", Tier: plan.TierPro, IsActive: true, IsPublic: true})

	old := newSub(u.ID, p.ID)
	if err := repo.Create(ctx, old); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.SetStatus(ctx, old.ID, subscription.StatusCanceled); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	// A fresh active subscription to the same plan now exists.
	if err := repo.Create(ctx, newSub(u.ID, p.ID)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Reviving the old one would violate one-active-per-plan.
	starts := time.Now()
	err := repo.Renew(ctx, old.ID, starts, starts.Add(30*24*time.Hour))
	if !errors.IsCode(err, errors.ErrCodeConflict) {
		t.Errorf("Renew() into duplicate active error = %v, want conflict", err)
	}
}

func TestSubscriptionRepository_ExpireDue(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := postgres.NewUserRepository(db)
	plans := postgres.NewPlanRepository(db)
	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "alice@example.com")
	p := seedPlan(t, plans, &plan.Plan{Name: "Pro", Tier: plan.TierPro, IsActive: true, IsPublic: true})
	p2 := seedPlan(t, plans, &plan.Plan{Name: "Biz", Tier: plan.TierBusiness, IsActive: true, IsPublic: true})

	due := newSub(u.ID, p.ID)
	due.EndsAt = time.Now().Add(-time.Hour)
	if err := repo.Create(ctx, due); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	current := newSub(u.ID, p2.ID)
	if err := repo.Create(ctx, current); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	affected, err := repo.ExpireDue(ctx, time.Now())
	if err != nil {
		t.Fatalf("ExpireDue() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("ExpireDue() = %d, want 1", affected)
	}

	got, _ := repo.GetByID(ctx, due.ID)
	if got.Status != subscription.StatusExpired {
		t.Errorf("ExpireDue() status = %v, want %v", got.Status, subscription.StatusExpired)
	}
	got, _ = repo.GetByID(ctx, current.ID)
	if got.Status != subscription.StatusActive {
		t.Errorf("ExpireDue() touched a current subscription: status = %v", got.Status)
	}
}

func TestSubscriptionRepository_HasActiveEarlyAccess(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := postgres.NewUserRepository(db)
	plans := postgres.NewPlanRepository(db)
	repo := postgres.NewSubscriptionRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "alice@example.com")
	regular := seedPlan(t, plans, &plan.Plan{Name: "Pro", Tier: plan.TierPro, IsActive: true, IsPublic: true})
	early := seedPlan(t, plans, &plan.Plan{
		Name: "Enterprise", Tier: plan.TierEnterprise, EarlyAccess: true,
		IsActive: true, IsPublic: true,
	})

	ok, err := repo.HasActiveEarlyAccess(ctx, u.ID)
	if err != nil {
		t.Fatalf("HasActiveEarlyAccess() error = %v", err)
	}
	if ok {
		t.Error("HasActiveEarlyAccess() = true with no subscriptions")
	}

	if err := repo.Create(ctx, newSub(u.ID, regular.ID)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ok, _ = repo.HasActiveEarlyAccess(ctx, u.ID)
	if ok {
		t.Error("HasActiveEarlyAccess() = true without an early-access plan")
	}

	earlySub := newSub(u.ID, early.ID)
	if err := repo.Create(ctx, earlySub); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ok, _ = repo.HasActiveEarlyAccess(ctx, u.ID)
	if !ok {
		t.Error("HasActiveEarlyAccess() = false with an early-access plan active")
	}

	// Canceling the early-access plan turns it off again.
	if err := repo.SetStatus(ctx, earlySub.ID, subscription.StatusCanceled); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	ok, _ = repo.HasActiveEarlyAccess(ctx, u.ID)
	if ok {
		t.Error("HasActiveEarlyAccess() = true after cancel")
	}
}
