package services

import (
	"context"
	"testing"
	"time"

	"github.com/notemeet/notemeet/internal/auth"
	"github.com/notemeet/notemeet/internal/domain/meeting"
	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/domain/storage"
	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/domain/user"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/testutil"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

type subscriptionFixture struct {
	service  subscription.Service
	users    *testutil.MockUserRepository
	plans    *testutil.MockPlanRepository
	subs     *testutil.MockSubscriptionRepository
	meetings *testutil.MockMeetingRepository
	storage  *testutil.MockStorageRepository
}

func newSubscriptionFixture() *subscriptionFixture {
	users := testutil.NewMockUserRepository()
	plans := testutil.NewMockPlanRepository()
	subs := testutil.NewMockSubscriptionRepository(plans)
	meetings := testutil.NewMockMeetingRepository()
	store := testutil.NewMockStorageRepository()
	log := testLogger()

	return &subscriptionFixture{
		service:  NewSubscriptionService(subs, plans, users, meetings, store, log),
		users:    users,
		plans:    plans,
		subs:     subs,
		meetings: meetings,
		storage:  store,
	}
}

func (f *subscriptionFixture) seedUser(t *testing.T, email string) *user.User {
	t.Helper()
	u := &user.User{Email: email, Role: user.RoleUser, PasswordHash: "x"}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (f *subscriptionFixture) seedPlan(t *testing.T, p *plan.Plan) *plan.Plan {
	t.Helper()
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.BillingPeriod == "" {
		p.BillingPeriod = plan.PeriodMonthly
	}
	if err := f.plans.Create(context.Background(), p); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return p
}

func actorFor(u *user.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Role: u.Role}
}

func adminActor() auth.Actor {
	return auth.Actor{UserID: 999, Role: user.RoleAdmin}
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	pro := f.seedPlan(t, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, PriceCents: 1500,
		MeetingsAllowed: 50, MeetingDurationMinutes: 60, StorageLimitGB: 10,
		IsActive: true, IsPublic: true,
	})
	retired := f.seedPlan(t, &plan.Plan{
		Name: "Legacy", Tier: plan.TierFree, IsActive: false, IsPublic: false,
	})

	sub, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if sub.Status != subscription.StatusActive {
		t.Errorf("Subscribe() status = %v, want %v", sub.Status, subscription.StatusActive)
	}
	if sub.BasePriceCents != pro.PriceCents || sub.TotalPriceCents != pro.PriceCents {
		t.Errorf("Subscribe() prices = %d/%d, want %d", sub.BasePriceCents, sub.TotalPriceCents, pro.PriceCents)
	}
	if !sub.EndsAt.After(sub.StartsAt) {
		t.Error("Subscribe() period end is not after period start")
	}

	// Duplicate active subscription to the same plan is rejected.
	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID); !errors.IsCode(err, errors.ErrCodeConflict) {
		t.Errorf("Subscribe() duplicate error = %v, want conflict", err)
	}

	// After canceling, re-subscribing to the same plan works again.
	if err := f.service.CancelPlan(ctx, actorFor(u), u.ID, pro.ID); err != nil {
		t.Fatalf("CancelPlan() error = %v", err)
	}
	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID); err != nil {
		t.Errorf("Subscribe() after cancel error = %v", err)
	}

	// Retired plans cannot be subscribed to.
	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, retired.ID); !errors.IsCode(err, errors.ErrCodeBadRequest) {
		t.Errorf("Subscribe() retired plan error = %v, want bad request", err)
	}

	// Unknown plan.
	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, 404); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Subscribe() unknown plan error = %v, want not found", err)
	}

	// Unknown user.
	if _, err := f.service.Subscribe(ctx, adminActor(), 404, pro.ID); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Subscribe() unknown user error = %v, want not found", err)
	}
}

func TestSubscriptionService_Authorization(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	alice := f.seedUser(t, "alice@example.com")
	bob := f.seedUser(t, "bob@example.com")

	// A regular user may not touch another user's subscriptions.
	if _, err := f.service.UserSubscriptions(ctx, actorFor(alice), bob.ID); !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("UserSubscriptions() cross-user error = %v, want forbidden", err)
	}
	if _, err := f.service.TotalLimits(ctx, actorFor(alice), bob.ID); !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("TotalLimits() cross-user error = %v, want forbidden", err)
	}
	if _, err := f.service.Subscribe(ctx, actorFor(alice), bob.ID, 1); !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("Subscribe() cross-user error = %v, want forbidden", err)
	}
	if err := f.service.CancelAll(ctx, actorFor(alice), bob.ID); !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("CancelAll() cross-user error = %v, want forbidden", err)
	}

	// Admins may act on anyone.
	if _, err := f.service.UserSubscriptions(ctx, adminActor(), bob.ID); err != nil {
		t.Errorf("UserSubscriptions() as admin error = %v", err)
	}

	// Self access is fine, and an empty result is a valid state.
	subs, err := f.service.UserSubscriptions(ctx, actorFor(alice), alice.ID)
	if err != nil {
		t.Fatalf("UserSubscriptions() error = %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("UserSubscriptions() = %d subscriptions, want 0", len(subs))
	}
}

func TestSubscriptionService_TotalLimits_Stacking(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	basic := f.seedPlan(t, &plan.Plan{
		Name: "Basic", Tier: plan.TierFree,
		MeetingsAllowed: 10, MeetingDurationMinutes: 30, StorageLimitGB: 5,
		IsActive: true, IsPublic: true,
	})
	pro := f.seedPlan(t, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro,
		MeetingsAllowed: 50, MeetingDurationMinutes: 60, StorageLimitGB: 10,
		IsActive: true, IsPublic: true,
	})

	// No subscriptions yet: all totals are zero.
	totals, err := f.service.TotalLimits(ctx, actorFor(u), u.ID)
	if err != nil {
		t.Fatalf("TotalLimits() error = %v", err)
	}
	if totals != (subscription.Limits{}) {
		t.Errorf("TotalLimits() with no subscriptions = %+v, want zero", totals)
	}

	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, basic.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	totals, err = f.service.TotalLimits(ctx, actorFor(u), u.ID)
	if err != nil {
		t.Fatalf("TotalLimits() error = %v", err)
	}
	want := subscription.Limits{StorageLimitGB: 15, MeetingDurationMinutes: 90, MeetingsAllowed: 60}
	if totals != want {
		t.Errorf("TotalLimits() = %+v, want %+v", totals, want)
	}

	// Canceling one plan removes only its allowances.
	if err := f.service.CancelPlan(ctx, actorFor(u), u.ID, basic.ID); err != nil {
		t.Fatalf("CancelPlan() error = %v", err)
	}
	totals, err = f.service.TotalLimits(ctx, actorFor(u), u.ID)
	if err != nil {
		t.Fatalf("TotalLimits() error = %v", err)
	}
	want = subscription.Limits{StorageLimitGB: 10, MeetingDurationMinutes: 60, MeetingsAllowed: 50}
	if totals != want {
		t.Errorf("TotalLimits() after cancel = %+v, want %+v", totals, want)
	}
}

func TestSubscriptionService_RemainingLimits(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	basic := f.seedPlan(t, &plan.Plan{
		Name: "Basic", Tier: plan.TierFree,
		MeetingsAllowed: 10, MeetingDurationMinutes: 30, StorageLimitGB: 5,
		IsActive: true, IsPublic: true,
	})
	pro := f.seedPlan(t, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro,
		MeetingsAllowed: 50, MeetingDurationMinutes: 60, StorageLimitGB: 10,
		IsActive: true, IsPublic: true,
	})

	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, basic.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// Two meetings recorded, 3 GB of recordings stored.
	for i := 0; i < 2; i++ {
		f.meetings.Create(ctx, &meeting.Meeting{UserID: u.ID, Title: "standup", DurationMinutes: 15})
	}
	f.storage.Add(ctx, u.ID, 3*storage.BytesPerGB)

	remaining, err := f.service.RemainingLimits(ctx, actorFor(u), u.ID)
	if err != nil {
		t.Fatalf("RemainingLimits() error = %v", err)
	}

	if remaining.StorageLimitGB != 12 {
		t.Errorf("RemainingLimits() storage = %d GB, want 12", remaining.StorageLimitGB)
	}
	if remaining.MeetingsAllowed != 58 {
		t.Errorf("RemainingLimits() meetings = %d, want 58", remaining.MeetingsAllowed)
	}
	// Meeting duration is a per-meeting cap, not consumed by usage.
	if remaining.MeetingDurationMinutes != 90 {
		t.Errorf("RemainingLimits() duration = %d, want 90", remaining.MeetingDurationMinutes)
	}
}

func TestSubscriptionService_RemainingLimits_PartialGB(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	basic := f.seedPlan(t, &plan.Plan{
		Name: "Basic", Tier: plan.TierFree,
		MeetingsAllowed: 10, MeetingDurationMinutes: 30, StorageLimitGB: 5,
		IsActive: true, IsPublic: true,
	})
	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, basic.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// Half a GB used: integer division only charges whole GB.
	f.storage.Add(ctx, u.ID, storage.BytesPerGB/2)

	remaining, err := f.service.RemainingLimits(ctx, actorFor(u), u.ID)
	if err != nil {
		t.Fatalf("RemainingLimits() error = %v", err)
	}
	if remaining.StorageLimitGB != 5 {
		t.Errorf("RemainingLimits() storage = %d GB, want 5", remaining.StorageLimitGB)
	}
}

func TestSubscriptionService_Cancel(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	pro := f.seedPlan(t, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, MeetingsAllowed: 50,
		IsActive: true, IsPublic: true,
	})

	// Canceling with nothing active is a no-op, not an error.
	if err := f.service.CancelAll(ctx, actorFor(u), u.ID); err != nil {
		t.Errorf("CancelAll() with no subscriptions error = %v", err)
	}
	if err := f.service.CancelPlan(ctx, actorFor(u), u.ID, pro.ID); err != nil {
		t.Errorf("CancelPlan() with no subscriptions error = %v", err)
	}

	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := f.service.CancelAll(ctx, actorFor(u), u.ID); err != nil {
		t.Fatalf("CancelAll() error = %v", err)
	}

	subs, err := f.service.UserSubscriptions(ctx, actorFor(u), u.ID)
	if err != nil {
		t.Fatalf("UserSubscriptions() error = %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("UserSubscriptions() after cancel = %d, want 0", len(subs))
	}
}

func TestSubscriptionService_RenewByID(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	pro := f.seedPlan(t, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly,
		IsActive: true, IsPublic: true,
	})

	sub, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := f.service.CancelByID(ctx, sub.ID); err != nil {
		t.Fatalf("CancelByID() error = %v", err)
	}

	renewed, err := f.service.RenewByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("RenewByID() error = %v", err)
	}
	if renewed.Status != subscription.StatusActive {
		t.Errorf("RenewByID() status = %v, want %v", renewed.Status, subscription.StatusActive)
	}
	if !renewed.EndsAt.After(time.Now()) {
		t.Error("RenewByID() period end is not in the future")
	}

	if _, err := f.service.RenewByID(ctx, 404); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("RenewByID() unknown id error = %v, want not found", err)
	}
}

func TestSubscriptionService_IsEarlyAccess(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	pro := f.seedPlan(t, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, IsActive: true, IsPublic: true,
	})
	enterprise := f.seedPlan(t, &plan.Plan{
		Name: "Enterprise", Tier: plan.TierEnterprise, EarlyAccess: true,
		IsActive: true, IsPublic: true,
	})

	ok, err := f.service.IsEarlyAccess(ctx, actorFor(u), u.ID)
	if err != nil {
		t.Fatalf("IsEarlyAccess() error = %v", err)
	}
	if ok {
		t.Error("IsEarlyAccess() = true with no subscriptions")
	}

	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	ok, _ = f.service.IsEarlyAccess(ctx, actorFor(u), u.ID)
	if ok {
		t.Error("IsEarlyAccess() = true without an early-access plan")
	}

	if _, err := f.service.Subscribe(ctx, actorFor(u), u.ID, enterprise.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	ok, _ = f.service.IsEarlyAccess(ctx, actorFor(u), u.ID)
	if !ok {
		t.Error("IsEarlyAccess() = false with an early-access plan active")
	}
}

func TestSubscriptionService_ExpireDue(t *testing.T) {
	f := newSubscriptionFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	pro := f.seedPlan(t, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, MeetingsAllowed: 50,
		IsActive: true, IsPublic: true,
	})

	sub, err := f.service.Subscribe(ctx, actorFor(u), u.ID, pro.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// Not yet due.
	affected, err := f.service.ExpireDue(ctx, time.Now())
	if err != nil {
		t.Fatalf("ExpireDue() error = %v", err)
	}
	if affected != 0 {
		t.Errorf("ExpireDue() = %d, want 0", affected)
	}

	// Past the period end everything due flips to expired, and expired
	// subscriptions stop counting toward limits.
	affected, err = f.service.ExpireDue(ctx, sub.EndsAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("ExpireDue() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("ExpireDue() = %d, want 1", affected)
	}

	totals, err := f.service.TotalLimits(ctx, actorFor(u), u.ID)
	if err != nil {
		t.Fatalf("TotalLimits() error = %v", err)
	}
	if totals.MeetingsAllowed != 0 {
		t.Errorf("TotalLimits() after expiry = %+v, want zero", totals)
	}

	// Running the sweep again is a no-op.
	affected, _ = f.service.ExpireDue(ctx, sub.EndsAt.Add(2*time.Hour))
	if affected != 0 {
		t.Errorf("ExpireDue() second run = %d, want 0", affected)
	}
}
