package services

import (
	"context"
	"testing"

	"github.com/notemeet/notemeet/internal/domain/meeting"
	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/domain/storage"
	"github.com/notemeet/notemeet/internal/pkg/errors"
)

type meetingFixture struct {
	*subscriptionFixture
	service meeting.Service
}

func newMeetingFixture() *meetingFixture {
	sf := newSubscriptionFixture()
	return &meetingFixture{
		subscriptionFixture: sf,
		service:             NewMeetingService(sf.meetings, sf.storage, sf.service, testLogger()),
	}
}

func TestMeetingService_Create(t *testing.T) {
	f := newMeetingFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	f.seedPlan(t, &plan.Plan{
		Name: "Basic", Tier: plan.TierFree,
		MeetingsAllowed: 2, MeetingDurationMinutes: 30, StorageLimitGB: 5,
		IsActive: true, IsPublic: true,
	})
	if _, err := f.subscriptionFixture.service.Subscribe(ctx, actorFor(u), u.ID, 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	m := &meeting.Meeting{
		UserID:             u.ID,
		Title:              "kickoff",
		DurationMinutes:    25,
		RecordingSizeBytes: storage.BytesPerGB,
	}
	if err := f.service.Create(ctx, actorFor(u), m); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if m.ID == 0 {
		t.Error("Create() did not set meeting ID")
	}
	if f.storage.Bytes[u.ID] != storage.BytesPerGB {
		t.Errorf("Create() stored bytes = %d, want %d", f.storage.Bytes[u.ID], storage.BytesPerGB)
	}

	// Too long for the per-meeting duration cap.
	long := &meeting.Meeting{UserID: u.ID, Title: "all-hands", DurationMinutes: 45}
	if err := f.service.Create(ctx, actorFor(u), long); !errors.IsCode(err, errors.ErrCodeLimitReached) {
		t.Errorf("Create() over-duration error = %v, want limit reached", err)
	}

	// Second meeting fits; third exhausts the allowance.
	if err := f.service.Create(ctx, actorFor(u), &meeting.Meeting{UserID: u.ID, Title: "retro", DurationMinutes: 20}); err != nil {
		t.Fatalf("Create() second meeting error = %v", err)
	}
	err := f.service.Create(ctx, actorFor(u), &meeting.Meeting{UserID: u.ID, Title: "overflow", DurationMinutes: 10})
	if !errors.IsCode(err, errors.ErrCodeLimitReached) {
		t.Errorf("Create() exhausted allowance error = %v, want limit reached", err)
	}
}

func TestMeetingService_Create_NoSubscription(t *testing.T) {
	f := newMeetingFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")

	// Without an active subscription every allowance is zero.
	err := f.service.Create(ctx, actorFor(u), &meeting.Meeting{UserID: u.ID, Title: "kickoff", DurationMinutes: 10})
	if !errors.IsCode(err, errors.ErrCodeLimitReached) {
		t.Errorf("Create() without subscription error = %v, want limit reached", err)
	}
}

func TestMeetingService_Ownership(t *testing.T) {
	f := newMeetingFixture()
	ctx := context.Background()

	alice := f.seedUser(t, "alice@example.com")
	bob := f.seedUser(t, "bob@example.com")
	f.seedPlan(t, &plan.Plan{
		Name: "Basic", Tier: plan.TierFree,
		MeetingsAllowed: 10, MeetingDurationMinutes: 60, StorageLimitGB: 5,
		IsActive: true, IsPublic: true,
	})
	if _, err := f.subscriptionFixture.service.Subscribe(ctx, actorFor(alice), alice.ID, 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	m := &meeting.Meeting{UserID: alice.ID, Title: "private", DurationMinutes: 10}
	if err := f.service.Create(ctx, actorFor(alice), m); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Bob cannot create meetings for, read, or delete Alice's meetings.
	if err := f.service.Create(ctx, actorFor(bob), &meeting.Meeting{UserID: alice.ID, Title: "x"}); !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("Create() cross-user error = %v, want forbidden", err)
	}
	if _, err := f.service.Get(ctx, actorFor(bob), m.ID); !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("Get() cross-user error = %v, want forbidden", err)
	}
	if err := f.service.Delete(ctx, actorFor(bob), m.ID); !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("Delete() cross-user error = %v, want forbidden", err)
	}
	if _, _, err := f.service.List(ctx, actorFor(bob), alice.ID, 20, 0); !errors.IsCode(err, errors.ErrCodeForbidden) {
		t.Errorf("List() cross-user error = %v, want forbidden", err)
	}

	// Admins can.
	if _, err := f.service.Get(ctx, adminActor(), m.ID); err != nil {
		t.Errorf("Get() as admin error = %v", err)
	}
}

func TestMeetingService_Delete_ReleasesStorage(t *testing.T) {
	f := newMeetingFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	f.seedPlan(t, &plan.Plan{
		Name: "Basic", Tier: plan.TierFree,
		MeetingsAllowed: 10, MeetingDurationMinutes: 60, StorageLimitGB: 5,
		IsActive: true, IsPublic: true,
	})
	if _, err := f.subscriptionFixture.service.Subscribe(ctx, actorFor(u), u.ID, 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	m := &meeting.Meeting{
		UserID: u.ID, Title: "recorded", DurationMinutes: 30,
		RecordingSizeBytes: 2 * storage.BytesPerGB,
	}
	if err := f.service.Create(ctx, actorFor(u), m); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	remaining, _ := f.subscriptionFixture.service.RemainingLimits(ctx, actorFor(u), u.ID)
	if remaining.StorageLimitGB != 3 {
		t.Errorf("RemainingLimits() storage = %d GB, want 3", remaining.StorageLimitGB)
	}

	if err := f.service.Delete(ctx, actorFor(u), m.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	remaining, _ = f.subscriptionFixture.service.RemainingLimits(ctx, actorFor(u), u.ID)
	if remaining.StorageLimitGB != 5 {
		t.Errorf("RemainingLimits() storage after delete = %d GB, want 5", remaining.StorageLimitGB)
	}
	if remaining.MeetingsAllowed != 10 {
		t.Errorf("RemainingLimits() meetings after delete = %d, want 10", remaining.MeetingsAllowed)
	}
}

func TestMeetingService_List_Pagination(t *testing.T) {
	f := newMeetingFixture()
	ctx := context.Background()

	u := f.seedUser(t, "alice@example.com")
	for i := 0; i < 5; i++ {
		f.meetings.Create(ctx, &meeting.Meeting{UserID: u.ID, Title: "m", DurationMinutes: 10})
	}

	page, total, err := f.service.List(ctx, actorFor(u), u.ID, 2, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("List() total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Errorf("List() page size = %d, want 2", len(page))
	}
}
