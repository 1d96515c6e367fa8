package services

import (
	"context"
	"testing"

	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/testutil"
)

func TestPlanService_Create(t *testing.T) {
	repo := testutil.NewMockPlanRepository()
	service := NewPlanService(repo, testLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		plan    *plan.Plan
		wantErr bool
	}{
		{
			name: "valid plan",
			plan: &plan.Plan{
				Name: "Pro", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly,
				PriceCents: 1500, MeetingsAllowed: 50, MeetingDurationMinutes: 60,
				StorageLimitGB: 10, IsActive: true, IsPublic: true,
			},
			wantErr: false,
		},
		{
			name: "unknown tier",
			plan: &plan.Plan{
				Name: "Bad", Tier: "platinum", BillingPeriod: plan.PeriodMonthly,
			},
			wantErr: true,
		},
		{
			name: "unknown billing period",
			plan: &plan.Plan{
				Name: "Bad", Tier: plan.TierPro, BillingPeriod: "weekly",
			},
			wantErr: true,
		},
		{
			name: "negative price",
			plan: &plan.Plan{
				Name: "Bad", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly,
				PriceCents: -1,
			},
			wantErr: true,
		},
		{
			name: "negative allowance",
			plan: &plan.Plan{
				Name: "Bad", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly,
				MeetingsAllowed: -5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Create(ctx, tt.plan)

			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.IsCode(err, errors.ErrCodeBadRequest) {
					t.Errorf("Create() error code = %v, want bad request", err)
				}
				return
			}
			if tt.plan.ID == 0 {
				t.Error("Create() did not set plan ID")
			}
		})
	}
}

func TestPlanService_List_PublicOnly(t *testing.T) {
	repo := testutil.NewMockPlanRepository()
	service := NewPlanService(repo, testLogger())
	ctx := context.Background()

	seed := []*plan.Plan{
		{Name: "Free", Tier: plan.TierFree, BillingPeriod: plan.PeriodMonthly, IsActive: true, IsPublic: true},
		{Name: "Hidden", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly, IsActive: true, IsPublic: false},
		{Name: "Retired", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly, IsActive: false, IsPublic: true},
	}
	for _, p := range seed {
		if err := service.Create(ctx, p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	public, err := service.List(ctx, true)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(public) != 1 || public[0].Name != "Free" {
		t.Errorf("List(publicOnly) = %d plans, want only the public active one", len(public))
	}

	all, err := service.List(ctx, false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(all) = %d plans, want 3", len(all))
	}
}

func TestPlanService_Update(t *testing.T) {
	repo := testutil.NewMockPlanRepository()
	service := NewPlanService(repo, testLogger())
	ctx := context.Background()

	p := &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly,
		PriceCents: 1500, IsActive: true, IsPublic: true,
	}
	if err := service.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p.PriceCents = 2000
	if err := service.Update(ctx, p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := service.GetByID(ctx, p.ID)
	if got.PriceCents != 2000 {
		t.Errorf("Update() price = %d, want 2000", got.PriceCents)
	}

	missing := &plan.Plan{ID: 404, Name: "Ghost", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly}
	if err := service.Update(ctx, missing); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Update() missing plan error = %v, want not found", err)
	}
}
