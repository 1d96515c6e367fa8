package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/notemeet/notemeet/internal/api/middleware"
	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/domain/user"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/validator"
	"github.com/notemeet/notemeet/internal/services"
	"github.com/notemeet/notemeet/internal/testutil"
)

func newSubscriptionHandlerFixture(t *testing.T) (*SubscriptionHandler, *testutil.MockUserRepository, *testutil.MockPlanRepository) {
	t.Helper()

	users := testutil.NewMockUserRepository()
	plans := testutil.NewMockPlanRepository()
	subs := testutil.NewMockSubscriptionRepository(plans)
	meetings := testutil.NewMockMeetingRepository()
	store := testutil.NewMockStorageRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	service := services.NewSubscriptionService(subs, plans, users, meetings, store, log)
	return NewSubscriptionHandler(service, log, validator.New()), users, plans
}

func authedRequest(method, target string, body []byte, userID int64, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
	return req.WithContext(ctx)
}

func TestSubscriptionHandler_Subscribe(t *testing.T) {
	handler, users, plans := newSubscriptionHandlerFixture(t)
	ctx := context.Background()

	u := &user.User{Email: "alice@example.com", Role: user.RoleUser, PasswordHash: "x"}
	users.Create(ctx, u)
	p := &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly,
		IsActive: true, IsPublic: true,
	}
	plans.Create(ctx, p)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "successful subscribe",
			body:           `{"plan_id": 1}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate subscribe",
			body:           `{"plan_id": 1}`,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "missing plan_id",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown plan",
			body:           `{"plan_id": 404}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed body",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodPost, "/api/v1/subscriptions", []byte(tt.body), u.ID, u.Role)
			rr := httptest.NewRecorder()

			handler.Subscribe(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v, body %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			var response map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			wantSuccess := tt.expectedStatus < 400
			if response["success"] != wantSuccess {
				t.Errorf("response success = %v, want %v", response["success"], wantSuccess)
			}
		})
	}
}

func TestSubscriptionHandler_Subscribe_Unauthenticated(t *testing.T) {
	handler, _, _ := newSubscriptionHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewReader([]byte(`{"plan_id": 1}`)))
	rr := httptest.NewRecorder()

	handler.Subscribe(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusUnauthorized)
	}
}

func TestSubscriptionHandler_MyLimits(t *testing.T) {
	handler, users, plans := newSubscriptionHandlerFixture(t)
	ctx := context.Background()

	u := &user.User{Email: "alice@example.com", Role: user.RoleUser, PasswordHash: "x"}
	users.Create(ctx, u)
	p := &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly,
		MeetingsAllowed: 50, MeetingDurationMinutes: 60, StorageLimitGB: 10,
		IsActive: true, IsPublic: true,
	}
	plans.Create(ctx, p)

	// Subscribe through the handler.
	req := authedRequest(http.MethodPost, "/api/v1/subscriptions", []byte(`{"plan_id": 1}`), u.ID, u.Role)
	rr := httptest.NewRecorder()
	handler.Subscribe(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Subscribe() status = %v, body %s", rr.Code, rr.Body.String())
	}

	req = authedRequest(http.MethodGet, "/api/v1/subscriptions/me/limits", nil, u.ID, u.Role)
	rr = httptest.NewRecorder()
	handler.MyLimits(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("MyLimits() status = %v, body %s", rr.Code, rr.Body.String())
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			StorageLimitGB         int64 `json:"storage_limit_gb"`
			MeetingDurationMinutes int64 `json:"meeting_duration_minutes"`
			MeetingsAllowed        int64 `json:"meetings_allowed"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.StorageLimitGB != 10 || response.Data.MeetingsAllowed != 50 || response.Data.MeetingDurationMinutes != 60 {
		t.Errorf("MyLimits() data = %+v, want plan allowances", response.Data)
	}
}

func TestSubscriptionHandler_Cancel(t *testing.T) {
	handler, users, plans := newSubscriptionHandlerFixture(t)
	ctx := context.Background()

	u := &user.User{Email: "alice@example.com", Role: user.RoleUser, PasswordHash: "x"}
	users.Create(ctx, u)
	plans.Create(ctx, &plan.Plan{
		Name: "Pro", Tier: plan.TierPro, BillingPeriod: plan.PeriodMonthly,
		IsActive: true, IsPublic: true,
	})

	req := authedRequest(http.MethodPost, "/api/v1/subscriptions", []byte(`{"plan_id": 1}`), u.ID, u.Role)
	rr := httptest.NewRecorder()
	handler.Subscribe(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Subscribe() status = %v", rr.Code)
	}

	// Empty body cancels everything.
	req = authedRequest(http.MethodDelete, "/api/v1/subscriptions/me", nil, u.ID, u.Role)
	rr = httptest.NewRecorder()
	handler.Cancel(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Cancel() status = %v, body %s", rr.Code, rr.Body.String())
	}

	req = authedRequest(http.MethodGet, "/api/v1/subscriptions/me", nil, u.ID, u.Role)
	rr = httptest.NewRecorder()
	handler.Mine(rr, req)

	var response struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 0 {
		t.Errorf("Mine() after cancel = %d subscriptions, want 0", len(response.Data))
	}
}
