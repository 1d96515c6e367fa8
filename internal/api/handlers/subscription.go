package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/notemeet/notemeet/internal/api/dto"
	"github.com/notemeet/notemeet/internal/api/middleware"
	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/utils"
	"github.com/notemeet/notemeet/internal/pkg/validator"
)

// SubscriptionHandler handles subscription lifecycle and limits requests
type SubscriptionHandler struct {
	subService subscription.Service
	logger     *logger.Logger
	validator  *validator.Validator
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	subService subscription.Service,
	log *logger.Logger,
	val *validator.Validator,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
		logger:     log,
		validator:  val,
	}
}

// Mine returns the caller's active subscriptions
// @Summary My subscriptions
// @Description List the authenticated user's active subscriptions
// @Tags Subscriptions
// @Produce json
// @Success 200 {array} subscription.WithPlan "Active subscriptions"
// @Security BearerAuth
// @Router /subscriptions/me [get]
func (h *SubscriptionHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	subs, err := h.subService.UserSubscriptions(r.Context(), actor, actor.UserID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, subs)
}

// MyLimits returns the caller's aggregated total allowances
// @Summary My total limits
// @Description Sum allowances across the authenticated user's active subscriptions
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.LimitsResponse "Total allowances"
// @Security BearerAuth
// @Router /subscriptions/me/limits [get]
func (h *SubscriptionHandler) MyLimits(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	limits, err := h.subService.TotalLimits(r.Context(), actor, actor.UserID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, limitsResponse(limits))
}

// MyRemaining returns the caller's allowances after consumption
// @Summary My remaining limits
// @Description Total allowances minus recorded usage
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.LimitsResponse "Remaining allowances"
// @Security BearerAuth
// @Router /subscriptions/me/remaining [get]
func (h *SubscriptionHandler) MyRemaining(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	limits, err := h.subService.RemainingLimits(r.Context(), actor, actor.UserID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, limitsResponse(limits))
}

// MyEarlyAccess reports the caller's early-access membership
// @Summary My early access
// @Description Whether the authenticated user holds an early-access plan
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.EarlyAccessResponse "Membership flag"
// @Security BearerAuth
// @Router /subscriptions/me/early-access [get]
func (h *SubscriptionHandler) MyEarlyAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	enabled, err := h.subService.IsEarlyAccess(r.Context(), actor, actor.UserID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.EarlyAccessResponse{EarlyAccess: enabled})
}

// Subscribe enrolls the caller in a plan
// @Summary Subscribe
// @Description Enroll the authenticated user in a plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Plan to subscribe to"
// @Success 201 {object} subscription.Subscription "Created subscription"
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Failure 409 {object} utils.ErrorResponse "Already subscribed to this plan"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	sub, err := h.subService.Subscribe(r.Context(), actor, actor.UserID, req.PlanID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, sub)
}

// Cancel cancels the caller's subscriptions. With a plan_id in the body only
// that plan is canceled, otherwise all active subscriptions are.
// @Summary Cancel subscriptions
// @Description Cancel the authenticated user's subscriptions
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body dto.CancelRequest false "Optional plan to cancel"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /subscriptions/me [delete]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	// An empty body means cancel everything
	var req dto.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	var err error
	if req.PlanID != nil {
		err = h.subService.CancelPlan(r.Context(), actor, actor.UserID, *req.PlanID)
	} else {
		err = h.subService.CancelAll(r.Context(), actor, actor.UserID)
	}
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscriptions canceled", nil)
}

func limitsResponse(l subscription.Limits) dto.LimitsResponse {
	return dto.LimitsResponse{
		StorageLimitGB:         l.StorageLimitGB,
		MeetingDurationMinutes: l.MeetingDurationMinutes,
		MeetingsAllowed:        l.MeetingsAllowed,
	}
}
