package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/notemeet/notemeet/internal/api/dto"
	"github.com/notemeet/notemeet/internal/api/middleware"
	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/utils"
	"github.com/notemeet/notemeet/internal/pkg/validator"
)

// AdminHandler handles admin subscription management requests. Routes are
// mounted behind RequireAdmin, so handlers act with the caller's admin actor.
type AdminHandler struct {
	subService subscription.Service
	logger     *logger.Logger
	validator  *validator.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(subService subscription.Service, log *logger.Logger, val *validator.Validator) *AdminHandler {
	return &AdminHandler{
		subService: subService,
		logger:     log,
		validator:  val,
	}
}

// UserSubscriptions returns a user's active subscriptions
// @Summary User subscriptions
// @Description List any user's active subscriptions
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} subscription.WithPlan "Active subscriptions"
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/subscriptions [get]
func (h *AdminHandler) UserSubscriptions(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r)

	userID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	subs, err := h.subService.UserSubscriptions(r.Context(), actor, userID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, subs)
}

// UserLimits returns a user's aggregated total allowances
// @Summary User total limits
// @Description Sum allowances across any user's active subscriptions
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.LimitsResponse "Total allowances"
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/limits [get]
func (h *AdminHandler) UserLimits(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r)

	userID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	limits, err := h.subService.TotalLimits(r.Context(), actor, userID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, limitsResponse(limits))
}

// UserRemaining returns a user's allowances after consumption
// @Summary User remaining limits
// @Description Any user's total allowances minus recorded usage
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.LimitsResponse "Remaining allowances"
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/remaining [get]
func (h *AdminHandler) UserRemaining(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r)

	userID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	limits, err := h.subService.RemainingLimits(r.Context(), actor, userID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, limitsResponse(limits))
}

// SubscribeUser enrolls any user in a plan on their behalf
// @Summary Subscribe user
// @Description Enroll a user in a plan
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.SubscribeRequest true "Plan to subscribe to"
// @Success 201 {object} subscription.Subscription "Created subscription"
// @Failure 404 {object} utils.ErrorResponse "User or plan not found"
// @Failure 409 {object} utils.ErrorResponse "Already subscribed to this plan"
// @Security BearerAuth
// @Router /admin/users/{id}/subscriptions [post]
func (h *AdminHandler) SubscribeUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r)

	userID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
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

	sub, err := h.subService.Subscribe(r.Context(), actor, userID, req.PlanID)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, sub)
}

// CancelSubscription cancels a subscription by ID
// @Summary Cancel subscription
// @Description Cancel a single subscription by ID
// @Tags Admin
// @Param id path int true "Subscription ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Security BearerAuth
// @Router /admin/subscriptions/{id}/cancel [post]
func (h *AdminHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	if err := h.subService.CancelByID(r.Context(), id); err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription canceled", nil)
}

// RenewSubscription renews a subscription by ID
// @Summary Renew subscription
// @Description Reactivate a subscription and advance its billing period
// @Tags Admin
// @Produce json
// @Param id path int true "Subscription ID"
// @Success 200 {object} subscription.Subscription "Renewed subscription"
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Failure 409 {object} utils.ErrorResponse "Another active subscription exists for the plan"
// @Security BearerAuth
// @Router /admin/subscriptions/{id}/renew [post]
func (h *AdminHandler) RenewSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	sub, err := h.subService.RenewByID(r.Context(), id)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, sub)
}

// DeleteSubscription hard-deletes a subscription by ID
// @Summary Delete subscription
// @Description Permanently remove a subscription record
// @Tags Admin
// @Param id path int true "Subscription ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Security BearerAuth
// @Router /admin/subscriptions/{id} [delete]
func (h *AdminHandler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	if err := h.subService.DeleteByID(r.Context(), id); err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription deleted", nil)
}
