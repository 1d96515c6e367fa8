package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/notemeet/notemeet/internal/api/dto"
	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/utils"
	"github.com/notemeet/notemeet/internal/pkg/validator"
)

// PlanHandler handles plan catalog requests
type PlanHandler struct {
	planService plan.Service
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService plan.Service, log *logger.Logger, val *validator.Validator) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      log,
		validator:   val,
	}
}

// List returns the public plan catalog
// @Summary List plans
// @Description List the publicly available subscription plans
// @Tags Plans
// @Produce json
// @Success 200 {array} plan.Plan "Plan catalog"
// @Router /plans [get]
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.List(r.Context(), true)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, plans)
}

// Get returns a single plan
// @Summary Get plan
// @Description Get a subscription plan by ID
// @Tags Plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} plan.Plan "Plan"
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	p, err := h.planService.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, p)
}

// ListAll returns the full catalog including private and inactive plans
// @Summary List all plans
// @Description List every catalog plan, including inactive and private ones
// @Tags Admin
// @Produce json
// @Success 200 {array} plan.Plan "Plan catalog"
// @Security BearerAuth
// @Router /admin/plans [get]
func (h *PlanHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.List(r.Context(), false)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, plans)
}

// Create adds a plan to the catalog
// @Summary Create plan
// @Description Add a new plan to the catalog
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreatePlanRequest true "Plan details"
// @Success 201 {object} plan.Plan "Created plan"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /admin/plans [post]
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p := &plan.Plan{
		Name:                   req.Name,
		Tier:                   req.Tier,
		Description:            req.Description,
		PriceCents:             req.PriceCents,
		Currency:               req.Currency,
		BillingPeriod:          req.BillingPeriod,
		MeetingsAllowed:        req.MeetingsAllowed,
		MeetingDurationMinutes: req.MeetingDurationMinutes,
		StorageLimitGB:         req.StorageLimitGB,
		TrialDays:              req.TrialDays,
		IsActive:               req.IsActive,
		IsPublic:               req.IsPublic,
		EarlyAccess:            req.EarlyAccess,
		Features:               req.Features,
	}

	if err := h.planService.Create(r.Context(), p); err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, p)
}

// Update modifies a catalog plan
// @Summary Update plan
// @Description Modify an existing catalog plan
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param request body dto.UpdatePlanRequest true "Fields to update"
// @Success 200 {object} plan.Plan "Updated plan"
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Security BearerAuth
// @Router /admin/plans/{id} [put]
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	var req dto.UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.planService.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	applyPlanUpdate(p, &req)

	if err := h.planService.Update(r.Context(), p); err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, p)
}

// Delete removes a plan from the catalog
// @Summary Delete plan
// @Description Remove a plan from the catalog
// @Tags Admin
// @Param id path int true "Plan ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Security BearerAuth
// @Router /admin/plans/{id} [delete]
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	if err := h.planService.Delete(r.Context(), id); err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Plan deleted", nil)
}

func applyPlanUpdate(p *plan.Plan, req *dto.UpdatePlanRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if req.MeetingsAllowed != nil {
		p.MeetingsAllowed = *req.MeetingsAllowed
	}
	if req.MeetingDurationMinutes != nil {
		p.MeetingDurationMinutes = *req.MeetingDurationMinutes
	}
	if req.StorageLimitGB != nil {
		p.StorageLimitGB = *req.StorageLimitGB
	}
	if req.TrialDays != nil {
		p.TrialDays = *req.TrialDays
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.IsPublic != nil {
		p.IsPublic = *req.IsPublic
	}
	if req.EarlyAccess != nil {
		p.EarlyAccess = *req.EarlyAccess
	}
	if req.Features != nil {
		p.Features = req.Features
	}
}
