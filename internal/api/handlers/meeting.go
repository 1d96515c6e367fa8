package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/notemeet/notemeet/internal/api/dto"
	"github.com/notemeet/notemeet/internal/api/middleware"
	"github.com/notemeet/notemeet/internal/domain/meeting"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/utils"
	"github.com/notemeet/notemeet/internal/pkg/validator"
)

// MeetingHandler handles meeting requests
type MeetingHandler struct {
	meetingService meeting.Service
	logger         *logger.Logger
	validator      *validator.Validator
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(
	meetingService meeting.Service,
	log *logger.Logger,
	val *validator.Validator,
) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
		logger:         log,
		validator:      val,
	}
}

// Create records a new meeting for the caller
// @Summary Create meeting
// @Description Record a meeting, consuming the caller's meeting allowance
// @Tags Meetings
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Meeting details"
// @Success 201 {object} meeting.Meeting "Created meeting"
// @Failure 409 {object} utils.ErrorResponse "Allowance exhausted"
// @Security BearerAuth
// @Router /meetings [post]
func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	var req dto.CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	m := &meeting.Meeting{
		UserID:             actor.UserID,
		Title:              req.Title,
		StartsAt:           req.StartsAt,
		DurationMinutes:    req.DurationMinutes,
		RecordingSizeBytes: req.RecordingSizeBytes,
	}

	if err := h.meetingService.Create(r.Context(), actor, m); err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, m)
}

// List returns the caller's meetings
// @Summary List meetings
// @Description List the authenticated user's meetings with pagination
// @Tags Meetings
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.PaginatedResponse "Meetings"
// @Security BearerAuth
// @Router /meetings [get]
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	params := utils.ParsePaginationParams(r)

	meetings, total, err := h.meetingService.List(r.Context(), actor, actor.UserID, params.PageSize, params.Offset)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(meetings, params.Page, params.PageSize, total))
}

// Get returns a single meeting
// @Summary Get meeting
// @Description Get a meeting by ID
// @Tags Meetings
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} meeting.Meeting "Meeting"
// @Failure 404 {object} utils.ErrorResponse "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{id} [get]
func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	m, err := h.meetingService.Get(r.Context(), actor, id)
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, m)
}

// Delete removes a meeting
// @Summary Delete meeting
// @Description Delete a meeting and release its recording storage
// @Tags Meetings
// @Param id path int true "Meeting ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{id} [delete]
func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	if err := h.meetingService.Delete(r.Context(), actor, id); err != nil {
		utils.WriteError(w, errors.From(err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Meeting deleted", nil)
}
