package services

import (
	"context"

	"github.com/notemeet/notemeet/internal/auth"
	"github.com/notemeet/notemeet/internal/domain/meeting"
	"github.com/notemeet/notemeet/internal/domain/storage"
	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/notemeet/notemeet/internal/pkg/metrics"
)

// MeetingService implements meeting.Service. Creating a meeting consumes the
// owner's meeting allowance and its recording size counts against storage.
type MeetingService struct {
	meetings meeting.Repository
	storage  storage.Repository
	subs     subscription.Service
	logger   *logger.Logger
}

// NewMeetingService creates a new meeting service
func NewMeetingService(
	meetings meeting.Repository,
	store storage.Repository,
	subs subscription.Service,
	log *logger.Logger,
) meeting.Service {
	return &MeetingService{
		meetings: meetings,
		storage:  store,
		subs:     subs,
		logger:   log,
	}
}

// Create records a new meeting after checking the owner's remaining allowances
func (s *MeetingService) Create(ctx context.Context, actor auth.Actor, m *meeting.Meeting) error {
	if !actor.CanActOn(m.UserID) {
		return errors.Forbidden("Not allowed to create meetings for this user")
	}

	remaining, err := s.subs.RemainingLimits(ctx, actor, m.UserID)
	if err != nil {
		return err
	}

	if remaining.MeetingsAllowed <= 0 {
		metrics.RecordLimitRejection("meetings")
		return errors.LimitReached("Meeting allowance exhausted")
	}
	if int64(m.DurationMinutes) > remaining.MeetingDurationMinutes {
		metrics.RecordLimitRejection("duration")
		return errors.LimitReached("Meeting exceeds allowed duration")
	}

	if err := s.meetings.Create(ctx, m); err != nil {
		return err
	}

	if m.RecordingSizeBytes > 0 {
		if err := s.storage.Add(ctx, m.UserID, m.RecordingSizeBytes); err != nil {
			return err
		}
	}

	metrics.RecordMeetingCreated()
	s.logger.WithFields(map[string]interface{}{
		"meeting_id": m.ID,
		"user_id":    m.UserID,
	}).Info("Meeting created")
	return nil
}

// Get retrieves a meeting, enforcing ownership
func (s *MeetingService) Get(ctx context.Context, actor auth.Actor, id int64) (*meeting.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanActOn(m.UserID) {
		return nil, errors.Forbidden("Not allowed to access this meeting")
	}
	return m, nil
}

// Delete removes a meeting and releases its recording storage
func (s *MeetingService) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanActOn(m.UserID) {
		return errors.Forbidden("Not allowed to delete this meeting")
	}

	if err := s.meetings.Delete(ctx, id); err != nil {
		return err
	}

	if m.RecordingSizeBytes > 0 {
		if err := s.storage.Add(ctx, m.UserID, -m.RecordingSizeBytes); err != nil {
			return err
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"meeting_id": id,
		"user_id":    m.UserID,
	}).Info("Meeting deleted")
	return nil
}

// List retrieves a user's meetings with pagination
func (s *MeetingService) List(ctx context.Context, actor auth.Actor, userID int64, limit, offset int) ([]*meeting.Meeting, int64, error) {
	if !actor.CanActOn(userID) {
		return nil, 0, errors.Forbidden("Not allowed to list this user's meetings")
	}
	return s.meetings.ListByUser(ctx, userID, limit, offset)
}
