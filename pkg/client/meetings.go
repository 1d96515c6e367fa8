package client

import (
	"context"
	"fmt"
	"time"
)

// MeetingService provides access to meeting management
type MeetingService struct {
	client *Client
}

// CreateMeetingRequest represents a request to record a meeting
type CreateMeetingRequest struct {
	Title              string    `json:"title"`
	StartsAt           time.Time `json:"starts_at"`
	DurationMinutes    int       `json:"duration_minutes"`
	RecordingSizeBytes int64     `json:"recording_size_bytes,omitempty"`
}

// Create records a new meeting
func (s *MeetingService) Create(ctx context.Context, req CreateMeetingRequest) (*Meeting, error) {
	var m Meeting
	if err := s.client.doRequest(ctx, "POST", "/api/v1/meetings", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns the caller's meetings
func (s *MeetingService) List(ctx context.Context, page, pageSize int) (*MeetingPage, error) {
	path := fmt.Sprintf("/api/v1/meetings?page=%d&page_size=%d", page, pageSize)

	var result MeetingPage
	if err := s.client.doRequest(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get returns a single meeting by ID
func (s *MeetingService) Get(ctx context.Context, id int64) (*Meeting, error) {
	var m Meeting
	path := fmt.Sprintf("/api/v1/meetings/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a meeting
func (s *MeetingService) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/meetings/%d", id)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}
