package dto

import "time"

// CreateMeetingRequest represents a request to record a meeting
type CreateMeetingRequest struct {
	Title              string    `json:"title" validate:"required,min=1,max=200"`
	StartsAt           time.Time `json:"starts_at" validate:"required"`
	DurationMinutes    int       `json:"duration_minutes" validate:"required,gt=0"`
	RecordingSizeBytes int64     `json:"recording_size_bytes" validate:"min=0"`
}
