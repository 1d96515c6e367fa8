package meeting

import "time"

// Meeting is a recorded meeting owned by a user. Meeting rows are the
// usage source for the meetings-allowed allowance, and their recording
// sizes feed the per-user storage accumulator.
type Meeting struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Title              string    `json:"title"`
	StartsAt           time.Time `json:"starts_at"`
	DurationMinutes    int       `json:"duration_minutes"`
	RecordingSizeBytes int64     `json:"recording_size_bytes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
