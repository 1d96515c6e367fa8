package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/notemeet/notemeet/internal/domain/meeting"
	"github.com/notemeet/notemeet/internal/pkg/errors"
)

// MeetingRepository implements meeting.Repository
type MeetingRepository struct {
	db *DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *DB) meeting.Repository {
	return &MeetingRepository{db: db}
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, m *meeting.Meeting) error {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `
		INSERT INTO meetings (user_id, title, starts_at, duration_minutes,
			recording_size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.insertID(ctx, query,
		m.UserID, m.Title, m.StartsAt.Unix(), m.DurationMinutes,
		m.RecordingSizeBytes, now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create meeting", err)
	}

	m.ID = id
	return nil
}

// GetByID retrieves a meeting by ID
func (r *MeetingRepository) GetByID(ctx context.Context, id int64) (*meeting.Meeting, error) {
	query := `
		SELECT id, user_id, title, starts_at, duration_minutes,
			recording_size_bytes, created_at, updated_at
		FROM meetings WHERE id = ?
	`

	var m meeting.Meeting
	var startsAt, createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.UserID, &m.Title, &startsAt, &m.DurationMinutes,
		&m.RecordingSizeBytes, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Meeting")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get meeting", err)
	}

	m.StartsAt = time.Unix(startsAt, 0)
	m.CreatedAt = time.Unix(createdAt, 0)
	m.UpdatedAt = time.Unix(updatedAt, 0)

	return &m, nil
}

// Delete deletes a meeting
func (r *MeetingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete meeting", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Meeting")
	}

	return nil
}

// ListByUser retrieves a user's meetings with pagination
func (r *MeetingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*meeting.Meeting, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meetings WHERE user_id = ?`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count meetings", err)
	}

	query := `
		SELECT id, user_id, title, starts_at, duration_minutes,
			recording_size_bytes, created_at, updated_at
		FROM meetings
		WHERE user_id = ?
		ORDER BY starts_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list meetings", err)
	}
	defer rows.Close()

	var meetings []*meeting.Meeting
	for rows.Next() {
		var m meeting.Meeting
		var startsAt, createdAt, updatedAt int64

		err := rows.Scan(&m.ID, &m.UserID, &m.Title, &startsAt, &m.DurationMinutes,
			&m.RecordingSizeBytes, &createdAt, &updatedAt)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan meeting", err)
		}

		m.StartsAt = time.Unix(startsAt, 0)
		m.CreatedAt = time.Unix(createdAt, 0)
		m.UpdatedAt = time.Unix(updatedAt, 0)

		meetings = append(meetings, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate meetings", err)
	}

	return meetings, total, nil
}

// CountByUser returns the number of meetings a user owns
func (r *MeetingRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meetings WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count meetings", err)
	}
	return count, nil
}
