package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/notemeet/notemeet/internal/domain/storage"
	"github.com/notemeet/notemeet/internal/pkg/errors"
)

// StorageRepository implements storage.Repository
type StorageRepository struct {
	db *DB
}

// NewStorageRepository creates a new storage accumulator repository
func NewStorageRepository(db *DB) storage.Repository {
	return &StorageRepository{db: db}
}

// Get returns the user's storage accumulator, creating a zeroed row if none
// exists yet
func (r *StorageRepository) Get(ctx context.Context, userID int64) (*storage.UserStorage, error) {
	now := time.Now()

	// Lazy upsert: a user who has never stored anything still gets a row
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_storage (user_id, used_storage_bytes, updated_at)
		VALUES (?, 0, ?)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, now.Unix())
	if err != nil {
		return nil, errors.DatabaseError("Failed to initialize user storage", err)
	}

	var s storage.UserStorage
	var updatedAt int64
	err = r.db.QueryRowContext(ctx, `
		SELECT user_id, used_storage_bytes, updated_at
		FROM user_storage WHERE user_id = ?
	`, userID).Scan(&s.UserID, &s.UsedStorageBytes, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User storage")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user storage", err)
	}

	s.UpdatedAt = time.Unix(updatedAt, 0)
	return &s, nil
}

// Add adds delta bytes to the user's accumulator, creating the row when
// absent. Negative deltas are clamped at zero.
func (r *StorageRepository) Add(ctx context.Context, userID int64, delta int64) error {
	now := time.Now()

	clamp := r.db.clampFn()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_storage (user_id, used_storage_bytes, updated_at)
		VALUES (?, `+clamp+`(0, ?), ?)
		ON CONFLICT (user_id) DO UPDATE SET
			used_storage_bytes = `+clamp+`(0, user_storage.used_storage_bytes + ?),
			updated_at = ?
	`, userID, delta, now.Unix(), delta, now.Unix())
	if err != nil {
		return errors.DatabaseError("Failed to update user storage", err)
	}

	return nil
}
