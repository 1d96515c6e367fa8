package storage

import "time"

// UserStorage is a per-user accumulator of stored recording bytes. The row
// is created lazily with a zero count on first read.
type UserStorage struct {
	UserID           int64     `json:"user_id"`
	UsedStorageBytes int64     `json:"used_storage_bytes"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BytesPerGB converts the accumulator's byte counts to the whole-GB unit
// plan allowances are expressed in.
const BytesPerGB = int64(1) << 30
