package postgres_test

import (
	"context"
	"testing"

	"github.com/notemeet/notemeet/internal/repository/postgres"
	"github.com/notemeet/notemeet/internal/testutil"
)

func TestStorageRepository_GetAndAdd(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := postgres.NewUserRepository(db)
	repo := postgres.NewStorageRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "alice@example.com")

	// First read lazily creates a zeroed row.
	s, err := repo.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.UsedStorageBytes != 0 {
		t.Errorf("Get() initial bytes = %d, want 0", s.UsedStorageBytes)
	}

	if err := repo.Add(ctx, u.ID, 1024); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := repo.Add(ctx, u.ID, 2048); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s, _ = repo.Get(ctx, u.ID)
	if s.UsedStorageBytes != 3072 {
		t.Errorf("Get() bytes = %d, want 3072", s.UsedStorageBytes)
	}

	// Releasing more than is stored clamps at zero.
	if err := repo.Add(ctx, u.ID, -4096); err != nil {
		t.Fatalf("Add() negative delta error = %v", err)
	}
	s, _ = repo.Get(ctx, u.ID)
	if s.UsedStorageBytes != 0 {
		t.Errorf("Get() bytes after over-release = %d, want 0", s.UsedStorageBytes)
	}
}

func TestStorageRepository_Add_CreatesRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := postgres.NewUserRepository(db)
	repo := postgres.NewStorageRepository(db)
	ctx := context.Background()

	u := seedUser(t, users, "bob@example.com")

	// Adding before any read still works.
	if err := repo.Add(ctx, u.ID, 512); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s, err := repo.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.UsedStorageBytes != 512 {
		t.Errorf("Get() bytes = %d, want 512", s.UsedStorageBytes)
	}
}
