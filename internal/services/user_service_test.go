package services

import (
	"context"
	"testing"

	"github.com/notemeet/notemeet/internal/domain/user"
	"github.com/notemeet/notemeet/internal/pkg/errors"
	"github.com/notemeet/notemeet/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	service := NewUserService(repo, bcrypt.MinCost, testLogger())
	ctx := context.Background()

	u, err := service.Register(ctx, "test@example.com", "tester", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.Role != user.RoleUser {
		t.Errorf("Register() role = %v, want %v", u.Role, user.RoleUser)
	}
	if u.PasswordHash == "hunter22" || u.PasswordHash == "" {
		t.Error("Register() stored the password unhashed")
	}

	// Duplicate email is rejected.
	if _, err := service.Register(ctx, "test@example.com", "other", "pw"); !errors.IsCode(err, errors.ErrCodeConflict) {
		t.Errorf("Register() duplicate email error = %v, want conflict", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	service := NewUserService(repo, bcrypt.MinCost, testLogger())
	ctx := context.Background()

	if _, err := service.Register(ctx, "test@example.com", "tester", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{
			name:     "valid credentials",
			email:    "test@example.com",
			password: "hunter22",
			wantErr:  false,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong",
			wantErr:  true,
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "hunter22",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := service.Authenticate(ctx, tt.email, tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.IsCode(err, errors.ErrCodeUnauthorized) {
					t.Errorf("Authenticate() error code = %v, want unauthorized", err)
				}
				return
			}
			if u == nil || u.Email != tt.email {
				t.Errorf("Authenticate() user = %+v, want %s", u, tt.email)
			}
		})
	}
}
