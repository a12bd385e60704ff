package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orexam/orexam-backend/internal/apperror"
	"github.com/orexam/orexam-backend/internal/config"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/orexam/orexam-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(clock clockwork.Clock) *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	// Redis is only touched on student token issuance, which these unit
	// tests do not exercise.
	return NewAuthService(cfg, nil, clock)
}

func registerRequest() *model.RegisterStudentRequest {
	return &model.RegisterStudentRequest{
		Name:                 "Alice",
		NIM:                  "2110191001",
		AttendanceNumber:     "7",
		Username:             "alice",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
}

func TestRegister(t *testing.T) {
	auth := newTestAuthService(clockwork.NewFakeClock())

	var created *model.User
	users := &mockUserStore{
		findConflictingFn: func(_ context.Context, _, _, _ string) (*model.User, error) {
			return nil, nil
		},
		createFn: func(_ context.Context, u *model.User) error {
			u.ID = 42
			created = u
			return nil
		},
	}

	svc := NewUserService(users, auth)
	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, 42, user.ID)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Equal(t, "2110191001", *user.NIM)
	assert.Same(t, user, created)

	// Stored hash verifies against the original password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestRegisterConflictNamesTheField(t *testing.T) {
	auth := newTestAuthService(clockwork.NewFakeClock())

	nim := "2110191001"
	att := "7"
	tests := []struct {
		name     string
		existing *model.User
		message  string
	}{
		{
			name:     "username taken",
			existing: &model.User{Username: "alice"},
			message:  "username already exists",
		},
		{
			name:     "nim taken",
			existing: &model.User{Username: "someone-else", NIM: &nim},
			message:  "NIM already exists",
		},
		{
			name:     "attendance number taken",
			existing: &model.User{Username: "someone-else", AttendanceNumber: &att},
			message:  "attendance number already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserStore{
				findConflictingFn: func(_ context.Context, _, _, _ string) (*model.User, error) {
					return tt.existing, nil
				},
			}

			svc := NewUserService(users, auth)
			_, err := svc.Register(context.Background(), registerRequest())
			require.Error(t, err)
			assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestRegisterInsertRaceNamesTheField(t *testing.T) {
	auth := newTestAuthService(clockwork.NewFakeClock())

	// The loser of a concurrent registration passes the pre-insert check
	// but hits the unique index; the retry lookup then sees the winner.
	lookups := 0
	users := &mockUserStore{
		findConflictingFn: func(_ context.Context, _, _, _ string) (*model.User, error) {
			lookups++
			if lookups == 1 {
				return nil, nil
			}
			return &model.User{Username: "alice"}, nil
		},
		createFn: func(_ context.Context, _ *model.User) error {
			return repository.ErrUserIdentityTaken
		},
	}

	svc := NewUserService(users, auth)
	_, err := svc.Register(context.Background(), registerRequest())
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "username already exists")
	assert.Equal(t, 2, lookups)
}

func TestAuthenticate(t *testing.T) {
	auth := newTestAuthService(clockwork.NewFakeClock())
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	stored := studentUser(42)
	stored.PasswordHash = hash
	users := &mockUserStore{
		getByUsernameFn: func(_ context.Context, _ string) (*model.User, error) {
			return stored, nil
		},
	}
	svc := NewUserService(users, auth)

	user, err := svc.Authenticate(context.Background(), "student42", "secret123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 42, user.ID)

	// Wrong password and unknown user are indistinguishable to callers.
	user, err = svc.Authenticate(context.Background(), "student42", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	auth := newTestAuthService(clockwork.NewFakeClock())
	users := &mockUserStore{
		getByUsernameFn: func(_ context.Context, _ string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewUserService(users, auth)

	user, err := svc.Authenticate(context.Background(), "ghost", "whatever")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetByIDNotFound(t *testing.T) {
	auth := newTestAuthService(clockwork.NewFakeClock())
	users := &mockUserStore{
		getByIDFn: func(_ context.Context, _ int) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewUserService(users, auth)

	_, err := svc.GetByID(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestTokenRoundTrip(t *testing.T) {
	clock := clockwork.NewFakeClock()
	auth := newTestAuthService(clock)

	// Lecturer tokens skip the Redis session registry entirely.
	token, err := auth.GenerateToken(context.Background(), lecturerUser(12))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 12, claims.UserID)
	assert.Equal(t, model.RoleLecturer, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	auth := newTestAuthService(clock)

	token, err := auth.GenerateToken(context.Background(), lecturerUser(12))
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = auth.ValidateToken(token)
	require.Error(t, err)
}
