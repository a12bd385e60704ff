package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/orexam/orexam-backend/internal/apperror"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/orexam/orexam-backend/internal/repository"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	FindConflicting(ctx context.Context, username, nim, attendanceNumber string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// UserService is the identity provider: registration, credential checks
// and identity lookups for the rest of the system.
type UserService struct {
	users UserStore
	auth  *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, auth *AuthService) *UserService {
	return &UserService{users: users, auth: auth}
}

// Register creates a new student account. Username, NIM and attendance
// number must each be unclaimed; the conflict message names the field
// that is taken.
func (s *UserService) Register(ctx context.Context, req *model.RegisterStudentRequest) (*model.User, error) {
	existing, err := s.users.FindConflicting(ctx, req.Username, req.NIM, req.AttendanceNumber)
	if err != nil {
		return nil, apperror.Internal("check existing users", err)
	}
	if existing != nil {
		return nil, conflictingField(existing, req)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	user := &model.User{
		Name:             req.Name,
		NIM:              &req.NIM,
		AttendanceNumber: &req.AttendanceNumber,
		Username:         req.Username,
		PasswordHash:     hash,
		Role:             model.RoleStudent,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Two registrations can pass the pre-insert check together; the
		// unique indexes reject the loser, which still gets the same
		// per-field conflict as if the check had caught it.
		if errors.Is(err, repository.ErrUserIdentityTaken) {
			existing, lookupErr := s.users.FindConflicting(ctx, req.Username, req.NIM, req.AttendanceNumber)
			if lookupErr == nil && existing != nil {
				return nil, conflictingField(existing, req)
			}
			return nil, apperror.Conflict("username, NIM or attendance number already exists")
		}
		return nil, apperror.Internal("create user", err)
	}
	return user, nil
}

// conflictingField names the identifying field an existing user already
// holds, so registration failures tell the student what to change.
func conflictingField(existing *model.User, req *model.RegisterStudentRequest) error {
	switch {
	case existing.Username == req.Username:
		return apperror.Conflict("username already exists")
	case existing.NIM != nil && *existing.NIM == req.NIM:
		return apperror.Conflict("NIM already exists")
	default:
		return apperror.Conflict("attendance number already exists")
	}
}

// Authenticate verifies username + password and returns the identity,
// or (nil, nil) when the credentials do not match any user.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	if err := s.auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, nil
	}
	return user, nil
}

// GetByID retrieves a user, failing with a not-found kind if absent.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("lookup user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}
