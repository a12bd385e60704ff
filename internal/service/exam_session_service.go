package service

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orexam/orexam-backend/internal/apperror"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/orexam/orexam-backend/internal/repository"
)

// SessionStore is the persistence surface the session manager needs.
type SessionStore interface {
	GetByID(ctx context.Context, id int) (*model.ExamSession, error)
	GetActiveByStudent(ctx context.Context, studentID int) (*model.ExamSession, error)
	Create(ctx context.Context, s *model.ExamSession) error
	Expire(ctx context.Context, id int) (*model.ExamSession, error)
	End(ctx context.Context, id int, endedAt time.Time) (*model.ExamSession, error)
}

// ExamSessionService owns the exam session state machine: start, explicit
// end, and expiry detection on read. Sessions move Active -> Inactive
// exactly once and Inactive is terminal.
type ExamSessionService struct {
	sessions        SessionStore
	users           UserStore
	clock           clockwork.Clock
	durationMinutes int
}

// NewExamSessionService creates a new ExamSessionService.
func NewExamSessionService(sessions SessionStore, users UserStore, clock clockwork.Clock, durationMinutes int) *ExamSessionService {
	return &ExamSessionService{
		sessions:        sessions,
		users:           users,
		clock:           clock,
		durationMinutes: durationMinutes,
	}
}

// Start opens a new time-boxed session for a student. The active-session
// lookup is a fast path for a friendly error; the real guarantee against
// a concurrent double start is the database's partial unique index, whose
// violation surfaces here as the same conflict.
func (s *ExamSessionService) Start(ctx context.Context, studentID int) (*model.ExamSession, error) {
	user, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, apperror.Internal("lookup student", err)
	}
	if user == nil {
		return nil, apperror.NotFound("student not found")
	}
	if user.Role != model.RoleStudent {
		return nil, apperror.NotFound("user is not a student")
	}

	active, err := s.sessions.GetActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, apperror.Internal("check active session", err)
	}
	if active != nil {
		return nil, apperror.Conflict("student already has an active exam session")
	}

	session := &model.ExamSession{
		StudentID:       studentID,
		StartedAt:       s.clock.Now(),
		DurationMinutes: s.durationMinutes,
		IsActive:        true,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrActiveSessionExists) {
			return nil, apperror.Conflict("student already has an active exam session")
		}
		return nil, apperror.Internal("create session", err)
	}
	return session, nil
}

// GetActive returns the student's active session, or (nil, nil) if there
// is none. A session found past its deadline is transitioned to inactive
// as a side effect of the read, with ended_at fixed to the deterministic
// deadline rather than the observation time, and the settled inactive
// record is returned. No background timer exists; staleness is bounded
// only by how soon the session is next queried.
func (s *ExamSessionService) GetActive(ctx context.Context, studentID int) (*model.ExamSession, error) {
	session, err := s.sessions.GetActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, apperror.Internal("get active session", err)
	}
	if session == nil {
		return nil, nil
	}

	if s.clock.Now().After(session.Deadline()) {
		expired, err := s.sessions.Expire(ctx, session.ID)
		if err != nil {
			return nil, apperror.Internal("expire session", err)
		}
		if expired == nil {
			// Lost the race against a concurrent end/expire; the row is
			// already settled, return it as stored.
			settled, err := s.sessions.GetByID(ctx, session.ID)
			if err != nil {
				return nil, apperror.Internal("reload session", err)
			}
			return settled, nil
		}
		return expired, nil
	}

	return session, nil
}

// resolve loads a session by id, applying the same expiry-on-read
// transition as GetActive. Used by policy checks that need the session's
// settled state.
func (s *ExamSessionService) resolve(ctx context.Context, sessionID int) (*model.ExamSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperror.Internal("get session", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.IsActive && s.clock.Now().After(session.Deadline()) {
		expired, err := s.sessions.Expire(ctx, session.ID)
		if err != nil {
			return nil, apperror.Internal("expire session", err)
		}
		if expired != nil {
			return expired, nil
		}
		return s.sessions.GetByID(ctx, session.ID)
	}
	return session, nil
}

// Resolve exposes expiry-on-read session lookup to collaborating
// services. Returns (nil, nil) for an unknown id.
func (s *ExamSessionService) Resolve(ctx context.Context, sessionID int) (*model.ExamSession, error) {
	return s.resolve(ctx, sessionID)
}

// End closes a session, stamping ended_at with the current time. Ending
// an already-ended session re-stamps ended_at; the operation does not
// re-validate is_active.
func (s *ExamSessionService) End(ctx context.Context, sessionID int) (*model.ExamSession, error) {
	session, err := s.sessions.End(ctx, sessionID, s.clock.Now())
	if err != nil {
		return nil, apperror.Internal("end session", err)
	}
	if session == nil {
		return nil, apperror.NotFound("exam session not found")
	}
	return session, nil
}
