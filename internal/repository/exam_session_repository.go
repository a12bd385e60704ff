package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orexam/orexam-backend/internal/model"
)

// ErrActiveSessionExists is returned when the partial unique index on
// (student_id) WHERE is_active rejects a second active session. The
// index, not the application-level check, is the source of truth for
// the single-active-session invariant.
var ErrActiveSessionExists = errors.New("student already has an active exam session")

// ExamSessionRepository handles exam session data access.
type ExamSessionRepository struct {
	pool *pgxpool.Pool
}

// NewExamSessionRepository creates a new ExamSessionRepository.
func NewExamSessionRepository(pool *pgxpool.Pool) *ExamSessionRepository {
	return &ExamSessionRepository{pool: pool}
}

const sessionColumns = `id, student_id, started_at, ended_at, duration_minutes, is_active, created_at`

func scanSession(row pgx.Row) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	err := row.Scan(&s.ID, &s.StudentID, &s.StartedAt, &s.EndedAt, &s.DurationMinutes, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a session by primary key. Returns (nil, nil) if absent.
func (r *ExamSessionRepository) GetByID(ctx context.Context, id int) (*model.ExamSession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM exam_sessions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// GetActiveByStudent retrieves the single active session for a student,
// or (nil, nil) if none exists.
func (r *ExamSessionRepository) GetActiveByStudent(ctx context.Context, studentID int) (*model.ExamSession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM exam_sessions
		 WHERE student_id = $1 AND is_active`, studentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// Create inserts a new active session. A concurrent insert for the same
// student loses against the partial unique index and surfaces as
// ErrActiveSessionExists.
func (r *ExamSessionRepository) Create(ctx context.Context, s *model.ExamSession) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exam_sessions (student_id, started_at, duration_minutes, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, created_at`,
		s.StudentID, s.StartedAt, s.DurationMinutes,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrActiveSessionExists
		}
		return err
	}
	s.IsActive = true
	s.EndedAt = nil
	return nil
}

// Expire transitions a session to inactive with ended_at set to the
// deterministic deadline (started_at + duration), not the observation
// time. The is_active guard makes the transition atomic: a concurrent
// end or expiry wins and this call returns (nil, nil).
func (r *ExamSessionRepository) Expire(ctx context.Context, id int) (*model.ExamSession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		`UPDATE exam_sessions
		 SET is_active = FALSE,
		     ended_at = started_at + duration_minutes * INTERVAL '1 minute'
		 WHERE id = $1 AND is_active
		 RETURNING `+sessionColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// End unconditionally stamps ended_at and deactivates the session.
// Ending an already-ended session re-stamps ended_at; the caller treats
// that as idempotent-in-effect. Returns (nil, nil) if the id is unknown.
func (r *ExamSessionRepository) End(ctx context.Context, id int, endedAt time.Time) (*model.ExamSession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		`UPDATE exam_sessions
		 SET is_active = FALSE, ended_at = $2
		 WHERE id = $1
		 RETURNING `+sessionColumns, id, endedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}
