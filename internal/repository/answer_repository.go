package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/shopspring/decimal"
)

// AnswerRepository handles student answer data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

const answerColumns = `id, session_id, question_id, answer_text, attachment_path, score, graded_by, graded_at, created_at, updated_at`

func scanAnswer(row pgx.Row) (*model.StudentAnswer, error) {
	a := &model.StudentAnswer{}
	err := row.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.AnswerText, &a.AttachmentPath,
		&a.Score, &a.GradedBy, &a.GradedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Upsert inserts or updates the single answer row for a
// (session, question) pair. The conflict branch touches only the
// content columns, so an existing grade (score, graded_by, graded_at)
// always survives a re-submission. Concurrent submissions race
// last-write-wins on content.
func (r *AnswerRepository) Upsert(ctx context.Context, sessionID, questionID int, answerText, attachmentPath *string, now time.Time) (*model.StudentAnswer, error) {
	return scanAnswer(r.pool.QueryRow(ctx,
		`INSERT INTO student_answers (session_id, question_id, answer_text, attachment_path, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (session_id, question_id) DO UPDATE
		 SET answer_text = EXCLUDED.answer_text,
		     attachment_path = EXCLUDED.attachment_path,
		     updated_at = EXCLUDED.updated_at
		 RETURNING `+answerColumns,
		sessionID, questionID, answerText, attachmentPath, now))
}

// GetByID retrieves an answer by primary key. Returns (nil, nil) if absent.
func (r *AnswerRepository) GetByID(ctx context.Context, id int) (*model.StudentAnswer, error) {
	a, err := scanAnswer(r.pool.QueryRow(ctx,
		`SELECT `+answerColumns+` FROM student_answers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// ListBySession retrieves all answers for a session in insertion order.
func (r *AnswerRepository) ListBySession(ctx context.Context, sessionID int) ([]model.StudentAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+answerColumns+` FROM student_answers
		 WHERE session_id = $1
		 ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.StudentAnswer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *a)
	}
	return answers, rows.Err()
}

// Grade writes the score, grader and grading timestamp in one atomic
// update. Returns (nil, nil) if the answer id is unknown.
func (r *AnswerRepository) Grade(ctx context.Context, id int, score decimal.Decimal, gradedBy int, gradedAt time.Time) (*model.StudentAnswer, error) {
	a, err := scanAnswer(r.pool.QueryRow(ctx,
		`UPDATE student_answers
		 SET score = $2, graded_by = $3, graded_at = $4, updated_at = $4
		 WHERE id = $1
		 RETURNING `+answerColumns, id, score, gradedBy, gradedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// ListAll retrieves every answer across all sessions joined with its
// student and question context, for the lecturer grading queue. No
// pagination: the exam population is bounded by course enrollment.
func (r *AnswerRepository) ListAll(ctx context.Context) ([]model.GradingEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sa.id, sa.session_id, sa.question_id, sa.answer_text, sa.attachment_path,
		        sa.score, sa.graded_by, sa.graded_at, sa.created_at, sa.updated_at,
		        u.id, u.name, u.nim,
		        q.topic, q.question_text, q.max_score
		 FROM student_answers sa
		 JOIN exam_sessions es ON sa.session_id = es.id
		 JOIN users u ON es.student_id = u.id
		 JOIN questions q ON sa.question_id = q.id
		 ORDER BY sa.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.GradingEntry
	for rows.Next() {
		var e model.GradingEntry
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.QuestionID, &e.AnswerText, &e.AttachmentPath,
			&e.Score, &e.GradedBy, &e.GradedAt, &e.CreatedAt, &e.UpdatedAt,
			&e.StudentID, &e.StudentName, &e.StudentNIM,
			&e.Topic, &e.QuestionText, &e.MaxScore,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
