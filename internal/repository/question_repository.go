package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orexam/orexam-backend/internal/model"
)

// QuestionRepository handles question catalog data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, topic, question_text, answer_key, max_score, status, is_auto_generated, created_by, created_at, updated_at`

func scanQuestion(row pgx.Row) (*model.Question, error) {
	q := &model.Question{}
	err := row.Scan(&q.ID, &q.Topic, &q.QuestionText, &q.AnswerKey, &q.MaxScore,
		&q.Status, &q.IsAutoGenerated, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuestionRepository) collect(rows pgx.Rows) ([]model.Question, error) {
	defer rows.Close()
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// GetByID retrieves a question by primary key. Returns (nil, nil) if absent.
func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*model.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

// ListVisible retrieves the questions students may see: approved or active.
func (r *QuestionRepository) ListVisible(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions
		 WHERE status IN ($1, $2)
		 ORDER BY id`,
		model.QuestionStatusApproved, model.QuestionStatusActive)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListAll retrieves the full catalog regardless of status (lecturer view).
func (r *QuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// Create inserts a new question and fills in ID and timestamps.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (topic, question_text, answer_key, max_score, status, is_auto_generated, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		q.Topic, q.QuestionText, q.AnswerKey, q.MaxScore, q.Status, q.IsAutoGenerated, q.CreatedBy,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update replaces the mutable fields of a question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question, now time.Time) error {
	q.UpdatedAt = now
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET topic = $2, question_text = $3, answer_key = $4, max_score = $5, status = $6, updated_at = $7
		 WHERE id = $1`,
		q.ID, q.Topic, q.QuestionText, q.AnswerKey, q.MaxScore, q.Status, now)
	return err
}

// UpdateStatus transitions a question's status.
func (r *QuestionRepository) UpdateStatus(ctx context.Context, id int, status model.QuestionStatus, now time.Time) (*model.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx,
		`UPDATE questions SET status = $2, updated_at = $3
		 WHERE id = $1
		 RETURNING `+questionColumns, id, status, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return q, err
}
