package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StudentAnswer is one student's response to one question within one
// session. Exactly zero or one row exists per (session_id, question_id).
// The grade fields (score, graded_by, graded_at) are all null or all set.
type StudentAnswer struct {
	ID             int              `json:"id"`
	SessionID      int              `json:"session_id"`
	QuestionID     int              `json:"question_id"`
	AnswerText     *string          `json:"answer_text"`
	AttachmentPath *string          `json:"attachment_path"`
	Score          *decimal.Decimal `json:"score"`
	GradedBy       *int             `json:"graded_by"`
	GradedAt       *time.Time       `json:"graded_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// SubmitAnswerRequest is the payload for submitting (or re-submitting)
// an answer to a question.
type SubmitAnswerRequest struct {
	QuestionID     int     `json:"question_id" binding:"required"`
	AnswerText     *string `json:"answer_text"`
	AttachmentPath *string `json:"attachment_path"`
}

// GradeAnswerRequest is the payload for grading an answer.
type GradeAnswerRequest struct {
	Score decimal.Decimal `json:"score" binding:"required"`
}

// GradingEntry is a grading-queue row: the answer joined with its
// student and question context so lecturers can triage without extra
// lookups.
type GradingEntry struct {
	StudentAnswer
	StudentID    int             `json:"student_id"`
	StudentName  string          `json:"student_name"`
	StudentNIM   *string         `json:"student_nim"`
	Topic        QuestionTopic   `json:"topic"`
	QuestionText string          `json:"question_text"`
	MaxScore     decimal.Decimal `json:"max_score"`
}
