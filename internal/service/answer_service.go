package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orexam/orexam-backend/internal/apperror"
	"github.com/orexam/orexam-backend/internal/config"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/shopspring/decimal"
)

// AnswerStore is the persistence surface the answer service needs.
type AnswerStore interface {
	Upsert(ctx context.Context, sessionID, questionID int, answerText, attachmentPath *string, now time.Time) (*model.StudentAnswer, error)
	GetByID(ctx context.Context, id int) (*model.StudentAnswer, error)
	ListBySession(ctx context.Context, sessionID int) ([]model.StudentAnswer, error)
	Grade(ctx context.Context, id int, score decimal.Decimal, gradedBy int, gradedAt time.Time) (*model.StudentAnswer, error)
	ListAll(ctx context.Context) ([]model.GradingEntry, error)
}

// QuestionLookup resolves questions for max-score policy checks.
type QuestionLookup interface {
	GetByID(ctx context.Context, id int) (*model.Question, error)
}

// SessionResolver resolves sessions with expiry-on-read semantics, for
// the late-submission policy check.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID int) (*model.ExamSession, error)
}

// AnswerService owns per-(session, question) answer upserts and grading.
type AnswerService struct {
	answers   AnswerStore
	users     UserStore
	questions QuestionLookup
	sessions  SessionResolver
	clock     clockwork.Clock
	cfg       *config.Config
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(
	answers AnswerStore,
	users UserStore,
	questions QuestionLookup,
	sessions SessionResolver,
	clock clockwork.Clock,
	cfg *config.Config,
) *AnswerService {
	return &AnswerService{
		answers:   answers,
		users:     users,
		questions: questions,
		sessions:  sessions,
		clock:     clock,
		cfg:       cfg,
	}
}

// Submit inserts or updates the answer for a (session, question) pair.
// Re-submission replaces content fields only; an existing grade is never
// cleared. With AllowLateSubmission on (the default) no session-state
// check happens at all — answers against ended sessions are stored.
// With it off, the session is resolved via expiry-on-read first and an
// inactive session rejects the submission.
func (s *AnswerService) Submit(ctx context.Context, sessionID, questionID int, answerText, attachmentPath *string) (*model.StudentAnswer, error) {
	if !s.cfg.AllowLateSubmission {
		session, err := s.sessions.Resolve(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, apperror.NotFound("exam session not found")
		}
		if !session.IsActive {
			return nil, apperror.Conflict("exam session is no longer active")
		}
	}

	answer, err := s.answers.Upsert(ctx, sessionID, questionID, answerText, attachmentPath, s.clock.Now())
	if err != nil {
		return nil, apperror.Internal("upsert answer", err)
	}
	return answer, nil
}

// ListBySession returns all answers for a session in insertion order.
func (s *AnswerService) ListBySession(ctx context.Context, sessionID int) ([]model.StudentAnswer, error) {
	answers, err := s.answers.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, apperror.Internal("list answers", err)
	}
	return answers, nil
}

// Grade records a score for an answer. The grader must resolve to an
// existing lecturer. Score, graded_by and graded_at are written in one
// atomic update so the grade fields are always all set or all null.
func (s *AnswerService) Grade(ctx context.Context, answerID int, score decimal.Decimal, gradedBy int) (*model.StudentAnswer, error) {
	if score.IsNegative() {
		return nil, apperror.Validation("score must be non-negative")
	}

	grader, err := s.users.GetByID(ctx, gradedBy)
	if err != nil {
		return nil, apperror.Internal("lookup grader", err)
	}
	if grader == nil {
		return nil, apperror.NotFound("grader not found")
	}
	if grader.Role != model.RoleLecturer {
		return nil, apperror.Authorization("only lecturers can grade answers")
	}

	answer, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		return nil, apperror.Internal("lookup answer", err)
	}
	if answer == nil {
		return nil, apperror.NotFound("answer not found")
	}

	if s.cfg.EnforceMaxScore {
		question, err := s.questions.GetByID(ctx, answer.QuestionID)
		if err != nil {
			return nil, apperror.Internal("lookup question", err)
		}
		if question != nil && score.GreaterThan(question.MaxScore) {
			return nil, apperror.Validation("score exceeds the question's max score")
		}
	}

	graded, err := s.answers.Grade(ctx, answerID, score, gradedBy, s.clock.Now())
	if err != nil {
		return nil, apperror.Internal("grade answer", err)
	}
	if graded == nil {
		return nil, apperror.NotFound("answer not found")
	}
	return graded, nil
}

// GradingQueue returns every answer across all sessions and students,
// joined with student and question context, for lecturer triage. The
// caller must be a lecturer. No pagination: the population is bounded
// by course enrollment.
func (s *AnswerService) GradingQueue(ctx context.Context, lecturerID int) ([]model.GradingEntry, error) {
	lecturer, err := s.users.GetByID(ctx, lecturerID)
	if err != nil {
		return nil, apperror.Internal("lookup lecturer", err)
	}
	if lecturer == nil || lecturer.Role != model.RoleLecturer {
		return nil, apperror.Authorization("only lecturers can access all student answers")
	}

	entries, err := s.answers.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("list all answers", err)
	}
	return entries, nil
}
