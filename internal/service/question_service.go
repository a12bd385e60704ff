package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orexam/orexam-backend/internal/apperror"
	"github.com/orexam/orexam-backend/internal/config"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// visibleCacheTTL bounds how stale the student-visible catalog may be
// after an out-of-band catalog change. Mutations through this service
// invalidate eagerly.
const visibleCacheTTL = 5 * time.Minute

// QuestionStore is the persistence surface the question catalog needs.
type QuestionStore interface {
	GetByID(ctx context.Context, id int) (*model.Question, error)
	ListVisible(ctx context.Context) ([]model.Question, error)
	ListAll(ctx context.Context) ([]model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question, now time.Time) error
	UpdateStatus(ctx context.Context, id int, status model.QuestionStatus, now time.Time) (*model.Question, error)
}

// QuestionService is the question catalog: authoring, approval,
// template generation, and the student-visible listing with its Redis
// cache in front of Postgres.
type QuestionService struct {
	questions QuestionStore
	users     UserStore
	rdb       *redis.Client
	clock     clockwork.Clock
	log       zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions QuestionStore, users UserStore, rdb *redis.Client, clock clockwork.Clock, log zerolog.Logger) *QuestionService {
	return &QuestionService{questions: questions, users: users, rdb: rdb, clock: clock, log: log}
}

// GetByID retrieves a single question, any status.
func (s *QuestionService) GetByID(ctx context.Context, id int) (*model.Question, error) {
	return s.questions.GetByID(ctx, id)
}

// ListForStudent returns approved/active questions with answer keys
// stripped. Served from Redis when possible; a cache miss falls back to
// Postgres and repopulates.
func (s *QuestionService) ListForStudent(ctx context.Context) ([]model.Question, error) {
	key := config.CacheKey.VisibleQuestionsKey()

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var questions []model.Question
		if jsonErr := json.Unmarshal([]byte(cached), &questions); jsonErr == nil {
			return questions, nil
		}
		// Corrupt cache entry; fall through to the database.
		_ = s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("question cache read failed, falling back to database")
	}

	questions, err := s.questions.ListVisible(ctx)
	if err != nil {
		return nil, apperror.Internal("list visible questions", err)
	}
	for i := range questions {
		questions[i].AnswerKey = nil
	}

	if payload, jsonErr := json.Marshal(questions); jsonErr == nil {
		if cacheErr := s.rdb.Set(ctx, key, payload, visibleCacheTTL).Err(); cacheErr != nil {
			s.log.Warn().Err(cacheErr).Msg("question cache write failed")
		}
	}

	return questions, nil
}

// ListForLecturer returns the whole catalog, drafts and answer keys
// included.
func (s *QuestionService) ListForLecturer(ctx context.Context) ([]model.Question, error) {
	questions, err := s.questions.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("list questions", err)
	}
	return questions, nil
}

// Create authors a new draft question. Only lecturers may create.
func (s *QuestionService) Create(ctx context.Context, req *model.CreateQuestionRequest, lecturerID int) (*model.Question, error) {
	if err := s.requireLecturer(ctx, lecturerID); err != nil {
		return nil, err
	}
	if !req.MaxScore.IsPositive() {
		return nil, apperror.Validation("max score must be positive")
	}

	question := &model.Question{
		Topic:        req.Topic,
		QuestionText: req.QuestionText,
		AnswerKey:    req.AnswerKey,
		MaxScore:     req.MaxScore,
		Status:       model.QuestionStatusDraft,
		CreatedBy:    lecturerID,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, apperror.Internal("create question", err)
	}
	s.invalidateVisibleCache(ctx)
	return question, nil
}

// Update edits a question. Absent fields keep their current values.
func (s *QuestionService) Update(ctx context.Context, id int, req *model.UpdateQuestionRequest, lecturerID int) (*model.Question, error) {
	if err := s.requireLecturer(ctx, lecturerID); err != nil {
		return nil, err
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("lookup question", err)
	}
	if question == nil {
		return nil, apperror.NotFound("question not found")
	}

	if req.Topic != nil {
		question.Topic = *req.Topic
	}
	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	if req.AnswerKey != nil {
		question.AnswerKey = req.AnswerKey
	}
	if req.Status != nil {
		question.Status = *req.Status
	}
	if req.MaxScore != nil {
		if !req.MaxScore.IsPositive() {
			return nil, apperror.Validation("max score must be positive")
		}
		question.MaxScore = *req.MaxScore
	}

	if err := s.questions.Update(ctx, question, s.clock.Now()); err != nil {
		return nil, apperror.Internal("update question", err)
	}
	s.invalidateVisibleCache(ctx)
	return question, nil
}

// Approve moves a draft question to approved. Only drafts can be
// approved; approved and active questions are already past review.
func (s *QuestionService) Approve(ctx context.Context, id, lecturerID int) (*model.Question, error) {
	if err := s.requireLecturer(ctx, lecturerID); err != nil {
		return nil, err
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("lookup question", err)
	}
	if question == nil {
		return nil, apperror.NotFound("question not found")
	}
	if question.Status != model.QuestionStatusDraft {
		return nil, apperror.Conflict("only draft questions can be approved")
	}

	approved, err := s.questions.UpdateStatus(ctx, id, model.QuestionStatusApproved, s.clock.Now())
	if err != nil {
		return nil, apperror.Internal("approve question", err)
	}
	s.invalidateVisibleCache(ctx)
	return approved, nil
}

// Generate renders count draft questions for a topic from the built-in
// templates. Generated questions carry no answer key and always start
// as drafts for lecturer review.
func (s *QuestionService) Generate(ctx context.Context, req *model.GenerateQuestionsRequest, lecturerID int) ([]model.Question, error) {
	if err := s.requireLecturer(ctx, lecturerID); err != nil {
		return nil, err
	}

	maxScore := decimal.NewFromInt(10)
	if req.MaxScore != nil {
		if !req.MaxScore.IsPositive() {
			return nil, apperror.Validation("max score must be positive")
		}
		maxScore = *req.MaxScore
	}

	generated := make([]model.Question, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		question := &model.Question{
			Topic:           req.Topic,
			QuestionText:    renderTemplate(req.Topic),
			MaxScore:        maxScore,
			Status:          model.QuestionStatusDraft,
			IsAutoGenerated: true,
			CreatedBy:       lecturerID,
		}
		if err := s.questions.Create(ctx, question); err != nil {
			return nil, apperror.Internal("create generated question", err)
		}
		generated = append(generated, *question)
	}
	return generated, nil
}

func (s *QuestionService) requireLecturer(ctx context.Context, lecturerID int) error {
	user, err := s.users.GetByID(ctx, lecturerID)
	if err != nil {
		return apperror.Internal("lookup lecturer", err)
	}
	if user == nil {
		return apperror.NotFound("lecturer not found")
	}
	if user.Role != model.RoleLecturer {
		return apperror.Authorization("only lecturers can manage questions")
	}
	return nil
}

func (s *QuestionService) invalidateVisibleCache(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.VisibleQuestionsKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("question cache invalidation failed")
	}
}
