package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orexam/orexam-backend/internal/apperror"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestQuestionService wires a service against mocks. The Redis client
// points at a port nothing listens on, so cache reads and invalidations
// fail and are logged, which is exactly the degraded path the service is
// built to survive. It must not point at the dev Redis: a prewarmed
// cache there would shadow the mock store.
func newTestQuestionService(questions *mockQuestionStore, users *mockUserStore, clock clockwork.Clock) *QuestionService {
	rdb := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:1",
	})
	return NewQuestionService(questions, users, rdb, clock, zerolog.Nop())
}

func lecturerOnlyUsers() *mockUserStore {
	return &mockUserStore{
		getByIDFn: func(_ context.Context, id int) (*model.User, error) {
			return lecturerUser(id), nil
		},
	}
}

func TestListForStudentStripsAnswerKeys(t *testing.T) {
	key := "expected value is 3.14"
	storeReads := 0
	questions := &mockQuestionStore{
		listVisibleFn: func(_ context.Context) ([]model.Question, error) {
			storeReads++
			return []model.Question{
				{ID: 1, Topic: model.TopicMonteCarlo, AnswerKey: &key, Status: model.QuestionStatusApproved},
				{ID: 2, Topic: model.TopicGameTheory, Status: model.QuestionStatusActive},
			}, nil
		},
	}

	svc := newTestQuestionService(questions, &mockUserStore{}, clockwork.NewFakeClock())
	visible, err := svc.ListForStudent(context.Background())
	require.NoError(t, err)

	// The cache is unreachable here, so the store must have served the
	// call; a cache hit would bypass it and return stale data.
	require.Equal(t, 1, storeReads)
	require.Len(t, visible, 2)

	for _, q := range visible {
		assert.Nil(t, q.AnswerKey)
	}
}

func TestCreateQuestion(t *testing.T) {
	var created *model.Question
	questions := &mockQuestionStore{
		createFn: func(_ context.Context, q *model.Question) error {
			q.ID = 11
			created = q
			return nil
		},
	}

	svc := newTestQuestionService(questions, lecturerOnlyUsers(), clockwork.NewFakeClock())
	question, err := svc.Create(context.Background(), &model.CreateQuestionRequest{
		Topic:        model.TopicMarkovChain,
		QuestionText: "Find the steady-state distribution.",
		MaxScore:     decimal.NewFromInt(20),
	}, 12)
	require.NoError(t, err)
	require.NotNil(t, question)

	assert.Equal(t, 11, question.ID)
	assert.Equal(t, model.QuestionStatusDraft, question.Status)
	assert.Equal(t, 12, question.CreatedBy)
	assert.False(t, question.IsAutoGenerated)
	assert.Same(t, question, created)
}

func TestCreateQuestionByStudentRejected(t *testing.T) {
	users := &mockUserStore{
		getByIDFn: func(_ context.Context, id int) (*model.User, error) {
			return studentUser(id), nil
		},
	}

	svc := newTestQuestionService(&mockQuestionStore{}, users, clockwork.NewFakeClock())
	_, err := svc.Create(context.Background(), &model.CreateQuestionRequest{
		Topic:        model.TopicMarkovChain,
		QuestionText: "x",
		MaxScore:     decimal.NewFromInt(10),
	}, 42)
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))
}

func TestCreateQuestionNonPositiveMaxScore(t *testing.T) {
	svc := newTestQuestionService(&mockQuestionStore{}, lecturerOnlyUsers(), clockwork.NewFakeClock())
	_, err := svc.Create(context.Background(), &model.CreateQuestionRequest{
		Topic:        model.TopicMarkovChain,
		QuestionText: "x",
		MaxScore:     decimal.Zero,
	}, 12)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateQuestionPartial(t *testing.T) {
	clock := clockwork.NewFakeClock()
	existing := &model.Question{
		ID:           11,
		Topic:        model.TopicMarkovChain,
		QuestionText: "old text",
		MaxScore:     decimal.NewFromInt(20),
		Status:       model.QuestionStatusDraft,
	}

	var updated *model.Question
	var updatedAt time.Time
	questions := &mockQuestionStore{
		getByIDFn: func(_ context.Context, _ int) (*model.Question, error) {
			return existing, nil
		},
		updateFn: func(_ context.Context, q *model.Question, now time.Time) error {
			updated, updatedAt = q, now
			return nil
		},
	}

	newText := "new text"
	svc := newTestQuestionService(questions, lecturerOnlyUsers(), clock)
	question, err := svc.Update(context.Background(), 11, &model.UpdateQuestionRequest{
		QuestionText: &newText,
	}, 12)
	require.NoError(t, err)
	require.NotNil(t, question)

	// Only the provided field changed.
	assert.Equal(t, "new text", updated.QuestionText)
	assert.Equal(t, model.TopicMarkovChain, updated.Topic)
	assert.True(t, updated.MaxScore.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, clock.Now(), updatedAt)
}

func TestApproveDraft(t *testing.T) {
	clock := clockwork.NewFakeClock()
	questions := &mockQuestionStore{
		getByIDFn: func(_ context.Context, id int) (*model.Question, error) {
			return &model.Question{ID: id, Status: model.QuestionStatusDraft}, nil
		},
		updateStatusFn: func(_ context.Context, id int, status model.QuestionStatus, _ time.Time) (*model.Question, error) {
			return &model.Question{ID: id, Status: status}, nil
		},
	}

	svc := newTestQuestionService(questions, lecturerOnlyUsers(), clock)
	question, err := svc.Approve(context.Background(), 11, 12)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionStatusApproved, question.Status)
}

func TestApproveNonDraftRejected(t *testing.T) {
	questions := &mockQuestionStore{
		getByIDFn: func(_ context.Context, id int) (*model.Question, error) {
			return &model.Question{ID: id, Status: model.QuestionStatusApproved}, nil
		},
	}

	svc := newTestQuestionService(questions, lecturerOnlyUsers(), clockwork.NewFakeClock())
	_, err := svc.Approve(context.Background(), 11, 12)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestGenerateQuestions(t *testing.T) {
	var created []*model.Question
	questions := &mockQuestionStore{
		createFn: func(_ context.Context, q *model.Question) error {
			q.ID = len(created) + 1
			created = append(created, q)
			return nil
		},
	}

	svc := newTestQuestionService(questions, lecturerOnlyUsers(), clockwork.NewFakeClock())
	generated, err := svc.Generate(context.Background(), &model.GenerateQuestionsRequest{
		Topic: model.TopicDynamicProgramming,
		Count: 3,
	}, 12)
	require.NoError(t, err)
	require.Len(t, generated, 3)
	require.Len(t, created, 3)

	for _, q := range generated {
		assert.Equal(t, model.TopicDynamicProgramming, q.Topic)
		assert.Equal(t, model.QuestionStatusDraft, q.Status)
		assert.True(t, q.IsAutoGenerated)
		assert.Equal(t, 12, q.CreatedBy)
		assert.NotEmpty(t, q.QuestionText)
		// Default max score applies when the request omits one.
		assert.True(t, q.MaxScore.Equal(decimal.NewFromInt(10)))
		// Every placeholder must have been substituted.
		assert.NotContains(t, q.QuestionText, "{")
	}
}

func TestGenerateQuestionsNonPositiveMaxScore(t *testing.T) {
	negative := decimal.NewFromInt(-5)
	svc := newTestQuestionService(&mockQuestionStore{}, lecturerOnlyUsers(), clockwork.NewFakeClock())
	_, err := svc.Generate(context.Background(), &model.GenerateQuestionsRequest{
		Topic:    model.TopicGameTheory,
		Count:    1,
		MaxScore: &negative,
	}, 12)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
