package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orexam/orexam-backend/internal/config"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExamService(
	sessions *mockSessionStore,
	answers *mockAnswerStore,
	questions *mockQuestionStore,
	users *mockUserStore,
	clock clockwork.Clock,
) *ExamService {
	cfg := &config.Config{AllowLateSubmission: true}
	sessionService := NewExamSessionService(sessions, users, clock, testDurationMinutes)
	answerService := NewAnswerService(answers, users, questions, sessionService, clock, cfg)
	questionService := newTestQuestionService(questions, users, clock)
	return NewExamService(sessionService, answerService, questionService)
}

func TestStartSessionBundlesQuestions(t *testing.T) {
	clock := clockwork.NewFakeClock()

	sessions := &mockSessionStore{
		getActiveByStudentFn: func(_ context.Context, _ int) (*model.ExamSession, error) {
			return nil, nil
		},
		createFn: func(_ context.Context, s *model.ExamSession) error {
			s.ID = 7
			return nil
		},
	}
	questions := &mockQuestionStore{
		listVisibleFn: func(_ context.Context) ([]model.Question, error) {
			return []model.Question{
				{ID: 1, Topic: model.TopicMonteCarlo, Status: model.QuestionStatusApproved},
				{ID: 2, Topic: model.TopicGameTheory, Status: model.QuestionStatusActive},
			}, nil
		},
	}
	users := &mockUserStore{
		getByIDFn: func(_ context.Context, id int) (*model.User, error) {
			return studentUser(id), nil
		},
	}

	svc := newTestExamService(sessions, &mockAnswerStore{}, questions, users, clock)
	started, err := svc.StartSession(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, started)

	assert.Equal(t, 7, started.Session.ID)
	assert.True(t, started.Session.IsActive)
	assert.Len(t, started.Questions, 2)
}

func TestResumeSession(t *testing.T) {
	clock := clockwork.NewFakeClock()

	live := &model.ExamSession{
		ID:              7,
		StudentID:       42,
		StartedAt:       clock.Now().Add(-5 * time.Minute),
		DurationMinutes: testDurationMinutes,
		IsActive:        true,
	}
	sessions := &mockSessionStore{
		getActiveByStudentFn: func(_ context.Context, _ int) (*model.ExamSession, error) {
			return live, nil
		},
	}
	questions := &mockQuestionStore{
		listVisibleFn: func(_ context.Context) ([]model.Question, error) {
			return []model.Question{{ID: 1, Status: model.QuestionStatusApproved}}, nil
		},
	}
	answers := &mockAnswerStore{
		listBySessionFn: func(_ context.Context, sessionID int) ([]model.StudentAnswer, error) {
			assert.Equal(t, 7, sessionID)
			return []model.StudentAnswer{{ID: 1, SessionID: sessionID, QuestionID: 1}}, nil
		},
	}

	svc := newTestExamService(sessions, answers, questions, &mockUserStore{}, clock)
	resumed, err := svc.ResumeSession(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, resumed)

	assert.Equal(t, 7, resumed.Session.ID)
	assert.Len(t, resumed.Questions, 1)
	assert.Len(t, resumed.Answers, 1)
}

func TestResumeSessionNoneActive(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sessions := &mockSessionStore{
		getActiveByStudentFn: func(_ context.Context, _ int) (*model.ExamSession, error) {
			return nil, nil
		},
	}

	svc := newTestExamService(sessions, &mockAnswerStore{}, &mockQuestionStore{}, &mockUserStore{}, clock)
	resumed, err := svc.ResumeSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, resumed)
}

func TestResumeSessionExpiredOnRead(t *testing.T) {
	// An overdue session settles during the resume lookup; the client
	// gets nothing to resume rather than a dead session.
	clock := clockwork.NewFakeClock()
	startedAt := clock.Now().Add(-2 * time.Hour)
	deadline := startedAt.Add(testDurationMinutes * time.Minute)

	overdue := &model.ExamSession{
		ID:              7,
		StudentID:       42,
		StartedAt:       startedAt,
		DurationMinutes: testDurationMinutes,
		IsActive:        true,
	}
	sessions := &mockSessionStore{
		getActiveByStudentFn: func(_ context.Context, _ int) (*model.ExamSession, error) {
			return overdue, nil
		},
		expireFn: func(_ context.Context, _ int) (*model.ExamSession, error) {
			settled := *overdue
			settled.IsActive = false
			settled.EndedAt = &deadline
			return &settled, nil
		},
	}

	svc := newTestExamService(sessions, &mockAnswerStore{}, &mockQuestionStore{}, &mockUserStore{}, clock)
	resumed, err := svc.ResumeSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, resumed)
}

func TestInstructions(t *testing.T) {
	svc := newTestExamService(&mockSessionStore{}, &mockAnswerStore{}, &mockQuestionStore{}, &mockUserStore{}, clockwork.NewFakeClock())

	instructions := svc.Instructions(30)
	require.NotNil(t, instructions)
	assert.Equal(t, 30, instructions.DurationMinutes)
	assert.NotEmpty(t, instructions.Instructions)
	assert.Contains(t, instructions.Instructions[0], "30 minutes")
}
