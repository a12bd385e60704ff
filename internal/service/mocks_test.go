package service

import (
	"context"
	"fmt"
	"time"

	"github.com/orexam/orexam-backend/internal/model"
	"github.com/shopspring/decimal"
)

// --- Mock implementations ---

type mockUserStore struct {
	getByIDFn         func(ctx context.Context, id int) (*model.User, error)
	getByUsernameFn   func(ctx context.Context, username string) (*model.User, error)
	findConflictingFn func(ctx context.Context, username, nim, attendanceNumber string) (*model.User, error)
	createFn          func(ctx context.Context, u *model.User) error
}

func (m *mockUserStore) GetByID(ctx context.Context, id int) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserStore) FindConflicting(ctx context.Context, username, nim, attendanceNumber string) (*model.User, error) {
	if m.findConflictingFn != nil {
		return m.findConflictingFn(ctx, username, nim, attendanceNumber)
	}
	return nil, nil
}

func (m *mockUserStore) Create(ctx context.Context, u *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

type mockSessionStore struct {
	getByIDFn            func(ctx context.Context, id int) (*model.ExamSession, error)
	getActiveByStudentFn func(ctx context.Context, studentID int) (*model.ExamSession, error)
	createFn             func(ctx context.Context, s *model.ExamSession) error
	expireFn             func(ctx context.Context, id int) (*model.ExamSession, error)
	endFn                func(ctx context.Context, id int, endedAt time.Time) (*model.ExamSession, error)
}

func (m *mockSessionStore) GetByID(ctx context.Context, id int) (*model.ExamSession, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSessionStore) GetActiveByStudent(ctx context.Context, studentID int) (*model.ExamSession, error) {
	if m.getActiveByStudentFn != nil {
		return m.getActiveByStudentFn(ctx, studentID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSessionStore) Create(ctx context.Context, s *model.ExamSession) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockSessionStore) Expire(ctx context.Context, id int) (*model.ExamSession, error) {
	if m.expireFn != nil {
		return m.expireFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSessionStore) End(ctx context.Context, id int, endedAt time.Time) (*model.ExamSession, error) {
	if m.endFn != nil {
		return m.endFn(ctx, id, endedAt)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockAnswerStore struct {
	upsertFn        func(ctx context.Context, sessionID, questionID int, answerText, attachmentPath *string, now time.Time) (*model.StudentAnswer, error)
	getByIDFn       func(ctx context.Context, id int) (*model.StudentAnswer, error)
	listBySessionFn func(ctx context.Context, sessionID int) ([]model.StudentAnswer, error)
	gradeFn         func(ctx context.Context, id int, score decimal.Decimal, gradedBy int, gradedAt time.Time) (*model.StudentAnswer, error)
	listAllFn       func(ctx context.Context) ([]model.GradingEntry, error)
}

func (m *mockAnswerStore) Upsert(ctx context.Context, sessionID, questionID int, answerText, attachmentPath *string, now time.Time) (*model.StudentAnswer, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, sessionID, questionID, answerText, attachmentPath, now)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAnswerStore) GetByID(ctx context.Context, id int) (*model.StudentAnswer, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAnswerStore) ListBySession(ctx context.Context, sessionID int) ([]model.StudentAnswer, error) {
	if m.listBySessionFn != nil {
		return m.listBySessionFn(ctx, sessionID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAnswerStore) Grade(ctx context.Context, id int, score decimal.Decimal, gradedBy int, gradedAt time.Time) (*model.StudentAnswer, error) {
	if m.gradeFn != nil {
		return m.gradeFn(ctx, id, score, gradedBy, gradedAt)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAnswerStore) ListAll(ctx context.Context) ([]model.GradingEntry, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockQuestionStore struct {
	getByIDFn      func(ctx context.Context, id int) (*model.Question, error)
	listVisibleFn  func(ctx context.Context) ([]model.Question, error)
	listAllFn      func(ctx context.Context) ([]model.Question, error)
	createFn       func(ctx context.Context, q *model.Question) error
	updateFn       func(ctx context.Context, q *model.Question, now time.Time) error
	updateStatusFn func(ctx context.Context, id int, status model.QuestionStatus, now time.Time) (*model.Question, error)
}

func (m *mockQuestionStore) GetByID(ctx context.Context, id int) (*model.Question, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuestionStore) ListVisible(ctx context.Context) ([]model.Question, error) {
	if m.listVisibleFn != nil {
		return m.listVisibleFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuestionStore) ListAll(ctx context.Context) ([]model.Question, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuestionStore) Create(ctx context.Context, q *model.Question) error {
	if m.createFn != nil {
		return m.createFn(ctx, q)
	}
	return nil
}

func (m *mockQuestionStore) Update(ctx context.Context, q *model.Question, now time.Time) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, q, now)
	}
	return nil
}

func (m *mockQuestionStore) UpdateStatus(ctx context.Context, id int, status model.QuestionStatus, now time.Time) (*model.Question, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, now)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockSessionResolver struct {
	resolveFn func(ctx context.Context, sessionID int) (*model.ExamSession, error)
}

func (m *mockSessionResolver) Resolve(ctx context.Context, sessionID int) (*model.ExamSession, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, sessionID)
	}
	return nil, fmt.Errorf("not implemented")
}

// --- Shared fixtures ---

func studentUser(id int) *model.User {
	nim := fmt.Sprintf("nim-%d", id)
	att := fmt.Sprintf("att-%d", id)
	return &model.User{
		ID:               id,
		Name:             fmt.Sprintf("Student %d", id),
		NIM:              &nim,
		AttendanceNumber: &att,
		Username:         fmt.Sprintf("student%d", id),
		Role:             model.RoleStudent,
	}
}

func lecturerUser(id int) *model.User {
	return &model.User{
		ID:       id,
		Name:     fmt.Sprintf("Lecturer %d", id),
		Username: fmt.Sprintf("lecturer%d", id),
		Role:     model.RoleLecturer,
	}
}
