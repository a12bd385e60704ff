package service

import (
	"context"
	"fmt"

	"github.com/orexam/orexam-backend/internal/model"
)

// StartedExam is what a client needs to begin: the fresh session plus
// the visible question catalog.
type StartedExam struct {
	Session   *model.ExamSession `json:"session"`
	Questions []model.Question   `json:"questions"`
}

// ResumedExam reconstructs in-progress state after a reconnect: the
// still-active session, the questions, and every answer saved so far.
type ResumedExam struct {
	Session   *model.ExamSession    `json:"session"`
	Questions []model.Question      `json:"questions"`
	Answers   []model.StudentAnswer `json:"answers"`
}

// ExamService is the coordinator composing the session manager, the
// answer store and the question catalog into the views a client needs.
type ExamService struct {
	sessions  *ExamSessionService
	answers   *AnswerService
	questions *QuestionService
}

// NewExamService creates a new ExamService.
func NewExamService(sessions *ExamSessionService, answers *AnswerService, questions *QuestionService) *ExamService {
	return &ExamService{sessions: sessions, answers: answers, questions: questions}
}

// StartSession opens a session for the student and bundles the visible
// questions alongside it.
func (s *ExamService) StartSession(ctx context.Context, studentID int) (*StartedExam, error) {
	session, err := s.sessions.Start(ctx, studentID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListForStudent(ctx)
	if err != nil {
		return nil, err
	}

	return &StartedExam{Session: session, Questions: questions}, nil
}

// ResumeSession rebuilds a client's in-progress view. Returns (nil, nil)
// when the student has no session that is still active — including the
// case where the lookup itself just expired it.
func (s *ExamService) ResumeSession(ctx context.Context, studentID int) (*ResumedExam, error) {
	session, err := s.sessions.GetActive(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive {
		return nil, nil
	}

	questions, err := s.questions.ListForStudent(ctx)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &ResumedExam{Session: session, Questions: questions, Answers: answers}, nil
}

// Instructions returns the static pre-exam briefing.
func (s *ExamService) Instructions(durationMinutes int) *model.ExamInstructions {
	return &model.ExamInstructions{
		DurationMinutes: durationMinutes,
		Instructions: []string{
			fmt.Sprintf("Exam duration: %d minutes", durationMinutes),
			"Timer starts immediately upon clicking \"Start Exam\"",
			"The exam will automatically end when the time expires",
			"Ensure you have a stable internet connection",
			"Save your answers periodically",
			"You can attach files of any type to support your answers",
			"Read each question carefully before answering",
			"Contact your lecturer if you encounter technical issues",
		},
	}
}
