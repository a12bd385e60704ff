package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orexam/orexam-backend/internal/middleware"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/orexam/orexam-backend/internal/response"
	"github.com/orexam/orexam-backend/internal/service"
	"github.com/orexam/orexam-backend/internal/validator"
)

// ExamHandler handles the student exam portal endpoints.
type ExamHandler struct {
	examService     *service.ExamService
	sessionService  *service.ExamSessionService
	answerService   *service.AnswerService
	questionService *service.QuestionService
	durationMinutes int
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(
	examService *service.ExamService,
	sessionService *service.ExamSessionService,
	answerService *service.AnswerService,
	questionService *service.QuestionService,
	durationMinutes int,
) *ExamHandler {
	return &ExamHandler{
		examService:     examService,
		sessionService:  sessionService,
		answerService:   answerService,
		questionService: questionService,
		durationMinutes: durationMinutes,
	}
}

// Instructions godoc
// GET /api/v1/student/exam/instructions
// Returns the static pre-exam briefing shown before starting.
func (h *ExamHandler) Instructions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.examService.Instructions(h.durationMinutes))
}

// StartExam godoc
// POST /api/v1/student/exam/start
// Opens a new timed session for the authenticated student and returns
// it together with the visible question set.
func (h *ExamHandler) StartExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	started, err := h.examService.StartSession(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, started)
}

// GetActiveSession godoc
// GET /api/v1/student/exam/active
// Returns the student's current session. A session past its deadline is
// settled here and returned with is_active=false; data is null when the
// student has never started or the last session already settled.
func (h *ExamHandler) GetActiveSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, err := h.sessionService.GetActive(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// Resume godoc
// GET /api/v1/student/exam/resume
// Returns the live session plus questions and saved answers so a
// reconnecting student can restore their in-progress state. Data is
// null when no session is live.
func (h *ExamHandler) Resume(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	resumed, err := h.examService.ResumeSession(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resumed)
}

// EndExam godoc
// POST /api/v1/student/sessions/:session_id/end
// Finishes the student's own session, stamping the actual end time.
func (h *ExamHandler) EndExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := h.ownedSession(c, claims.UserID)
	if !ok {
		return
	}

	session, err := h.sessionService.End(c.Request.Context(), sessionID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// SubmitAnswer godoc
// PUT /api/v1/student/sessions/:session_id/answers
// Saves the answer for one question. Re-submitting the same question
// replaces the answer content without touching any grade on it.
func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := h.ownedSession(c, claims.UserID)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.answerService.Submit(c.Request.Context(), sessionID, req.QuestionID, req.AnswerText, req.AttachmentPath)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, answer)
}

// ListAnswers godoc
// GET /api/v1/student/sessions/:session_id/answers
// Returns the student's saved answers for one of their own sessions.
func (h *ExamHandler) ListAnswers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := h.ownedSession(c, claims.UserID)
	if !ok {
		return
	}

	answers, err := h.answerService.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// ListQuestions godoc
// GET /api/v1/student/questions
// Returns the visible question set with answer keys stripped.
func (h *ExamHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.ListForStudent(c.Request.Context())
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// ownedSession parses the :session_id param and verifies the session
// belongs to studentID. Resolution applies expiry-on-read, so an
// overdue session is settled before any answer operation sees it.
// Writes the error response itself when the check fails.
func (h *ExamHandler) ownedSession(c *gin.Context, studentID int) (int, bool) {
	sessionID, err := strconv.Atoi(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}

	session, err := h.sessionService.Resolve(c.Request.Context(), sessionID)
	if err != nil {
		response.FailError(c, err)
		return 0, false
	}
	if session == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return 0, false
	}
	if session.StudentID != studentID {
		response.Fail(c, http.StatusForbidden, response.ErrNotSessionOwner)
		return 0, false
	}
	return sessionID, true
}
