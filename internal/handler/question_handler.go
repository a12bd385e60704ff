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

// QuestionHandler handles lecturer question catalog endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions godoc
// GET /api/v1/lecturer/questions
// Lists every question in the catalog, answer keys included.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.ListForLecturer(c.Request.Context())
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// CreateQuestion godoc
// POST /api/v1/lecturer/questions
// Creates a new question in draft status.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req, claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, question)
}

// UpdateQuestion godoc
// PUT /api/v1/lecturer/questions/:id
// Partially updates a question; omitted fields are left unchanged.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req, claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, question)
}

// ApproveQuestion godoc
// POST /api/v1/lecturer/questions/:id/approve
// Moves a draft question to approved, making it visible to students.
func (h *QuestionHandler) ApproveQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.questionService.Approve(c.Request.Context(), id, claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, question)
}

// GenerateQuestions godoc
// POST /api/v1/lecturer/questions/generate
// Renders draft questions from the per-topic templates with randomized
// parameters.
func (h *QuestionHandler) GenerateQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.GenerateQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.questionService.Generate(c.Request.Context(), &req, claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"questions": questions})
}
