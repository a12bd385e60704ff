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

// GradingHandler handles lecturer grading endpoints.
type GradingHandler struct {
	answerService *service.AnswerService
}

// NewGradingHandler creates a new GradingHandler.
func NewGradingHandler(answerService *service.AnswerService) *GradingHandler {
	return &GradingHandler{answerService: answerService}
}

// ListAllAnswers godoc
// GET /api/v1/lecturer/answers
// Returns every student answer across all sessions, joined with student
// and question context for grading triage.
func (h *GradingHandler) ListAllAnswers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	entries, err := h.answerService.GradingQueue(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": entries})
}

// GradeAnswer godoc
// POST /api/v1/lecturer/answers/:answer_id/grade
// Records a score for one answer, attributed to the calling lecturer.
func (h *GradingHandler) GradeAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	answerID, err := strconv.Atoi(c.Param("answer_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GradeAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.answerService.Grade(c.Request.Context(), answerID, req.Score, claims.UserID)
	if err != nil {
		response.FailError(c, err)
		return
	}

	response.Success(c, http.StatusOK, answer)
}
