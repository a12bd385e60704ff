package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/orexam/orexam-backend/internal/config"
	"github.com/orexam/orexam-backend/internal/handler"
	"github.com/orexam/orexam-backend/internal/middleware"
	"github.com/orexam/orexam-backend/internal/response"
	"github.com/orexam/orexam-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Grading  *handler.GradingHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/exam/instructions", handlers.Exam.Instructions)
		studentAPI.POST("/exam/start", handlers.Exam.StartExam)
		studentAPI.GET("/exam/active", handlers.Exam.GetActiveSession)
		studentAPI.GET("/exam/resume", handlers.Exam.Resume)
		studentAPI.GET("/questions", handlers.Exam.ListQuestions)

		studentAPI.POST("/sessions/:session_id/end", handlers.Exam.EndExam)
		studentAPI.PUT("/sessions/:session_id/answers", handlers.Exam.SubmitAnswer)
		studentAPI.GET("/sessions/:session_id/answers", handlers.Exam.ListAnswers)
	}

	// ─── 3. Lecturer Group (JWT) ───────────────────────────────────────
	lecturerAPI := router.Group("/api/v1/lecturer")
	lecturerAPI.Use(middleware.RequireLecturerJWT(authService))
	{
		lecturerAPI.GET("/questions", handlers.Question.ListQuestions)
		lecturerAPI.POST("/questions", handlers.Question.CreateQuestion)
		lecturerAPI.PUT("/questions/:id", handlers.Question.UpdateQuestion)
		lecturerAPI.POST("/questions/:id/approve", handlers.Question.ApproveQuestion)
		lecturerAPI.POST("/questions/generate", handlers.Question.GenerateQuestions)

		lecturerAPI.GET("/answers", handlers.Grading.ListAllAnswers)
		lecturerAPI.POST("/answers/:answer_id/grade", handlers.Grading.GradeAnswer)
	}

	return router
}
