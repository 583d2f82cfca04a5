package stubgw

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quizdeck/quizdeck-client/internal/response"
)

// Router builds the Gin engine with all route groups wired up.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(s.cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth routes, rate limited against credential stuffing.
	limiter := newRateLimiter(20, time.Minute)
	auth := router.Group("/auth")
	auth.Use(limiter.middleware())
	{
		auth.POST("/login", s.login)
		auth.POST("/register", s.register)
		auth.POST("/forgot-password", s.forgotPassword)
		auth.POST("/verify-otp", s.verifyOTP)
		auth.POST("/reset-password", s.resetPassword)
	}

	// Routes for any signed-in account.
	user := router.Group("/")
	user.Use(s.requireAuth())
	{
		user.GET("/auth/me", s.me)
		user.PUT("/auth/profile", s.updateProfile)
		user.POST("/auth/change-password", s.changePassword)

		user.GET("/exams", s.listExams)
		user.POST("/exams/:exam_id/start", s.startExam)
		user.PUT("/attempts/:attempt_id/save", s.saveProgress)
		user.POST("/attempts/:attempt_id/submit", s.submitExam)
		user.GET("/results/:submission_id", s.getResult)
		user.GET("/history", s.history)

		user.GET("/exam-history/my-history", s.myHistory)
		user.GET("/exam-history/submission/:submission_id", s.submissionDetail)
	}

	// Admin-only routes.
	admin := router.Group("/")
	admin.Use(s.requireAuth(), requireAdmin())
	{
		admin.GET("/admin/questions", s.listQuestions)
		admin.POST("/admin/questions", s.createQuestion)
		admin.GET("/admin/questions/:id", s.getQuestion)
		admin.PUT("/admin/questions/:id", s.updateQuestion)
		admin.DELETE("/admin/questions/:id", s.deleteQuestion)

		admin.GET("/admin/exams", s.adminListExams)
		admin.POST("/admin/exams", s.createExam)
		admin.GET("/admin/exams/:id", s.adminGetExam)
		admin.PUT("/admin/exams/:id", s.updateExam)
		admin.DELETE("/admin/exams/:id", s.deleteExam)

		admin.GET("/admin/users", s.listUsers)
		admin.PUT("/admin/users/:id/role", s.updateUserRole)
		admin.PUT("/admin/users/:id/toggle-active", s.toggleUserActive)
		admin.DELETE("/admin/users/:id", s.deleteUser)

		admin.GET("/exam-history/all", s.allHistory)
		admin.GET("/exam-history/user/:user_id", s.userHistory)

		admin.POST("/ai-question/generate", s.generateQuestions)
	}

	return router
}
