package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vnkhanh/wikismart-edu-backend/controllers"
	"github.com/vnkhanh/wikismart-edu-backend/middleware"
	"github.com/vnkhanh/wikismart-edu-backend/services"
)

func SetupRouter(r *gin.Engine, h *controllers.Handler, guard *services.AccessGuard) *gin.Engine {
	controllers.RegisterValidators()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.GET("/health", h.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.AuthMiddleware(guard), h.Me)
	}

	articles := api.Group("/articles")
	{
		articles.POST("/summary/url", middleware.OptionalAuthMiddleware(guard), h.SummarizeArticleFromURL)

		protected := articles.Group("")
		protected.Use(middleware.AuthMiddleware(guard))
		protected.POST("/ingest/url", h.IngestArticleFromURL)
		protected.POST("/ingest/pdf", h.IngestArticleFromUpload)
		protected.POST("/summary", h.SummarizeArticle)
		protected.POST("/translate/url", h.TranslateArticleFromURL)
		protected.POST("/translate", h.TranslateArticle)
	}

	quiz := api.Group("/quiz")
	{
		quiz.Use(middleware.AuthMiddleware(guard))
		quiz.POST("/generate", h.GenerateQuiz)
		quiz.POST("/attempt", h.SubmitQuizAttempt)
		quiz.GET("/attempts", h.ListQuizAttempts)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.RequireAdmin(guard))
		admin.GET("/stats", h.GetGlobalStats)
	}

	return r
}
