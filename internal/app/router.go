package app

import (
	"skillforge_backend/docs"
	"skillforge_backend/internal/config"
	"skillforge_backend/internal/middleware"

	"skillforge_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, s.token), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.POST("/auth/logout", c.auth.Logout)
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		// 学习目标
		authGroup.GET("/goals", c.goal.ListGoals)
		authGroup.POST("/goals", c.goal.CreateGoal)
		authGroup.GET("/goals/:id", c.goal.GetGoalByID)
		authGroup.PUT("/goals/:id", c.goal.UpdateGoal)
		authGroup.DELETE("/goals/:id", c.goal.DeleteGoal)

		// 挑战
		authGroup.GET("/challenges", c.challenge.ListChallenges)
		authGroup.POST("/challenges", c.challenge.CreateChallenge)
		authGroup.GET("/challenges/:id", c.challenge.GetChallengeByID)
		authGroup.PUT("/challenges/:id", c.challenge.UpdateChallenge)
		authGroup.DELETE("/challenges/:id", c.challenge.DeleteChallenge)

		// 提交
		authGroup.GET("/submissions", c.submission.ListSubmissions)
		authGroup.POST("/submissions", c.submission.CreateSubmission)
		authGroup.GET("/submissions/:id", c.submission.GetSubmissionByID)
		authGroup.PUT("/submissions/:id", c.submission.UpdateSubmission)
		authGroup.POST("/submissions/:id/attachment", c.submission.UploadAttachment)

		// 同伴互评
		authGroup.POST("/peer-reviews/assign", c.peerReview.AssignReview)
		authGroup.POST("/peer-reviews", c.peerReview.SubmitReview)
		authGroup.POST("/peer-reviews/:id/complete", c.peerReview.CompleteReview)
		authGroup.GET("/peer-reviews/pending", c.peerReview.ListPending)
		authGroup.GET("/peer-reviews/received", c.peerReview.ListReceived)
		authGroup.GET("/peer-reviews/given", c.peerReview.ListGiven)

		// AI辅助
		authGroup.POST("/ai/generate-challenge", c.ai.GenerateChallenge)
		authGroup.POST("/ai/submit-for-feedback", c.ai.SubmitForFeedback)
	}
}
