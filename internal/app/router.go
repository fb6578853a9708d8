package app

import (
	"code_quest_backend/internal/config"
	"code_quest_backend/internal/middleware"
	"code_quest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/leaderboard", c.user.GetLeaderboard)
		public.GET("/daily-challenge", c.daily.GetDailyChallenge)
		public.GET("/badges", c.badge.GetCatalog)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.GET("/challenges", c.challenge.GetChallenges)
		authGroup.GET("/challenges/:id", c.challenge.GetChallenge)
		authGroup.POST("/challenges/:id/run", c.challenge.RunCode)
		authGroup.POST("/challenges/:id/submit", c.challenge.SubmitSolution)

		authGroup.GET("/submissions", c.submission.GetMySubmissions)
		authGroup.GET("/badges/mine", c.badge.GetMyBadges)
	}
}
