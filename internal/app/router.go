package app

import (
	"suraksha_backend/docs"
	"suraksha_backend/internal/config"
	"suraksha_backend/internal/middleware"
	"suraksha_backend/internal/model"
	"suraksha_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// 模块目录允许游客浏览，登录用户附带进度
		public.GET("/modules", middleware.TryAuthMiddleware(a.Config), c.module.ListModules)
		public.GET("/modules/:id", middleware.TryAuthMiddleware(a.Config), c.module.GetModule)

		// 应急信息面向全员公开
		public.GET("/emergency/alerts", c.emergency.ActiveAlerts)
		public.GET("/emergency/contacts", c.emergency.EmergencyContacts)

		public.GET("/weather/current", c.weather.CurrentWeather)
		public.GET("/weather/alerts", middleware.TryAuthMiddleware(a.Config), c.weather.CurrentAlerts)
		public.GET("/weather/alerts/stored", middleware.TryAuthMiddleware(a.Config), c.weather.StoredAlerts)

		public.GET("/assistant/prompts", c.assistant.Prompts)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/auth/me", c.auth.Me)

	group.GET("/users/profile", c.user.GetProfile)
	group.PUT("/users/profile", c.user.UpdateProfile)
	group.POST("/users/avatar", c.user.UploadAvatar)

	// 测验与演练会话
	group.POST("/modules/:id/quiz/start", c.learning.StartQuiz)
	group.POST("/modules/:id/drill/start", c.learning.StartDrill)
	group.GET("/sessions/:sessionId", c.learning.GetSession)
	group.POST("/sessions/:sessionId/answer", c.learning.SubmitAnswer)
	group.POST("/sessions/:sessionId/advance", c.learning.Advance)
	group.POST("/sessions/:sessionId/restart", c.learning.Restart)

	// 进度账本
	group.GET("/progress", c.learning.GetProgress)
	group.GET("/progress/overall", c.learning.GetOverallProgress)
	group.GET("/progress/attempts", c.learning.GetAttempts)
	group.GET("/progress/:id", c.learning.GetModuleProgress)
	group.POST("/progress/:id/time", c.learning.AddTimeSpent)

	// SOS
	group.POST("/emergency/sos", c.emergency.TriggerSOS)
	group.GET("/emergency/sos", c.emergency.MySOSRequests)
	group.PUT("/emergency/sos/:id/resolve", c.emergency.ResolveSOS)

	group.POST("/weather/alerts/:id/dismiss", c.weather.DismissAlert)

	group.POST("/assistant/chat", c.assistant.Chat)
	group.POST("/assistant/chat/stream", c.assistant.ChatStream)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)

		admin.POST("/modules", c.module.CreateModule)
		admin.PUT("/modules/:id", c.module.UpdateModule)
		admin.DELETE("/modules/:id", c.module.DeleteModule)

		admin.GET("/analytics/dashboard", c.analytics.Dashboard)
		admin.GET("/analytics/users", c.analytics.UserAnalytics)
		admin.GET("/analytics/modules", c.analytics.ModuleAnalytics)
		admin.GET("/analytics/activities", c.analytics.RecentActivities)

		admin.POST("/emergency/alerts", c.emergency.CreateAlert)
		admin.GET("/emergency/alerts", c.emergency.ListAlerts)
		admin.DELETE("/emergency/alerts/:id", c.emergency.DeactivateAlert)
		admin.GET("/emergency/sos", c.emergency.ActiveSOSRequests)
		admin.POST("/emergency/contacts", c.emergency.CreateContact)
		admin.PUT("/emergency/contacts/:id", c.emergency.UpdateContact)
		admin.DELETE("/emergency/contacts/:id", c.emergency.DeleteContact)

		admin.GET("/weather/monitor", c.weather.MonitorStatus)
		admin.POST("/weather/monitor/start", c.weather.StartMonitor)
		admin.POST("/weather/monitor/stop", c.weather.StopMonitor)
		admin.GET("/weather/geocode", c.weather.ResolveLocation)
	}
}
