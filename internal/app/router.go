package app

import (
	"mockview_backend/docs"
	"mockview_backend/internal/config"
	"mockview_backend/internal/middleware"
	"mockview_backend/internal/util"
	"mockview_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	// 1. 公共路由
	api.GET("/health", c.health.HealthCheck)
	api.GET("/topics", c.topic.List)

	// 2. 面试流程，会话令牌可选（start 接口负责签发）
	interview := api.Group("")
	interview.Use(middleware.TrySessionMiddleware(&cfg.Session))
	{
		interview.POST("/start", c.interview.Start)
		interview.POST("/start-custom-interview", c.interview.StartCustom)
		interview.GET("/ask", c.interview.Ask)
		interview.POST("/answer", c.interview.Answer)
		interview.POST("/hint", c.interview.Hint)
		interview.POST("/explain", c.interview.Explain)
		interview.POST("/generate-report", c.report.Generate)
	}

	// 3. 必须携带会话
	sessionGroup := api.Group("")
	sessionGroup.Use(middleware.SessionMiddleware(&cfg.Session))
	{
		sessionGroup.GET("/reports", c.report.List)
	}

	router.NoRoute(util.NotFound)
}
