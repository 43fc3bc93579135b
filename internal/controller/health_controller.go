package controller

import (
	"context"
	"net/http"
	"time"

	"mockview_backend/internal/repository"
	"mockview_backend/internal/service"
	"mockview_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthController DB 与 Redis 未启用时为 nil
type HealthController struct {
	DB           *gorm.DB
	Redis        *redis.Client
	QuestionRepo *repository.QuestionRepository
	AIService    *service.AIService
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, questionRepo *repository.QuestionRepository, aiService *service.AIService) *HealthController {
	return &HealthController{DB: db, Redis: rdb, QuestionRepo: questionRepo, AIService: aiService}
}

// @Summary 健康检查
// @Description 检查服务及各组件状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	components := gin.H{}

	switch {
	case c.DB == nil:
		components["database"] = "disabled"
	default:
		sqlDB, err := c.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(pingCtx)
		}
		if err != nil {
			components["database"] = "down"
			healthy = false
		} else {
			components["database"] = "up"
		}
	}

	switch {
	case c.Redis == nil:
		components["redis"] = "disabled"
	case c.Redis.Ping(pingCtx).Err() != nil:
		components["redis"] = "down"
		healthy = false
	default:
		components["redis"] = "up"
	}

	if topics, err := c.QuestionRepo.ListTopics(); err != nil {
		components["questions"] = "down"
		healthy = false
	} else {
		components["questions"] = gin.H{"topics": len(topics)}
	}

	if c.AIService.Enabled() {
		components["ai"] = c.AIService.Model()
	} else {
		components["ai"] = "disabled"
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "degraded",
			Data:    gin.H{"status": "degraded", "components": components},
		})
		return
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
