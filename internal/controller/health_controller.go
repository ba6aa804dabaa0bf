package controller

import (
	"context"
	"suraksha_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// Health godoc
// @Summary 健康检查
// @Tags 运维
// @Produce  json
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	status := gin.H{
		"status": "ok",
		"time":   time.Now(),
	}

	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(checkCtx) != nil {
		dbStatus = "down"
	}
	status["database"] = dbStatus

	redisStatus := "disabled"
	if c.Redis != nil {
		redisStatus = "ok"
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			redisStatus = "down"
		}
	}
	status["redis"] = redisStatus

	util.Success(ctx, status)
}
