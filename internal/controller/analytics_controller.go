package controller

import (
	"strconv"
	"suraksha_backend/internal/service"
	"suraksha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Dashboard godoc
// @Summary 管理端数据总览
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard} "成功"
// @Router /api/admin/analytics/dashboard [get]
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.AnalyticsService.GetDashboard()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// UserAnalytics godoc
// @Summary 用户统计
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserAnalytics} "成功"
// @Router /api/admin/analytics/users [get]
func (c *AnalyticsController) UserAnalytics(ctx *gin.Context) {
	analytics, err := c.AnalyticsService.UserAnalytics()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// ModuleAnalytics godoc
// @Summary 模块统计
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ModuleAnalytics} "成功"
// @Router /api/admin/analytics/modules [get]
func (c *AnalyticsController) ModuleAnalytics(ctx *gin.Context) {
	analytics, err := c.AnalyticsService.ModuleAnalytics()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// RecentActivities godoc
// @Summary 最近动态
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "条数上限"
// @Success 200 {object} util.Response{data=[]model.ActivityItem} "成功"
// @Router /api/admin/analytics/activities [get]
func (c *AnalyticsController) RecentActivities(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	activities, err := c.AnalyticsService.RecentActivities(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, activities)
}
