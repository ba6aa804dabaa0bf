package controller

import (
	"errors"
	"suraksha_backend/internal/service"
	"suraksha_backend/internal/util"
	"suraksha_backend/internal/weather"

	"github.com/gin-gonic/gin"
)

type WeatherController struct {
	WeatherService *service.WeatherService
}

func NewWeatherController(weatherService *service.WeatherService) *WeatherController {
	return &WeatherController{WeatherService: weatherService}
}

func (c *WeatherController) handleWeatherError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrWeatherNotConfigured):
		util.Error(ctx, 503, err.Error())
	case errors.Is(err, weather.ErrLocationNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// CurrentWeather godoc
// @Summary 当前天气
// @Description 监测点的实时天气、预报与空气质量，5 分钟缓存
// @Tags 天气
// @Produce  json
// @Success 200 {object} util.Response{data=weather.Snapshot} "成功"
// @Failure 503 {object} util.Response "天气监测未配置"
// @Router /api/weather/current [get]
func (c *WeatherController) CurrentWeather(ctx *gin.Context) {
	snap, err := c.WeatherService.CurrentWeather(ctx.Request.Context())
	if err != nil {
		c.handleWeatherError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

// CurrentAlerts godoc
// @Summary 基于最新天气的即时告警
// @Tags 天气
// @Produce  json
// @Success 200 {object} util.Response{data=[]weather.EmergencyAlert} "成功"
// @Failure 503 {object} util.Response "天气监测未配置"
// @Router /api/weather/alerts [get]
func (c *WeatherController) CurrentAlerts(ctx *gin.Context) {
	alerts, err := c.WeatherService.CurrentAlerts(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		c.handleWeatherError(ctx, err)
		return
	}
	util.Success(ctx, alerts)
}

// StoredAlerts godoc
// @Summary 监测落库的活跃告警
// @Tags 天气
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.WeatherAlertRecord} "成功"
// @Router /api/weather/alerts/stored [get]
func (c *WeatherController) StoredAlerts(ctx *gin.Context) {
	records, err := c.WeatherService.StoredAlerts(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// DismissAlert godoc
// @Summary 屏蔽一条告警
// @Description 仅对当前用户生效，24 小时后自动恢复
// @Tags 天气
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "告警 ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/weather/alerts/{id}/dismiss [post]
func (c *WeatherController) DismissAlert(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.WeatherService.DismissAlert(ctx.Request.Context(), claims.UserID, ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MonitorStatus godoc
// @Summary 监测器状态
// @Tags 天气
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.MonitorStatus} "成功"
// @Router /api/admin/weather/monitor [get]
func (c *WeatherController) MonitorStatus(ctx *gin.Context) {
	util.Success(ctx, c.WeatherService.Status())
}

// StartMonitor godoc
// @Summary 启动天气监测（管理员）
// @Description 幂等，重复调用等价于重启轮询
// @Tags 天气
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.MonitorStatus} "成功"
// @Failure 503 {object} util.Response "天气监测未配置"
// @Router /api/admin/weather/monitor/start [post]
func (c *WeatherController) StartMonitor(ctx *gin.Context) {
	if err := c.WeatherService.StartMonitoring(ctx.Request.Context()); err != nil {
		c.handleWeatherError(ctx, err)
		return
	}
	util.Success(ctx, c.WeatherService.Status())
}

// StopMonitor godoc
// @Summary 停止天气监测（管理员）
// @Tags 天气
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.MonitorStatus} "成功"
// @Router /api/admin/weather/monitor/stop [post]
func (c *WeatherController) StopMonitor(ctx *gin.Context) {
	c.WeatherService.StopMonitoring()
	util.Success(ctx, c.WeatherService.Status())
}

// ResolveLocation godoc
// @Summary 城市名转坐标（管理员）
// @Tags 天气
// @Produce  json
// @Security BearerAuth
// @Param   city query string true "城市名"
// @Param   country query string false "国家代码"
// @Success 200 {object} util.Response{data=weather.Location} "成功"
// @Failure 404 {object} util.Response "地点不存在"
// @Router /api/admin/weather/geocode [get]
func (c *WeatherController) ResolveLocation(ctx *gin.Context) {
	city := ctx.Query("city")
	if city == "" {
		util.BadRequest(ctx, "city is required")
		return
	}

	loc, err := c.WeatherService.ResolveLocation(ctx.Request.Context(), city, ctx.Query("country"))
	if err != nil {
		c.handleWeatherError(ctx, err)
		return
	}
	util.Success(ctx, loc)
}
