package controller

import (
	"errors"
	"strconv"
	"suraksha_backend/internal/model"
	"suraksha_backend/internal/service"
	"suraksha_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type EmergencyController struct {
	EmergencyService *service.EmergencyService
}

func NewEmergencyController(emergencyService *service.EmergencyService) *EmergencyController {
	return &EmergencyController{EmergencyService: emergencyService}
}

// ActiveAlerts godoc
// @Summary 当前生效的应急通告
// @Tags 应急
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.EmergencyAlert} "成功"
// @Router /api/emergency/alerts [get]
func (c *EmergencyController) ActiveAlerts(ctx *gin.Context) {
	alerts, err := c.EmergencyService.ActiveAlerts()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, alerts)
}

type CreateAlertRequest struct {
	AlertType string `json:"alertType" binding:"required,oneof=earthquake fire flood cyclone weather other"`
	Severity  string `json:"severity" binding:"required,oneof=low medium high critical"`
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Location  string `json:"location" binding:"required"`
	ExpiresIn int    `json:"expiresInHours"`
}

// CreateAlert godoc
// @Summary 发布应急通告（管理员）
// @Tags 应急
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateAlertRequest true "通告内容"
// @Success 201 {object} util.Response{data=model.EmergencyAlert} "发布成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/emergency/alerts [post]
func (c *EmergencyController) CreateAlert(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateAlertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	alert := &model.EmergencyAlert{
		AlertType: model.AlertType(req.AlertType),
		Severity:  model.AlertSeverity(req.Severity),
		Title:     req.Title,
		Message:   req.Message,
		Location:  req.Location,
	}
	if req.ExpiresIn > 0 {
		expires := time.Now().Add(time.Duration(req.ExpiresIn) * time.Hour)
		alert.ExpiresAt = &expires
	}

	if err := c.EmergencyService.CreateAlert(alert, claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, alert)
}

// ListAlerts godoc
// @Summary 全部通告（管理员）
// @Tags 应急
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/emergency/alerts [get]
func (c *EmergencyController) ListAlerts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	alerts, total, err := c.EmergencyService.ListAlerts(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: alerts, Total: total, Page: page, Limit: limit})
}

// DeactivateAlert godoc
// @Summary 撤销通告（管理员）
// @Tags 应急
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "通告 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "通告不存在"
// @Router /api/admin/emergency/alerts/{id} [delete]
func (c *EmergencyController) DeactivateAlert(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid alert id")
		return
	}

	if err := c.EmergencyService.DeactivateAlert(uint(id)); err != nil {
		if errors.Is(err, util.ErrAlertNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type SOSRequestBody struct {
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     string   `json:"notes"`
}

// TriggerSOS godoc
// @Summary 发起 SOS 求助
// @Tags 应急
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SOSRequestBody true "位置信息"
// @Success 201 {object} util.Response{data=model.SOSRequest} "已发送"
// @Router /api/emergency/sos [post]
func (c *EmergencyController) TriggerSOS(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SOSRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sos, err := c.EmergencyService.TriggerSOS(claims.UserID, req.Location, req.Latitude, req.Longitude, req.Notes)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, sos)
}

// MySOSRequests godoc
// @Summary 我的求助记录
// @Tags 应急
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.SOSRequest} "成功"
// @Router /api/emergency/sos [get]
func (c *EmergencyController) MySOSRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	reqs, err := c.EmergencyService.UserSOSRequests(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reqs)
}

// ActiveSOSRequests godoc
// @Summary 待处理的求助（管理员）
// @Tags 应急
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.SOSRequest} "成功"
// @Router /api/admin/emergency/sos [get]
func (c *EmergencyController) ActiveSOSRequests(ctx *gin.Context) {
	reqs, err := c.EmergencyService.ActiveSOSRequests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reqs)
}

type ResolveSOSRequest struct {
	Status string `json:"status" binding:"required,oneof=resolved cancelled"`
	Notes  string `json:"notes"`
}

// ResolveSOS godoc
// @Summary 处理求助
// @Description 管理员可标记 resolved/cancelled；本人仅可取消自己的求助
// @Tags 应急
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "求助 ID"
// @Param   body body ResolveSOSRequest true "处理结果"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "求助不存在"
// @Router /api/emergency/sos/{id}/resolve [put]
func (c *EmergencyController) ResolveSOS(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid sos id")
		return
	}

	var req ResolveSOSRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err = c.EmergencyService.ResolveSOS(uint(id), claims.UserID, claims.Role, model.SOSStatus(req.Status), req.Notes)
	switch {
	case errors.Is(err, util.ErrSOSNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case err != nil:
		util.LogInternalError(ctx, err)
	default:
		util.Success(ctx, nil)
	}
}

// EmergencyContacts godoc
// @Summary 应急联系人列表
// @Tags 应急
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.EmergencyContact} "成功"
// @Router /api/emergency/contacts [get]
func (c *EmergencyController) EmergencyContacts(ctx *gin.Context) {
	contacts, err := c.EmergencyService.EmergencyContacts()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, contacts)
}

// CreateContact godoc
// @Summary 新增应急联系人（管理员）
// @Tags 应急
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.EmergencyContact true "联系人"
// @Success 201 {object} util.Response{data=model.EmergencyContact} "创建成功"
// @Router /api/admin/emergency/contacts [post]
func (c *EmergencyController) CreateContact(ctx *gin.Context) {
	var contact model.EmergencyContact
	if err := ctx.ShouldBindJSON(&contact); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if contact.Name == "" || contact.Phone == "" {
		util.BadRequest(ctx, "name and phone are required")
		return
	}

	if err := c.EmergencyService.CreateContact(&contact); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, contact)
}

// UpdateContact godoc
// @Summary 更新应急联系人（管理员）
// @Tags 应急
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "联系人 ID"
// @Param   body body model.EmergencyContact true "联系人"
// @Success 200 {object} util.Response{data=model.EmergencyContact} "成功"
// @Router /api/admin/emergency/contacts/{id} [put]
func (c *EmergencyController) UpdateContact(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid contact id")
		return
	}

	var contact model.EmergencyContact
	if err := ctx.ShouldBindJSON(&contact); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	contact.ID = uint(id)

	if err := c.EmergencyService.UpdateContact(&contact); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, contact)
}

// DeleteContact godoc
// @Summary 删除应急联系人（管理员）
// @Tags 应急
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "联系人 ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/emergency/contacts/{id} [delete]
func (c *EmergencyController) DeleteContact(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid contact id")
		return
	}

	if err := c.EmergencyService.DeleteContact(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
