package controller

import (
	"errors"
	"strconv"
	"suraksha_backend/internal/progression"
	"suraksha_backend/internal/service"
	"suraksha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

func (c *LearningController) handleSessionError(ctx *gin.Context, err error) {
	var choiceErr *progression.InvalidChoiceError
	var stateErr *progression.InvalidStateTransitionError
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrModuleNotFound):
		util.NotFound(ctx)
	case errors.As(err, &choiceErr):
		util.BadRequest(ctx, choiceErr.Error())
	case errors.As(err, &stateErr):
		util.Conflict(ctx, stateErr.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// StartQuiz godoc
// @Summary 开始测验
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 201 {object} util.Response{data=service.SessionView} "会话已创建"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id}/quiz/start [post]
func (c *LearningController) StartQuiz(ctx *gin.Context) {
	c.startSession(ctx, c.LearningService.StartQuiz)
}

// StartDrill godoc
// @Summary 开始演练
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 201 {object} util.Response{data=service.SessionView} "会话已创建"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id}/drill/start [post]
func (c *LearningController) StartDrill(ctx *gin.Context) {
	c.startSession(ctx, c.LearningService.StartDrill)
}

func (c *LearningController) startSession(ctx *gin.Context, start func(userID, moduleID uint) (*service.SessionView, error)) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	view, err := start(claims.UserID, uint(moduleID))
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

type AnswerRequest struct {
	Choice *int `json:"choice" binding:"required"`
}

// SubmitAnswer godoc
// @Summary 提交当前阶段的作答
// @Description 返回正误与反馈；选项越界返回 400，状态不符返回 409
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Param   body body AnswerRequest true "选项下标"
// @Success 200 {object} util.Response{data=service.AnswerResult} "成功"
// @Failure 400 {object} util.Response "选项无效"
// @Failure 409 {object} util.Response "状态不允许作答"
// @Router /api/sessions/{sessionId}/answer [post]
func (c *LearningController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.LearningService.SubmitAnswer(claims.UserID, ctx.Param("sessionId"), *req.Choice)
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Advance godoc
// @Summary 确认反馈进入下一阶段
// @Description 最后一个阶段确认后会话完成，进度写入账本
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 409 {object} util.Response "状态不允许前进"
// @Router /api/sessions/{sessionId}/advance [post]
func (c *LearningController) Advance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.LearningService.Advance(claims.UserID, ctx.Param("sessionId"))
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Restart godoc
// @Summary 重新开始会话
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Router /api/sessions/{sessionId}/restart [post]
func (c *LearningController) Restart(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.LearningService.Restart(claims.UserID, ctx.Param("sessionId"))
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetSession godoc
// @Summary 查询会话状态
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 404 {object} util.Response "会话不存在或已过期"
// @Router /api/sessions/{sessionId} [get]
func (c *LearningController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.LearningService.GetSession(claims.UserID, ctx.Param("sessionId"))
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetProgress godoc
// @Summary 当前用户全部模块进度
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.StudentProgress} "成功"
// @Router /api/progress [get]
func (c *LearningController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.LearningService.GetProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// GetOverallProgress godoc
// @Summary 进度总览
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.OverallProgress} "成功"
// @Router /api/progress/overall [get]
func (c *LearningController) GetOverallProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overall, err := c.LearningService.OverallProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overall)
}

// GetModuleProgress godoc
// @Summary 单模块进度
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 200 {object} util.Response{data=model.StudentProgress} "成功"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/progress/{id} [get]
func (c *LearningController) GetModuleProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	record, err := c.LearningService.GetModuleProgress(claims.UserID, uint(moduleID))
	if errors.Is(err, util.ErrModuleNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

type TimeSpentRequest struct {
	Minutes int `json:"minutes" binding:"required,min=1"`
}

// AddTimeSpent godoc
// @Summary 累计模块学习时长
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Param   body body TimeSpentRequest true "分钟数"
// @Success 200 {object} util.Response "成功"
// @Router /api/progress/{id}/time [post]
func (c *LearningController) AddTimeSpent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	var req TimeSpentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.LearningService.AddTimeSpent(claims.UserID, uint(moduleID), req.Minutes); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetAttempts godoc
// @Summary 历史作答记录
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   moduleId query int false "按模块过滤"
// @Param   limit query int false "条数上限"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt} "成功"
// @Router /api/progress/attempts [get]
func (c *LearningController) GetAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	moduleID, _ := strconv.ParseUint(ctx.DefaultQuery("moduleId", "0"), 10, 32)
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	attempts, err := c.LearningService.GetAttempts(claims.UserID, uint(moduleID), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
