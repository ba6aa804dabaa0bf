package controller

import (
	"errors"
	"strconv"
	"suraksha_backend/internal/model"
	"suraksha_backend/internal/service"
	"suraksha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ModuleService *service.ModuleService
}

func NewModuleController(moduleService *service.ModuleService) *ModuleController {
	return &ModuleController{ModuleService: moduleService}
}

func currentUserID(ctx *gin.Context) uint {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return 0
	}
	return claims.UserID
}

// ListModules godoc
// @Summary 防灾模块列表
// @Description 已登录时每个模块附带当前用户进度
// @Tags 模块
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.ModuleSummary} "成功"
// @Router /api/modules [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	includeInactive := claims != nil && claims.Role == model.Admin && ctx.Query("all") == "true"

	modules, err := c.ModuleService.ListModules(currentUserID(ctx), includeInactive)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// GetModule godoc
// @Summary 模块详情
// @Description 含阶段内容、测验题（不含答案）、演练场景
// @Tags 模块
// @Produce  json
// @Param   id path int true "模块 ID"
// @Success 200 {object} util.Response{data=model.DisasterModule} "成功"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id} [get]
func (c *ModuleController) GetModule(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		// 兼容 slug 访问
		module, err := c.ModuleService.GetModuleBySlug(ctx.Param("id"), currentUserID(ctx))
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
			return
		}
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, module)
		return
	}

	module, err := c.ModuleService.GetModule(uint(id), currentUserID(ctx))
	if errors.Is(err, util.ErrModuleNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// CreateModule godoc
// @Summary 创建模块（管理员）
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.DisasterModule true "模块内容"
// @Success 201 {object} util.Response{data=model.DisasterModule} "创建成功"
// @Failure 409 {object} util.Response "slug 已存在"
// @Router /api/admin/modules [post]
func (c *ModuleController) CreateModule(ctx *gin.Context) {
	var module model.DisasterModule
	if err := ctx.ShouldBindJSON(&module); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if module.Slug == "" || module.Title == "" {
		util.BadRequest(ctx, "slug and title are required")
		return
	}

	if err := c.ModuleService.CreateModule(&module); err != nil {
		if errors.Is(err, util.ErrSlugTaken) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新模块（管理员）
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Param   body body model.DisasterModule true "模块内容"
// @Success 200 {object} util.Response{data=model.DisasterModule} "成功"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/admin/modules/{id} [put]
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	var module model.DisasterModule
	if err := ctx.ShouldBindJSON(&module); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	module.ID = uint(id)

	if err := c.ModuleService.UpdateModule(&module); err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSlugTaken):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary 删除模块（管理员）
// @Tags 模块
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/admin/modules/{id} [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	if err := c.ModuleService.DeleteModule(uint(id)); err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
