package controller

import (
	"suraksha_backend/internal/service"
	"suraksha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssistantController struct {
	AssistantService *service.AssistantService
}

func NewAssistantController(assistantService *service.AssistantService) *AssistantController {
	return &AssistantController{AssistantService: assistantService}
}

type ChatRequest struct {
	Prompt  string                  `json:"prompt" binding:"required"`
	History []service.AIChatMessage `json:"history"`
}

// Chat godoc
// @Summary 防灾助手问答
// @Tags 助手
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChatRequest true "问题与历史对话"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 503 {object} util.Response "助手未配置"
// @Router /api/assistant/chat [post]
func (c *AssistantController) Chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !c.AssistantService.Configured() {
		util.Error(ctx, 503, "AI assistant is not configured")
		return
	}

	reply, err := c.AssistantService.Chat(req.Prompt, req.History)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reply": reply})
}

// ChatStream godoc
// @Summary 防灾助手问答（流式）
// @Description SSE 流式返回回答分片
// @Tags 助手
// @Accept  json
// @Produce  text/event-stream
// @Security BearerAuth
// @Param   body body ChatRequest true "问题与历史对话"
// @Success 200 {string} string "SSE stream"
// @Router /api/assistant/chat/stream [post]
func (c *AssistantController) ChatStream(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !c.AssistantService.Configured() {
		util.Error(ctx, 503, "AI assistant is not configured")
		return
	}

	stream, errChan := c.AssistantService.ChatStream(req.Prompt, req.History)

	// 设置SSE响应头
	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("Transfer-Encoding", "chunked")

	for content := range stream {
		ctx.SSEvent("message", content)
		ctx.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		ctx.SSEvent("error", err.Error())
		ctx.Writer.Flush()
	}

	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}

// Prompts godoc
// @Summary 快捷提问列表
// @Tags 助手
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.PromptSuggestion} "成功"
// @Router /api/assistant/prompts [get]
func (c *AssistantController) Prompts(ctx *gin.Context) {
	util.Success(ctx, c.AssistantService.PromptCatalog())
}
