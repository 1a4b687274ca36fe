package controller

import (
	"errors"
	"strconv"

	"kiongozi_backend/internal/service"
	"kiongozi_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssistantController struct {
	AssistantService *service.AssistantService
}

func NewAssistantController(assistantService *service.AssistantService) *AssistantController {
	return &AssistantController{AssistantService: assistantService}
}

type AskRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	CourseID *uint  `json:"courseId"`
}

// AskStream godoc
// @Summary AI助手流式问答
// @Description SSE流式返回AI助手的回答，可选携带课程上下文，对话历史自动注入
// @Tags AI助手
// @Accept  json
// @Produce  text/event-stream
// @Security BearerAuth
// @Param   request body AskRequest true "问题内容"
// @Success 200 {string} string "SSE stream"
// @Router /api/assistant/ask [post]
func (c *AssistantController) AskStream(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	stream, errChan := c.AssistantService.ChatStream(claims.UserID, req.CourseID, req.Prompt)

	// 设置SSE响应头
	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("Transfer-Encoding", "chunked")

	// 循环读取并发送AI回答内容
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

// Ask godoc
// @Summary AI助手问答（非流式）
// @Tags AI助手
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   request body AskRequest true "问题内容"
// @Success 200 {object} util.Response{data=object}
// @Failure 502 {object} util.Response "助手服务不可用"
// @Router /api/assistant/chat [post]
func (c *AssistantController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AssistantService.Chat(claims.UserID, req.CourseID, req.Prompt)
	if err != nil {
		if errors.Is(err, util.ErrAssistantUnavailable) {
			util.Error(ctx, 502, util.ErrAssistantUnavailable.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"answer": answer})
}

// History godoc
// @Summary 对话历史
// @Tags AI助手
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "条数" default(20)
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Router /api/assistant/history [get]
func (c *AssistantController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	history, err := c.AssistantService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, history)
}

// ClearHistory godoc
// @Summary 清空对话历史
// @Tags AI助手
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/assistant/history [delete]
func (c *AssistantController) ClearHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AssistantService.ClearHistory(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
