package controller

import (
	"errors"
	"strconv"
	"time"

	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/service"
	"kiongozi_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CommunityController struct {
	CommunityService *service.CommunityService
}

func NewCommunityController(communityService *service.CommunityService) *CommunityController {
	return &CommunityController{CommunityService: communityService}
}

// ListPosts godoc
// @Summary 帖子列表
// @Tags 社区
// @Produce  json
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=service.PostList}
// @Router /api/community/posts [get]
func (c *CommunityController) ListPosts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, err := c.CommunityService.ListPosts(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetPost godoc
// @Summary 帖子详情（含评论）
// @Tags 社区
// @Produce  json
// @Param   id path int true "帖子ID"
// @Success 200 {object} util.Response{data=model.Post}
// @Failure 404 {object} util.Response "帖子不存在"
// @Router /api/community/posts/{id} [get]
func (c *CommunityController) GetPost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的帖子ID")
		return
	}

	post, err := c.CommunityService.GetPost(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, post)
}

type PostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreatePost godoc
// @Summary 发帖
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body PostRequest true "帖子内容"
// @Success 201 {object} util.Response{data=model.Post}
// @Router /api/community/posts [post]
func (c *CommunityController) CreatePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.CommunityService.CreatePost(claims.UserID, req.Title, req.Content)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, post)
}

// DeletePost godoc
// @Summary 删帖
// @Description 仅作者本人或管理员可删除
// @Tags 社区
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "帖子ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "无权限"
// @Router /api/community/posts/{id} [delete]
func (c *CommunityController) DeletePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的帖子ID")
		return
	}

	err = c.CommunityService.DeletePost(uint(id), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, nil)
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddComment godoc
// @Summary 评论帖子
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "帖子ID"
// @Param   body body CommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.Comment}
// @Router /api/community/posts/{id}/comments [post]
func (c *CommunityController) AddComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的帖子ID")
		return
	}

	var req CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.CommunityService.AddComment(uint(id), claims.UserID, req.Content)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Created(ctx, comment)
}

// DeleteComment godoc
// @Summary 删除评论
// @Tags 社区
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "评论ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "无权限"
// @Router /api/community/comments/{id} [delete]
func (c *CommunityController) DeleteComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的评论ID")
		return
	}

	err = c.CommunityService.DeleteComment(uint(id), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, nil)
}

// ---- 活动 ----

// ListEvents godoc
// @Summary 即将开始的活动
// @Tags 社区
// @Produce  json
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=service.EventList}
// @Router /api/community/events [get]
func (c *CommunityController) ListEvents(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, err := c.CommunityService.ListUpcomingEvents(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// CreateEvent godoc
// @Summary 创建活动
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.EventRequest true "活动信息"
// @Success 201 {object} util.Response{data=model.Event}
// @Failure 400 {object} util.Response "时间格式错误"
// @Router /api/instructor/events [post]
func (c *CommunityController) CreateEvent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		util.BadRequest(ctx, "startsAt 必须是 RFC3339 格式")
		return
	}

	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    startsAt,
		Capacity:    req.Capacity,
		CreatedBy:   claims.UserID,
	}
	if err := c.CommunityService.CreateEvent(event); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// AttendEvent godoc
// @Summary 活动签到
// @Description 签到发放XP（同一活动只发一次），容量满或重复签到时拒绝
// @Tags 社区
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "活动ID"
// @Success 200 {object} util.Response{data=service.AttendResult}
// @Failure 409 {object} util.Response "活动已满或已签到"
// @Router /api/community/events/{id}/attend [post]
func (c *CommunityController) AttendEvent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的活动ID")
		return
	}

	result, err := c.CommunityService.AttendEvent(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrEventFull) || errors.Is(err, util.ErrAlreadyAttending) {
			util.Error(ctx, 409, err.Error())
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, result)
}
