package controller

import (
	"strconv"

	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/service"
	"kiongozi_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetUsers godoc
// @Summary 用户列表
// @Description 管理端分页查询用户，支持角色和关键字筛选
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   role query string false "角色筛选"
// @Param   search query string false "姓名/邮箱搜索"
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, total, err := c.UserService.GetUsers(page, limit, service.UserFilter{
		Role:   ctx.Query("role"),
		Search: ctx.Query("search"),
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"users": users, "total": total, "page": page, "limit": limit})
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileUpdate true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChangePasswordRequest true "新旧密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "旧密码不正确"
// @Router /api/profile/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   avatar formData file true "头像文件"
// @Success 200 {object} util.Response{data=object} "返回头像URL"
// @Failure 400 {object} util.Response "文件缺失"
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "缺少头像文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.UserService.UploadAvatar(
		ctx.Request.Context(),
		claims.UserID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=learner instructor admin"`
}

// ChangeRole godoc
// @Summary 调整用户角色
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Param   body body ChangeRoleRequest true "新角色"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) ChangeRole(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的用户ID")
		return
	}

	var req ChangeRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangeRole(uint(id), model.UserRole(req.Role)); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}
