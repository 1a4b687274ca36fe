package controller

import (
	"errors"
	"strconv"

	"kiongozi_backend/internal/service"
	"kiongozi_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController 模块学习流程：开始、笔记、完成，以及课程完成度查询
type LearningController struct {
	ProgressService *service.ProgressService
}

func NewLearningController(progressService *service.ProgressService) *LearningController {
	return &LearningController{ProgressService: progressService}
}

type StartModuleRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// StartModule godoc
// @Summary 开始学习模块
// @Description 首次打开模块时创建进度记录（幂等），并刷新课程最后访问时间
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Param   body body StartModuleRequest true "所属课程"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "未选课"
// @Router /api/modules/{id}/start [post]
func (c *LearningController) StartModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	var req StartModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.StartModule(claims.UserID, req.CourseID, uint(id)); err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type SaveNotesRequest struct {
	Notes string `json:"notes"`
}

// SaveNotes godoc
// @Summary 保存学习笔记
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Param   body body SaveNotesRequest true "笔记内容"
// @Success 200 {object} util.Response
// @Router /api/modules/{id}/notes [put]
func (c *LearningController) SaveNotes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	var req SaveNotesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.SaveNotes(claims.UserID, uint(id), req.Notes); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CompleteModule godoc
// @Summary 完成模块
// @Description 标记模块完成。首次完成发放XP、推进连续学习天数、评估徽章，
// @Description 并重算包含该模块的所有课程的完成度；重复完成幂等，不再发XP。
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=service.ModuleCompletionResult}
// @Router /api/modules/{id}/complete [post]
func (c *LearningController) CompleteModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	result, err := c.ProgressService.CompleteModule(claims.UserID, uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetCourseProgress godoc
// @Summary 课程完成度
// @Description 按当前进度记录重算课程完成度百分比
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress}
// @Router /api/courses/{id}/progress [get]
func (c *LearningController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	progress, err := c.ProgressService.RecomputeCourseProgress(claims.UserID, uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
