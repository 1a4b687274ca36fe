package controller

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"kiongozi_backend/internal/service"
	"kiongozi_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseController struct {
	CourseService *service.CourseService
	Storage       service.StorageProvider
}

func NewCourseController(courseService *service.CourseService, storage service.StorageProvider) *CourseController {
	return &CourseController{CourseService: courseService, Storage: storage}
}

// BrowseCourses godoc
// @Summary 课程目录
// @Description 浏览已发布课程，支持难度筛选和标题搜索
// @Tags 课程
// @Produce  json
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   difficulty query string false "难度" Enums(beginner, intermediate, advanced)
// @Param   search query string false "标题关键字"
// @Success 200 {object} util.Response{data=service.CourseList}
// @Router /api/courses [get]
func (c *CourseController) BrowseCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, err := c.CourseService.BrowseCourses(page, limit, ctx.Query("difficulty"), ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetCourseDetail godoc
// @Summary 课程详情
// @Description 课程信息、模块列表和测验。已登录用户附带选课状态和各模块进度。
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourseDetail(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	detail, err := c.CourseService.GetCourseDetail(uint(id), userID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

// Enroll godoc
// @Summary 选课
// @Description 报名课程。重复选课幂等，返回已有的选课记录。
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "课程不存在或未发布"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
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

	enrollment, err := c.CourseService.Enroll(claims.UserID, uint(id))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, enrollment)
}

// MyCourses godoc
// @Summary 我的课程
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   status query string false "状态筛选" Enums(in_progress, completed)
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/my/courses [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.CourseService.MyCourses(claims.UserID, ctx.Query("status"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// ---- 教师端 ----

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/instructor/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body service.CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/instructor/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(uint(id), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	if err := c.CourseService.DeleteCourse(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateModule godoc
// @Summary 创建学习模块
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.Module}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/instructor/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.CreateModule(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新学习模块
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Param   body body service.ModuleRequest true "模块信息"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/instructor/modules/{id} [put]
func (c *CourseController) UpdateModule(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.UpdateModule(uint(id), req)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, module)
}

// UploadModuleMedia godoc
// @Summary 上传模块音视频
// @Description 上传后用ffprobe探测时长，自动回填预计学习时间
// @Tags 课程管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Param   media formData file true "音视频文件"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 400 {object} util.Response "文件缺失"
// @Router /api/instructor/modules/{id}/media [post]
func (c *CourseController) UploadModuleMedia(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	fileHeader, err := ctx.FormFile("media")
	if err != nil {
		util.BadRequest(ctx, "缺少媒体文件")
		return
	}

	// 先落到临时文件供ffprobe探测，再转存到存储后端
	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	objectName := "modules/" + strconv.FormatUint(id, 10) + "/" + uuid.NewString() + filepath.Ext(fileHeader.Filename)
	url, err := c.Storage.UploadFile(ctx.Request.Context(), objectName, tmpPath, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	module, err := c.CourseService.ProbeModuleMedia(uint(id), tmpPath)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	module.MediaURL = url
	if _, err := c.CourseService.UpdateModule(module.ID, service.ModuleRequest{
		Title:                    module.Title,
		ContentType:              string(module.ContentType),
		Content:                  module.Content,
		MediaURL:                 url,
		EstimatedDurationMinutes: module.EstimatedDurationMinutes,
		XPReward:                 module.XPReward,
	}); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, module)
}

type AttachModuleRequest struct {
	ModuleID uint `json:"moduleId" binding:"required"`
	Position int  `json:"position" binding:"min=0"`
}

// AttachModule godoc
// @Summary 把模块挂载到课程
// @Description 同一模块可以挂到多个课程，Position决定模块在课程内的顺序
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body AttachModuleRequest true "模块和位置"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "课程或模块不存在"
// @Router /api/instructor/courses/{id}/modules [post]
func (c *CourseController) AttachModule(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	var req AttachModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.AttachModule(uint(id), req.ModuleID, req.Position); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) || errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
