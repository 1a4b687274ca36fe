package controller

import (
	"errors"
	"strconv"

	"kiongozi_backend/internal/service"
	"kiongozi_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// ListCourseQuizzes godoc
// @Summary 课程的测验列表
// @Tags 测验
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/courses/{id}/quizzes [get]
func (c *QuizController) ListCourseQuizzes(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	quizzes, err := c.QuizService.ListByCourse(uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// StartAttempt godoc
// @Summary 开始作答
// @Description 开始（或恢复）一次测验作答。限时测验从首次开始计时，
// @Description 重复调用恢复进行中的会话而不重置倒计时。题目不含正确答案。
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizAttemptView}
// @Failure 404 {object} util.Response "测验不存在或未发布"
// @Router /api/quizzes/{id}/start [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的测验ID")
		return
	}

	view, err := c.QuizService.StartAttempt(claims.UserID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrQuizNotPublished):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

type SaveAnswerRequest struct {
	QuestionID uint `json:"questionId" binding:"required"`
	OptionID   uint `json:"optionId" binding:"required"`
}

// SaveAnswer godoc
// @Summary 保存答案
// @Description 记录某题的选择，同一题重复选择时覆盖之前的选择
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body SaveAnswerRequest true "题目和选项"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "题目不属于该测验"
// @Failure 409 {object} util.Response "作答未开始或已超时提交"
// @Router /api/quizzes/{id}/answers [put]
func (c *QuizController) SaveAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的测验ID")
		return
	}

	var req SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err = c.QuizService.SaveAnswer(claims.UserID, uint(id), req.QuestionID, req.OptionID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotStarted), errors.Is(err, util.ErrAttemptSubmitted):
			util.Error(ctx, 409, err.Error())
		case errors.Is(err, util.ErrQuestionNeedsAnswer):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// Submit godoc
// @Summary 提交作答
// @Description 计分并返回结果。提交后作答进入终态，不可修改或重复提交；
// @Description 首次通过时发放测验XP。
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizResultView}
// @Failure 409 {object} util.Response "作答未开始或已提交"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的测验ID")
		return
	}

	result, err := c.QuizService.Submit(claims.UserID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotStarted):
			util.Error(ctx, 409, err.Error())
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// ListAttempts godoc
// @Summary 作答历史
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的测验ID")
		return
	}

	attempts, err := c.QuizService.ListAttempts(claims.UserID, uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// ---- 教师端 ----

// CreateQuiz godoc
// @Summary 创建测验
// @Description 级联创建测验、题目和选项。每道题必须恰好一个正确选项。
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.QuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "每道题必须恰好有一个正确选项"
// @Router /api/instructor/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(req)
	if err != nil {
		if errors.Is(err, util.ErrOneCorrectOption) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的测验ID")
		return
	}

	if err := c.QuizService.DeleteQuiz(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
