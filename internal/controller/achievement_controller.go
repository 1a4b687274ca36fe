package controller

import (
	"strconv"

	"kiongozi_backend/internal/service"
	"kiongozi_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AchievementController 游戏化数据：级别、XP、徽章、排行榜
type AchievementController struct {
	GamificationService *service.GamificationService
	BadgeService        *service.BadgeService
}

func NewAchievementController(gamificationService *service.GamificationService, badgeService *service.BadgeService) *AchievementController {
	return &AchievementController{
		GamificationService: gamificationService,
		BadgeService:        badgeService,
	}
}

// GetAchievements godoc
// @Summary 我的成就
// @Description 当前用户的XP、级别进度、连续学习天数、徽章和排行榜
// @Tags 成就
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserAchievements}
// @Router /api/achievements [get]
func (c *AchievementController) GetAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.GamificationService.GetUserAchievements(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// GetBadgeCatalog godoc
// @Summary 徽章图鉴
// @Description 平台全部可获得的徽章
// @Tags 成就
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Badge}
// @Router /api/badges [get]
func (c *AchievementController) GetBadgeCatalog(ctx *gin.Context) {
	badges, err := c.BadgeService.GetCatalog()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// GetLeaderboard godoc
// @Summary XP排行榜
// @Tags 成就
// @Produce  json
// @Param   limit query int false "名次数量" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	leaderboard, err := c.GamificationService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, leaderboard)
}
