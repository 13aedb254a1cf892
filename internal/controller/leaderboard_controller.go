package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

func parseListParams(ctx *gin.Context) (uint, int) {
	courseID, _ := strconv.ParseUint(ctx.Query("courseId"), 10, 32)
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uint(courseID), limit
}

// Individual godoc
// @Summary 个人排行榜
// @Description 按加权总分排序的个人榜快照
// @Tags 排行榜
// @Produce  json
// @Security BearerAuth
// @Param   courseId query int false "课程 ID，缺省为全部课程"
// @Param   limit query int false "返回条数，默认 50"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /api/leaderboard/individual [get]
func (c *LeaderboardController) Individual(ctx *gin.Context) {
	courseID, limit := parseListParams(ctx)

	entries, err := c.LeaderboardService.GetIndividual(courseID, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Team godoc
// @Summary 团队排行榜
// @Tags 排行榜
// @Produce  json
// @Security BearerAuth
// @Param   courseId query int false "课程 ID，缺省为全部课程"
// @Param   limit query int false "返回条数，默认 50"
// @Success 200 {object} util.Response{data=[]model.TeamLeaderboardEntry}
// @Router /api/leaderboard/team [get]
func (c *LeaderboardController) Team(ctx *gin.Context) {
	courseID, limit := parseListParams(ctx)

	entries, err := c.LeaderboardService.GetTeam(courseID, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Recalculate godoc
// @Summary 重算排行榜
// @Description 教师/管理员触发，courseId 为 0 时重算全部课程
// @Tags 排行榜
// @Produce  json
// @Security BearerAuth
// @Param   courseId query int false "课程 ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/leaderboard/recalculate [post]
func (c *LeaderboardController) Recalculate(ctx *gin.Context) {
	courseID, _ := strconv.ParseUint(ctx.Query("courseId"), 10, 32)

	if err := c.LeaderboardService.RecalculateIndividual(uint(courseID)); err != nil {
		util.RespondError(ctx, err)
		return
	}
	if err := c.LeaderboardService.RecalculateTeam(uint(courseID)); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": courseID})
}
