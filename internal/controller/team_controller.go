package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeamController struct {
	TeamService *service.TeamService
}

func NewTeamController(teamService *service.TeamService) *TeamController {
	return &TeamController{TeamService: teamService}
}

// List godoc
// @Summary 团队列表
// @Tags 团队
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Team}
// @Router /api/teams [get]
func (c *TeamController) List(ctx *gin.Context) {
	teams, err := c.TeamService.ListTeams()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, teams)
}

// Get godoc
// @Summary 团队详情（含成员）
// @Tags 团队
// @Produce  json
// @Security BearerAuth
// @Param   teamId path int true "团队 ID"
// @Success 200 {object} util.Response{data=model.Team}
// @Failure 404 {object} util.Response "团队不存在"
// @Router /api/teams/{teamId} [get]
func (c *TeamController) Get(ctx *gin.Context) {
	teamID, err := util.ParseID(ctx.Param("teamId"))
	if err != nil {
		util.BadRequest(ctx, "invalid team id")
		return
	}

	team, err := c.TeamService.GetTeam(teamID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, team)
}

// Create godoc
// @Summary 创建团队
// @Tags 团队
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.TeamInput true "团队信息"
// @Success 201 {object} util.Response{data=model.Team}
// @Router /api/teams [post]
func (c *TeamController) Create(ctx *gin.Context) {
	var input service.TeamInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)

	team, err := c.TeamService.CreateTeam(claims.UserID, input)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, team)
}

type TeamMemberRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// AddMember godoc
// @Summary 添加团队成员
// @Tags 团队
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   teamId path int true "团队 ID"
// @Param   body body TeamMemberRequest true "成员"
// @Success 200 {object} util.Response
// @Router /api/teams/{teamId}/members [post]
func (c *TeamController) AddMember(ctx *gin.Context) {
	teamID, err := util.ParseID(ctx.Param("teamId"))
	if err != nil {
		util.BadRequest(ctx, "invalid team id")
		return
	}

	var req TeamMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.TeamService.AddMember(teamID, req.UserID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RemoveMember godoc
// @Summary 移除团队成员
// @Tags 团队
// @Produce  json
// @Security BearerAuth
// @Param   teamId path int true "团队 ID"
// @Param   userId path int true "用户 ID"
// @Success 200 {object} util.Response
// @Router /api/teams/{teamId}/members/{userId} [delete]
func (c *TeamController) RemoveMember(ctx *gin.Context) {
	userID, err := util.ParseID(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	if err := c.TeamService.RemoveMember(userID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Delete godoc
// @Summary 删除团队
// @Tags 团队
// @Produce  json
// @Security BearerAuth
// @Param   teamId path int true "团队 ID"
// @Success 200 {object} util.Response
// @Router /api/teams/{teamId} [delete]
func (c *TeamController) Delete(ctx *gin.Context) {
	teamID, err := util.ParseID(ctx.Param("teamId"))
	if err != nil {
		util.BadRequest(ctx, "invalid team id")
		return
	}

	if err := c.TeamService.DeleteTeam(teamID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
