package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ModuleProgressService *service.ModuleProgressService
	ProgressService       *service.ProgressService
}

func NewModuleController(moduleProgressService *service.ModuleProgressService, progressService *service.ProgressService) *ModuleController {
	return &ModuleController{
		ModuleProgressService: moduleProgressService,
		ProgressService:       progressService,
	}
}

// CheckAccess godoc
// @Summary 检查模块访问权限
// @Description 顺序解锁：上一模块未完成时拒绝访问
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块 ID"
// @Success 200 {object} util.Response{data=service.ModuleAccess}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{moduleId}/access [get]
func (c *ModuleController) CheckAccess(ctx *gin.Context) {
	moduleID, err := util.ParseID(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}
	claims := util.GetUserFromContext(ctx)

	access, err := c.ModuleProgressService.CheckAccess(claims.UserID, moduleID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, access)
}

type UpdateProgressRequest struct {
	CompletionPercentage int `json:"completionPercentage" binding:"min=0,max=100"`
	TimeSpentMinutes     int `json:"timeSpentMinutes" binding:"min=0"`
}

// UpdateProgress godoc
// @Summary 更新模块学习进度
// @Description 完成度只增不减，达到 100 时解锁下一模块
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块 ID"
// @Param   body body UpdateProgressRequest true "进度更新"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 403 {object} util.Response "模块未解锁"
// @Router /api/modules/{moduleId}/progress [put]
func (c *ModuleController) UpdateProgress(ctx *gin.Context) {
	moduleID, err := util.ParseID(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}
	claims := util.GetUserFromContext(ctx)

	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ModuleProgressService.UpdateProgress(claims.UserID, moduleID, req.CompletionPercentage, req.TimeSpentMinutes)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

type CompleteModuleRequest struct {
	TimeSpentMinutes int `json:"timeSpentMinutes" binding:"min=0"`
}

// Complete godoc
// @Summary 标记模块完成
// @Description 可选上报最后一次学习的耗时
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块 ID"
// @Param   body body CompleteModuleRequest false "完成时上报的耗时"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 403 {object} util.Response "模块未解锁"
// @Router /api/modules/{moduleId}/complete [post]
func (c *ModuleController) Complete(ctx *gin.Context) {
	moduleID, err := util.ParseID(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}
	claims := util.GetUserFromContext(ctx)

	// 请求体可省略
	var req CompleteModuleRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	progress, err := c.ModuleProgressService.MarkCompleted(claims.UserID, moduleID, req.TimeSpentMinutes)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// CourseProgress godoc
// @Summary 课程进度总览
// @Description 课程汇总行和各模块进度
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程 ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/courses/{courseId}/progress [get]
func (c *ModuleController) CourseProgress(ctx *gin.Context) {
	courseID, err := util.ParseID(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}
	claims := util.GetUserFromContext(ctx)

	summary, err := c.ProgressService.GetCourseProgress(claims.UserID, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	modules, err := c.ModuleProgressService.ListCourseProgress(claims.UserID, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"summary": summary, "modules": modules})
}
