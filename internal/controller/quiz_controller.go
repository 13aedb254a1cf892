package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	AttemptService *service.QuizAttemptService
	CourseService  *service.CourseService
}

func NewQuizController(attemptService *service.QuizAttemptService, courseService *service.CourseService) *QuizController {
	return &QuizController{AttemptService: attemptService, CourseService: courseService}
}

// GetModuleQuiz godoc
// @Summary 获取模块测验
// @Description 学员视角的测验与题目，不含标准答案
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块 ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "模块无测验"
// @Router /api/modules/{moduleId}/quiz [get]
func (c *QuizController) GetModuleQuiz(ctx *gin.Context) {
	moduleID, err := util.ParseID(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	quiz, questions, err := c.CourseService.GetQuizForModule(moduleID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"quiz": quiz, "questions": questions})
}

// StartAttempt godoc
// @Summary 开始测验
// @Description 创建新的测验尝试，超出次数上限时返回 400
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验 ID"
// @Success 201 {object} util.Response{data=service.StartAttemptResult}
// @Failure 400 {object} util.Response "次数已用尽"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{quizId}/attempts [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	quizID, err := util.ParseID(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	claims := util.GetUserFromContext(ctx)

	result, err := c.AttemptService.StartAttempt(quizID, claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

type SubmitAttemptRequest struct {
	Answers []service.SubmittedAnswer `json:"answers" binding:"required"`
}

// SubmitAttempt godoc
// @Summary 提交测验答案
// @Description 评分并返回结果，只能提交自己的进行中尝试
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   attemptId path int true "尝试 ID"
// @Param   body body SubmitAttemptRequest true "答案列表"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 403 {object} util.Response "非本人尝试"
// @Failure 409 {object} util.Response "尝试已结束"
// @Router /api/attempts/{attemptId}/submit [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	attemptID, err := util.ParseID(ctx.Param("attemptId"))
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	claims := util.GetUserFromContext(ctx)

	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.SubmitAttempt(attemptID, claims.UserID, req.Answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// AttemptStatus godoc
// @Summary 查询测验次数状态
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验 ID"
// @Success 200 {object} util.Response{data=service.AttemptStatusResult}
// @Router /api/quizzes/{quizId}/status [get]
func (c *QuizController) AttemptStatus(ctx *gin.Context) {
	quizID, err := util.ParseID(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	claims := util.GetUserFromContext(ctx)

	result, err := c.AttemptService.CheckStatus(quizID, claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// AttemptResult godoc
// @Summary 查询尝试结果
// @Description 仅已完成的尝试可查询
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   attemptId path int true "尝试 ID"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 409 {object} util.Response "尝试未完成"
// @Router /api/attempts/{attemptId} [get]
func (c *QuizController) AttemptResult(ctx *gin.Context) {
	attemptID, err := util.ParseID(ctx.Param("attemptId"))
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}
	claims := util.GetUserFromContext(ctx)

	result, err := c.AttemptService.GetAttemptResult(attemptID, claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
