package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// List godoc
// @Summary 课程列表
// @Description 学员只看到已发布课程，教师和管理员看到全部
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	publishedOnly := claims == nil || claims.Role == model.Student

	courses, err := c.CourseService.ListCourses(publishedOnly)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Get godoc
// @Summary 课程详情
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程 ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{courseId} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	courseID, err := util.ParseID(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	course, err := c.CourseService.GetCourse(courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Create godoc
// @Summary 创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var input service.CourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)

	course, err := c.CourseService.CreateCourse(claims.UserID, input)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Update godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程 ID"
// @Param   body body service.CourseInput true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{courseId} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	courseID, err := util.ParseID(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var input service.CourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(courseID, input)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Publish godoc
// @Summary 发布课程
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程 ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{courseId}/publish [post]
func (c *CourseController) Publish(ctx *gin.Context) {
	courseID, err := util.ParseID(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	course, err := c.CourseService.PublishCourse(courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// UploadCover godoc
// @Summary 上传课程封面
// @Tags 课程
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程 ID"
// @Param   file formData file true "封面图片"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/courses/{courseId}/cover [post]
func (c *CourseController) UploadCover(ctx *gin.Context) {
	courseID, err := util.ParseID(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	course, err := c.CourseService.UploadCover(courseID, file)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// AddModule godoc
// @Summary 添加课程模块
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程 ID"
// @Param   body body service.ModuleInput true "模块信息"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Router /api/courses/{courseId}/modules [post]
func (c *CourseController) AddModule(ctx *gin.Context) {
	courseID, err := util.ParseID(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var input service.ModuleInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.AddModule(courseID, input)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// ListModules godoc
// @Summary 课程模块列表
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程 ID"
// @Success 200 {object} util.Response{data=[]model.CourseModule}
// @Router /api/courses/{courseId}/modules [get]
func (c *CourseController) ListModules(ctx *gin.Context) {
	courseID, err := util.ParseID(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	modules, err := c.CourseService.ListModules(courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// CreateQuiz godoc
// @Summary 为模块创建测验
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块 ID"
// @Param   body body service.QuizInput true "测验与题目"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{moduleId}/quiz [post]
func (c *CourseController) CreateQuiz(ctx *gin.Context) {
	moduleID, err := util.ParseID(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	var input service.QuizInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.CourseService.CreateQuiz(moduleID, input)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}
