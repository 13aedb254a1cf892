package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(s.user))
	{
		authGroup.GET("/profile", c.auth.Profile)
		authGroup.PUT("/profile", c.auth.UpdateProfile)

		// 课程目录
		authGroup.GET("/courses", c.course.List)
		authGroup.GET("/courses/:courseId", c.course.Get)
		authGroup.GET("/courses/:courseId/modules", c.course.ListModules)

		// 学习进度与顺序解锁
		authGroup.GET("/courses/:courseId/progress", c.module.CourseProgress)
		authGroup.GET("/modules/:moduleId/access", c.module.CheckAccess)
		authGroup.PUT("/modules/:moduleId/progress", c.module.UpdateProgress)
		authGroup.POST("/modules/:moduleId/complete", c.module.Complete)

		// 测验
		authGroup.GET("/modules/:moduleId/quiz", c.quiz.GetModuleQuiz)
		authGroup.POST("/quizzes/:quizId/attempts", c.quiz.StartAttempt)
		authGroup.GET("/quizzes/:quizId/status", c.quiz.AttemptStatus)
		authGroup.POST("/attempts/:attemptId/submit", c.quiz.SubmitAttempt)
		authGroup.GET("/attempts/:attemptId", c.quiz.AttemptResult)

		// 排行榜
		authGroup.GET("/leaderboard/individual", c.leaderboard.Individual)
		authGroup.GET("/leaderboard/team", c.leaderboard.Team)

		// 团队
		authGroup.GET("/teams", c.team.List)
		authGroup.GET("/teams/:teamId", c.team.Get)
	}

	// 教师/管理员接口
	teacherGroup := router.Group("/api")
	teacherGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Teacher))
	{
		teacherGroup.POST("/courses", c.course.Create)
		teacherGroup.PUT("/courses/:courseId", c.course.Update)
		teacherGroup.POST("/courses/:courseId/publish", c.course.Publish)
		teacherGroup.POST("/courses/:courseId/cover", c.course.UploadCover)
		teacherGroup.POST("/courses/:courseId/modules", c.course.AddModule)
		teacherGroup.POST("/modules/:moduleId/quiz", c.course.CreateQuiz)

		teacherGroup.POST("/leaderboard/recalculate", c.leaderboard.Recalculate)

		teacherGroup.POST("/teams", c.team.Create)
		teacherGroup.POST("/teams/:teamId/members", c.team.AddMember)
		teacherGroup.DELETE("/teams/:teamId/members/:userId", c.team.RemoveMember)
		teacherGroup.DELETE("/teams/:teamId", c.team.Delete)
	}
}
