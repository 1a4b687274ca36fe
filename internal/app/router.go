package app

import (
	"kiongozi_backend/docs"
	"kiongozi_backend/internal/config"
	"kiongozi_backend/internal/middleware"
	"kiongozi_backend/internal/model"
	"kiongozi_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录对未登录用户开放，登录用户附带自己的进度
		browse := public.Group("")
		browse.Use(middleware.TryAuthMiddleware(cfg))
		{
			browse.GET("/courses", c.course.BrowseCourses)
			browse.GET("/courses/:id", c.course.GetCourseDetail)
			browse.GET("/courses/:id/quizzes", c.quiz.ListCourseQuizzes)
		}

		public.GET("/badges", c.achievement.GetBadgeCatalog)
		public.GET("/leaderboard", c.achievement.GetLeaderboard)
		public.GET("/community/posts", c.community.ListPosts)
		public.GET("/community/posts/:id", c.community.GetPost)
		public.GET("/community/events", c.community.ListEvents)
	}

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.PUT("/profile/password", c.user.ChangePassword)
		authGroup.POST("/profile/avatar", c.user.UploadAvatar)

		authGroup.GET("/dashboard", c.dashboard.GetDashboard)
		authGroup.GET("/achievements", c.achievement.GetAchievements)

		// 选课与学习
		authGroup.POST("/courses/:id/enroll", c.course.Enroll)
		authGroup.GET("/courses/:id/progress", c.learning.GetCourseProgress)
		authGroup.GET("/courses/:id/certificate", c.certificate.GetCourseCertificate)
		authGroup.GET("/my/courses", c.course.MyCourses)
		authGroup.GET("/my/certificates", c.certificate.ListMyCertificates)

		authGroup.POST("/modules/:id/start", c.learning.StartModule)
		authGroup.PUT("/modules/:id/notes", c.learning.SaveNotes)
		authGroup.POST("/modules/:id/complete", c.learning.CompleteModule)

		// 测验作答
		authGroup.POST("/quizzes/:id/start", c.quiz.StartAttempt)
		authGroup.PUT("/quizzes/:id/answers", c.quiz.SaveAnswer)
		authGroup.POST("/quizzes/:id/submit", c.quiz.Submit)
		authGroup.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)

		// AI助手
		authGroup.POST("/assistant/ask", c.assistant.AskStream)
		authGroup.POST("/assistant/chat", c.assistant.Ask)
		authGroup.GET("/assistant/history", c.assistant.History)
		authGroup.DELETE("/assistant/history", c.assistant.ClearHistory)

		// 社区互动
		authGroup.POST("/community/posts", c.community.CreatePost)
		authGroup.DELETE("/community/posts/:id", c.community.DeletePost)
		authGroup.POST("/community/posts/:id/comments", c.community.AddComment)
		authGroup.DELETE("/community/comments/:id", c.community.DeleteComment)
		authGroup.POST("/community/events/:id/attend", c.community.AttendEvent)
	}

	// 3. 教师端（管理员自动拥有教师权限）
	instructorGroup := router.Group("/api/instructor")
	instructorGroup.Use(
		middleware.AuthMiddleware(cfg),
		middleware.RoleMiddleware(model.Instructor),
	)
	{
		instructorGroup.POST("/courses", c.course.CreateCourse)
		instructorGroup.PUT("/courses/:id", c.course.UpdateCourse)
		instructorGroup.DELETE("/courses/:id", c.course.DeleteCourse)
		instructorGroup.POST("/courses/:id/modules", c.course.AttachModule)

		instructorGroup.POST("/modules", c.course.CreateModule)
		instructorGroup.PUT("/modules/:id", c.course.UpdateModule)
		instructorGroup.POST("/modules/:id/media", c.course.UploadModuleMedia)

		instructorGroup.POST("/quizzes", c.quiz.CreateQuiz)
		instructorGroup.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)

		instructorGroup.POST("/events", c.community.CreateEvent)
	}

	// 4. 管理端
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(
		middleware.AuthMiddleware(cfg),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		adminGroup.GET("/users", c.user.GetUsers)
		adminGroup.PUT("/users/:id/role", c.user.ChangeRole)
	}
}
