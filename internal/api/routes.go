package api

import (
	"net/http"

	"devcommunity/internal/config"
	"devcommunity/internal/domain"
	"devcommunity/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	authService service.AuthService,
	userService service.UserService,
	postService service.PostService,
	questionService service.QuestionService,
	jobService service.JobService,
	projectService service.ProjectService,
) {
	authHandler := NewAuthHandler(authService, int(cfg.JWT.Expiration.Seconds()), cfg.Server.FrontendURL)
	userHandler := NewUserHandler(userService)
	postHandler := NewPostHandler(postService)
	questionHandler := NewQuestionHandler(questionService)
	jobHandler := NewJobHandler(jobService)
	projectHandler := NewProjectHandler(projectService)

	authMiddleware := AuthMiddleware(cfg.JWT.Secret)
	developerOnly := RoleMiddleware(domain.RoleDeveloper)
	clientOnly := RoleMiddleware(domain.RoleClient)
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		// --- Auth ---
		apiV1.POST("/register", authHandler.Register)
		apiV1.POST("/login", authHandler.Login)
		apiV1.GET("/logout", authHandler.Logout)
		apiV1.POST("/password/forgot", authHandler.ForgotPassword)
		apiV1.PUT("/password/reset/:token", authHandler.ResetPassword)

		// --- Public developer directory ---
		apiV1.GET("/all/developer", userHandler.GetDevelopers)
		apiV1.GET("/single/developer/:id", userHandler.GetDeveloper)

		// --- Public reads ---
		apiV1.GET("/get/posts", postHandler.GetPosts)
		apiV1.GET("/get/post/:id", postHandler.GetPost)
		apiV1.GET("/get/questions", questionHandler.GetQuestions)
		apiV1.GET("/get/question/:id", questionHandler.GetQuestion)
		apiV1.GET("/get/jobs", jobHandler.GetJobs)
		apiV1.GET("/get/job/:id", jobHandler.GetJob)
		apiV1.GET("/get/projects", projectHandler.GetProjects)
		apiV1.GET("/get/project/:id", projectHandler.GetProject)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Profile ---
		protected.GET("/me", userHandler.GetMe)
		protected.PUT("/password/update", authHandler.UpdatePassword)
		protected.PUT("/me/update", userHandler.UpdateProfile)
		protected.PUT("/me/update/avatar", userHandler.UpdateAvatar)
		protected.PUT("/me/update/banner", userHandler.UpdateBanner)
		protected.PUT("/me/update/about", userHandler.UpdateAbout)
		protected.PUT("/me/update/educations", userHandler.AddEducation)
		protected.PUT("/me/update/skills", userHandler.AddSkill)
		protected.PUT("/me/update/languages", userHandler.AddLanguage)
		protected.PUT("/me/update/portfolios", userHandler.AddPortfolio)
		protected.PUT("/me/update/experience", userHandler.AddExperience)
		protected.PUT("/me/delete/educations/:id", userHandler.DeleteEducation)
		protected.PUT("/me/delete/skills/:id", userHandler.DeleteSkill)
		protected.PUT("/me/delete/languages/:id", userHandler.DeleteLanguage)
		protected.PUT("/me/delete/portfolios/:id", userHandler.DeletePortfolio)
		protected.PUT("/me/delete/experience/:id", userHandler.DeleteExperience)

		// --- Admin ---
		admin := protected.Group("", adminOnly)
		{
			admin.GET("/admin/users", userHandler.AdminListUsers)
			admin.GET("/admin/user/:id", userHandler.AdminGetUser)
			admin.PUT("/admin/user/:id", userHandler.AdminUpdateUser)
			admin.DELETE("/admin/user/:id", userHandler.AdminDeleteUser)
			admin.DELETE("/user/delete", userHandler.AdminDeleteUserByBody)
		}

		// --- Posts ---
		protected.POST("/create/post", developerOnly, postHandler.CreatePost)
		protected.GET("/post/likeAndunlike/:id", postHandler.LikePost)
		protected.DELETE("/post/delete/:id", developerOnly, postHandler.DeletePost)
		protected.PUT("/post/update/:id", developerOnly, postHandler.UpdatePost)
		protected.GET("/my/posts", developerOnly, postHandler.MyPosts)

		// --- Comments ---
		protected.POST("/comment/add/:id", postHandler.AddComment)
		protected.PUT("/comment/update/:id", postHandler.UpdateComment)
		protected.DELETE("/comment/delete/:id", postHandler.DeleteComment)
		protected.POST("/comment/likeAndunlike/:id", postHandler.LikeComment)

		// --- Replies ---
		protected.PUT("/reply/add/:id", postHandler.AddReply)
		protected.PUT("/reply/likeAndunlike/:id", postHandler.LikeReply)
		protected.PUT("/reply/update/:id", postHandler.UpdateReply)
		protected.PUT("/reply/delete/:id", postHandler.DeleteReply)

		// --- Stack / Q&A ---
		protected.POST("/create/question", developerOnly, questionHandler.CreateQuestion)
		protected.DELETE("/delete/question/:id", developerOnly, questionHandler.DeleteQuestion)
		protected.GET("/get/likeAndunlikeQuestion/:id", questionHandler.LikeQuestion)
		protected.GET("/question/viewed/:id", questionHandler.ViewQuestion)
		protected.POST("/answer/add/:id", questionHandler.AddAnswer)
		protected.PUT("/answer/update/:id", questionHandler.UpdateAnswer)
		protected.PUT("/answer/delete/:id", questionHandler.DeleteAnswer)
		protected.GET("/answer/likeandunlike/:id", questionHandler.LikeAnswer)

		// --- Jobs ---
		protected.POST("/create/job", clientOnly, jobHandler.CreateJob)
		protected.PUT("/apply/job/:id", developerOnly, jobHandler.ApplyJob)
		protected.POST("/send/mail/applicants", clientOnly, jobHandler.MailApplicants)
		protected.DELETE("/delete/job/:id", clientOnly, jobHandler.DeleteJob)

		// --- Projects ---
		protected.POST("/create/project", clientOnly, projectHandler.CreateProject)
		protected.POST("/create/project/apply/:id", developerOnly, projectHandler.ApplyProject)
		protected.POST("/hire/developer", clientOnly, projectHandler.HireDeveloper)
		protected.POST("/complete/project", clientOnly, projectHandler.CompleteProject)
	}
}
