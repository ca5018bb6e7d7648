package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pathpiper/backend/internal/app/controllers"
	"github.com/pathpiper/backend/internal/domain"
	"github.com/pathpiper/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	profileController *controllers.ProfileController,
	postController *controllers.PostController,
	goalController *controllers.GoalController,
	educationController *controllers.EducationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		// Alias kept for clients of the previous auth stack
		auth.POST("/user-login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.Authentication())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.Me)

		// Profile routes
		authenticated.GET("/profiles/:id", profileController.GetProfile)
		authenticated.PUT("/profiles/me", profileController.UpdateProfile)
		authenticated.PUT("/profiles/me/interests", profileController.ReplaceInterests)
		authenticated.PUT("/profiles/me/skills", profileController.ReplaceSkills)
		authenticated.GET("/profiles/me/completeness", profileController.GetCompleteness)
		authenticated.GET("/interests", profileController.ListInterests)

		// Goal routes
		goals := authenticated.Group("/goals")
		{
			goals.GET("", goalController.ListGoals)
			goals.PUT("", goalController.SaveGoals)
			goals.GET("/suggested", goalController.ListSuggestedGoals)
			goals.PUT("/suggested", goalController.SaveSuggestedGoals)
			goals.PATCH("/suggested/:id", goalController.UpdateSuggestedGoal)
			goals.DELETE("/suggested/:id", goalController.DeleteSuggestedGoal)
		}

		// Education routes
		education := authenticated.Group("/education")
		{
			education.GET("", educationController.ListEducation)
			education.POST("", educationController.CreateEducation)
			education.PUT("/:id", educationController.UpdateEducation)
			education.DELETE("/:id", educationController.DeleteEducation)

			// Verification decisions are institution-only
			verify := education.Group("")
			verify.Use(authMiddleware.RoleRequired(domain.RoleInstitution))
			{
				verify.POST("/verify", educationController.Verify)
			}
		}

		// Feed routes. Reads are open to any authenticated user; writes
		// additionally pass the minor verification gate.
		authenticated.GET("/posts", postController.ListFeed)
		authenticated.GET("/posts/:id", postController.GetPost)

		gated := authenticated.Group("")
		gated.Use(authMiddleware.VerificationGate())
		{
			gated.POST("/posts", postController.CreatePost)
			gated.POST("/posts/:id/react", postController.React)
			gated.POST("/posts/:id/trails", postController.CreateTrail)
			gated.PUT("/trails/:id", postController.UpdateTrail)
			gated.DELETE("/trails/:id", postController.DeleteTrail)
		}
	}
}
