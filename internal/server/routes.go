package server

import (
	"time"

	"github.com/Kyz7/microblog/internal/auth"
	"github.com/Kyz7/microblog/internal/follow"
	"github.com/Kyz7/microblog/internal/post"
	"github.com/Kyz7/microblog/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Microblog API is running",
		})
	})

	// ==========================================
	// AUTH ROUTES (No authentication required)
	// ==========================================
	authGroup := app.Group("/auth")
	authGroup.Post("/register", auth.RegisterHandler)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.LoginHandler)
	authGroup.Post("/forgot-password", limiter.New(limiter.Config{
		Max:        3,
		Expiration: 15 * time.Minute,
	}), auth.ForgotPasswordHandler)
	authGroup.Post("/reset-password", auth.ResetPasswordHandler)
	authGroup.Post("/refresh", auth.RefreshHandler)
	authGroup.Post("/logout", auth.Protected(), auth.LogoutHandler)

	// ==========================================
	// USERS & FOLLOW GRAPH
	// ==========================================
	userGroup := app.Group("/users")
	userGroup.Get("/me", auth.Protected(), user.MeHandler)
	userGroup.Put("/me", auth.Protected(), user.UpdateMeHandler)
	userGroup.Post("/me/avatar", auth.Protected(), user.UploadAvatarHandler)
	userGroup.Get("/:id", user.GetUserHandler)
	userGroup.Get("/:id/posts", post.ListByUserHandler)
	userGroup.Get("/:id/followers", follow.FollowersHandler)
	userGroup.Get("/:id/following", follow.FollowingHandler)
	userGroup.Post("/:id/follow", auth.Protected(), follow.FollowHandler)
	userGroup.Delete("/:id/follow", auth.Protected(), follow.UnfollowHandler)

	// ==========================================
	// POSTS
	// ==========================================
	postGroup := app.Group("/posts")
	postGroup.Post("/", auth.Protected(), post.CreateHandler)
	postGroup.Get("/:id", post.GetHandler)
	postGroup.Put("/:id", auth.Protected(), post.UpdateHandler)
	postGroup.Delete("/:id", auth.Protected(), post.DeleteHandler)

	// ==========================================
	// FEED
	// ==========================================
	app.Get("/feed", auth.Protected(), post.FeedHandler)
}
