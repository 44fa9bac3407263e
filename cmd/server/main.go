package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camphub/campus-events-api/internal/auth"
	"github.com/camphub/campus-events-api/internal/config"
	"github.com/camphub/campus-events-api/internal/database"
	"github.com/camphub/campus-events-api/internal/handlers"
	"github.com/camphub/campus-events-api/internal/logger"
	"github.com/camphub/campus-events-api/internal/middleware"
	"github.com/camphub/campus-events-api/internal/repository"
	"github.com/camphub/campus-events-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Token service
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		Issuer:        "campus-events-api",
	})
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	// Repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)

	mailer := services.NewMailer(cfg)
	authService := services.NewAuthService(userRepo, tokens, mailer)
	userService := services.NewUserService(userRepo, eventRepo)
	eventService := services.NewEventService(eventRepo)
	rsvpService := services.NewRSVPService(eventRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService, rsvpService)
	userHandler := handlers.NewUserHandler(authService, userService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Campus Events API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh-token", authHandler.Refresh)
			authGroup.POST("/request-password-reset", authHandler.RequestPasswordReset)
			authGroup.POST("/reset-password/:token", authHandler.ResetPassword)
			authGroup.POST("/logout", middleware.RequireAuth(tokens), authHandler.Logout)
		}

		// Event routes
		events := api.Group("/events")
		{
			events.GET("/public", eventHandler.List)

			authed := events.Group("")
			authed.Use(middleware.RequireAuth(tokens))
			{
				authed.GET("", eventHandler.List)
				authed.GET("/:id", eventHandler.Get)
				authed.POST("/:id/rsvp", eventHandler.RSVP)
				authed.DELETE("/:id/rsvp", eventHandler.CancelRSVP)
				authed.GET("/:id/attendees", eventHandler.Attendees)

				admin := authed.Group("")
				admin.Use(middleware.RequireAdmin())
				{
					admin.POST("", eventHandler.Create)
					admin.PUT("/:id", eventHandler.Update)
					admin.DELETE("/:id", eventHandler.Delete)
				}
			}
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(tokens))
		{
			users.GET("/me", userHandler.Me)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/password", userHandler.UpdatePassword)
			users.GET("/events", userHandler.RegisteredEvents)
			users.PUT("/preferences", userHandler.UpdatePreferences)

			admin := users.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("", userHandler.List)
				admin.PUT("/:id/status", userHandler.UpdateStatus)
			}
		}
	}

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
