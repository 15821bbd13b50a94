package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tigersaymon/lfg-teammate-finder/internal/auth"
	"github.com/tigersaymon/lfg-teammate-finder/internal/config"
	"github.com/tigersaymon/lfg-teammate-finder/internal/database"
	"github.com/tigersaymon/lfg-teammate-finder/internal/handler"

	// Swagger imports
	_ "github.com/tigersaymon/lfg-teammate-finder/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           LFG Teammate Finder API
// @version         1.0
// @description     Find teammates: per-game profiles, hosted lobbies with fixed slots.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
		}

		// Game profile routes (protected)
		profileRoutes := apiV1.Group("/profiles")
		profileRoutes.Use(auth.AuthMiddleware())
		{
			profileRoutes.GET("", handler.GetMyProfiles)
		}

		// Game catalog routes
		gameRoutes := apiV1.Group("/games")
		{
			gameRoutes.GET("", handler.GetGames)
			gameRoutes.GET("/:slug", handler.GetGameBySlug)
			gameRoutes.GET("/:slug/roles", handler.GetGameRoles)

			// Per-game profile management (protected)
			gameProfile := gameRoutes.Group("/:slug/profile")
			gameProfile.Use(auth.AuthMiddleware())
			{
				gameProfile.POST("", handler.CreateProfile)
				gameProfile.PUT("", handler.UpdateProfile)
				gameProfile.DELETE("", handler.DeleteProfile)
			}

			// Lobby browsing works anonymously; private lobbies are only
			// visible to their host and occupants.
			lobbyBrowse := gameRoutes.Group("/:slug/lobbies")
			lobbyBrowse.Use(auth.OptionalAuthMiddleware())
			{
				lobbyBrowse.GET("", handler.ListLobbies)
				lobbyBrowse.GET("/:token", handler.GetLobbyByToken)
			}

			// Lobby lifecycle and membership (protected)
			lobbyRoutes := gameRoutes.Group("/:slug/lobbies")
			lobbyRoutes.Use(auth.AuthMiddleware())
			{
				lobbyRoutes.POST("", handler.CreateLobby)
				lobbyRoutes.DELETE("/:token", handler.DeleteLobby)
				lobbyRoutes.POST("/:token/privacy", handler.ToggleLobbyPrivacy)
				lobbyRoutes.POST("/:token/slots/:slotID/join", handler.JoinSlot)
				lobbyRoutes.POST("/:token/slots/:slotID/leave", handler.LeaveSlot)
				lobbyRoutes.POST("/:token/slots/:slotID/kick", handler.KickSlot)
			}
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminGames := adminRoutes.Group("/games")
			{
				adminGames.POST("", handler.CreateGame)
				adminGames.PUT("/:slug", handler.UpdateGame)
				adminGames.DELETE("/:slug", handler.DeleteGame)

				adminGames.POST("/:slug/roles", handler.CreateRole)
				adminGames.PUT("/:slug/roles/:roleID", handler.UpdateRole)
				adminGames.DELETE("/:slug/roles/:roleID", handler.DeleteRole)
			}
		}
	}

	logrus.Infof("server is running on %s", config.AppConfig.ServerAddr)
	logrus.Info("swagger UI is available at /swagger/index.html")
	logrus.Fatal(router.Run(config.AppConfig.ServerAddr))
}
