package main

import (
	"log"

	"github.com/aidosorynbay/powerbook/internal/config"
	"github.com/aidosorynbay/powerbook/internal/database"
	"github.com/aidosorynbay/powerbook/internal/handlers"
	"github.com/aidosorynbay/powerbook/internal/middleware"
	"github.com/aidosorynbay/powerbook/internal/services"

	_ "github.com/aidosorynbay/powerbook/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Powerbook API
// @version         1.0
// @description     API for the monthly reading challenge: rounds, reading logs, leaderboard and book exchange
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	leaderboardService := services.NewLeaderboardService(db)
	roundService := services.NewRoundService(db, leaderboardService)
	readingService := services.NewReadingService(db, roundService)
	groupService := services.NewGroupService(db, roundService)
	exchangeService := services.NewExchangeService(db)
	statsService := services.NewStatsService(db, groupService, cfg.DefaultGroupSlug)

	authHandler := handlers.NewAuthHandler(authService)
	groupHandler := handlers.NewGroupHandler(groupService)
	roundHandler := handlers.NewRoundHandler(roundService, readingService, leaderboardService, groupService, cfg.DefaultGroupSlug, cfg.DefaultTimezone)
	exchangeHandler := handlers.NewExchangeHandler(exchangeService)
	statsHandler := handlers.NewStatsHandler(statsService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(authService), authHandler.Me)
			auth.PUT("/profile", middleware.JWTAuth(authService), authHandler.UpdateProfile)
			auth.PUT("/change-password", middleware.JWTAuth(authService), authHandler.ChangePassword)
		}

		groups := api.Group("/groups")
		groups.Use(middleware.JWTAuth(authService))
		{
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("/by-slug/:slug", groupHandler.GetGroupBySlug)
			groups.GET("/by-slug/:slug/current-round-status", groupHandler.GetCurrentRoundStatus)
			groups.GET("/:id", groupHandler.GetGroup)
			groups.GET("/:id/current_round", groupHandler.GetCurrentRound)
		}

		rounds := api.Group("/rounds")
		rounds.Use(middleware.JWTAuth(authService))
		{
			rounds.GET("/archive/:year", roundHandler.Archive)
			rounds.GET("/last-completed", roundHandler.LastCompleted)

			rounds.POST("", middleware.AdminAuth(authService), roundHandler.CreateRound)
			rounds.POST("/:id/open_registration", middleware.AdminAuth(authService), roundHandler.OpenRegistration)
			rounds.POST("/:id/lock", middleware.AdminAuth(authService), roundHandler.LockRound)
			rounds.POST("/:id/close", middleware.AdminAuth(authService), roundHandler.CloseRound)
			rounds.POST("/:id/publish_results", middleware.AdminAuth(authService), roundHandler.PublishResults)

			rounds.POST("/:id/join", roundHandler.JoinRound)
			rounds.POST("/:id/leave", roundHandler.LeaveRound)
			rounds.POST("/:id/reading_logs", roundHandler.LogMinutes)
			rounds.GET("/:id/calendar", roundHandler.MyCalendar)
			rounds.GET("/:id/calendar/:user_id", roundHandler.UserCalendar)
			rounds.GET("/:id/leaderboard", roundHandler.Leaderboard)
			rounds.GET("/:id/results", roundHandler.Results)
		}

		exchange := api.Group("/exchange")
		exchange.Use(middleware.JWTAuth(authService))
		{
			exchange.GET("/me", exchangeHandler.MyPairs)
			exchange.POST("/:id/mark_given", exchangeHandler.MarkGiven)
			exchange.POST("/:id/mark_received", exchangeHandler.MarkReceived)
		}

		api.GET("/stats/public", statsHandler.PublicStats)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
