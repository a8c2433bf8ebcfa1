package router

import (
	"log/slog"

	"github.com/LankyMoose/poller.pro/internal/handlers"
	"github.com/LankyMoose/poller.pro/internal/live"
	"github.com/LankyMoose/poller.pro/internal/middleware"
	"github.com/LankyMoose/poller.pro/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, hub *live.Hub, logger *slog.Logger) {
	pollService := services.NewPollService(db, hub, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(db)
	pollHandler := handlers.NewPollHandler(pollService, hub)
	socketHandler := handlers.NewSocketHandler(hub)

	// Public Routes
	api := r.Group("/api")
	api.POST("/signup", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/logout", authHandler.Logout)
	api.GET("/polls", pollHandler.List)

	// Protected Routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/polls", pollHandler.Create)
		authorized.POST("/polls/:id/vote", pollHandler.Vote)
		authorized.POST("/polls/:id/close", pollHandler.Close)
		authorized.DELETE("/polls/:id", pollHandler.Delete)
	}

	// Live updates
	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired())
	ws.GET("", socketHandler.Serve)
}
