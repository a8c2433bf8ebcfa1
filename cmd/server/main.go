package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/LankyMoose/poller.pro/internal/config"
	"github.com/LankyMoose/poller.pro/internal/db"
	"github.com/LankyMoose/poller.pro/internal/live"
	"github.com/LankyMoose/poller.pro/internal/middleware"
	"github.com/LankyMoose/poller.pro/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize Database
	database := db.Init(cfg.DatabaseURL)

	// Live update hub: one instance for the process lifetime.
	hub := live.NewHub(logger)
	defer hub.Shutdown()

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.Production,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("poller_session", store))

	// Middleware
	r.Use(middleware.LoadUser(database))

	router.RegisterRoutes(r, database, hub, logger)

	log.Printf("poller.pro server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
