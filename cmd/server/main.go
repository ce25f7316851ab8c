package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/config"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/logger"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/middleware"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/routes"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/seed"
)

func main() {
	log := logger.New()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on system env")
	}

	settings, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := config.InitDB(settings.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.BalanceRecord{},
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.UploadBatch{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if settings.SeedDB {
		if err := seed.Run(context.Background(), db, log); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: settings.Cors.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	if err := routes.RegisterRoutes(r, db, settings, log); err != nil {
		log.Fatal().Err(err).Msg("failed to register routes")
	}

	log.Info().Str("port", settings.Server.Port).Msg("starting server")
	if err := r.Run(":" + settings.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
