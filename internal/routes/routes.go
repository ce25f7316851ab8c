package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/config"
	handler "github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/handlers"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/middleware"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/repository"
	authsvc "github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/auth"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/balances"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/parser"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/upload"
)

// RegisterRoutes wires repositories, services, and handlers and mounts the
// versioned API.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, settings *config.Settings, log zerolog.Logger) error {
	store := repository.NewStore(db)
	balanceRepo := repository.NewBalanceRepository(db)
	userRepo := repository.NewUserRepository(db)
	batchRepo := repository.NewUploadBatchRepository(db)

	issuer, err := authsvc.NewTokenIssuer(settings.Jwt)
	if err != nil {
		return err
	}

	authService := authsvc.NewService(userRepo, issuer)
	uploadService := upload.NewService(store, parser.NewFactory(), settings.FileUpload, log)
	balanceService := balances.NewService(balanceRepo)

	authHandler := handler.NewAuthHandler(authService, log)
	balanceHandler := handler.NewBalanceHandler(balanceService, uploadService, batchRepo, log)

	// Liveness probe, unauthenticated and unversioned.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(settings.RateLimit.PermitLimit, settings.RateLimit.Window))

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("/balances")
	authed.Use(middleware.Authenticate(settings.Jwt))
	{
		authed.GET("/latest", balanceHandler.GetLatest)
		authed.GET("/summary", balanceHandler.GetSummary)

		admin := authed.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/by-period", balanceHandler.GetByPeriod)
			admin.GET("/summary/by-period", balanceHandler.GetSummaryByPeriod)
			admin.GET("/uploads", balanceHandler.ListUploads)
			admin.POST("/upload",
				middleware.RateLimit(settings.RateLimit.UploadPermitLimit, settings.RateLimit.UploadWindow),
				balanceHandler.Upload)
		}
	}

	return nil
}
