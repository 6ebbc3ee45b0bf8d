package router

import (
	"errors"
	"net/http"

	"github.com/blognest/backend/internal/handlers"
	"github.com/blognest/backend/internal/middleware"
	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/repositories"
	"github.com/blognest/backend/internal/services"
	"github.com/blognest/backend/pkg/cloudinary"
	"github.com/blognest/backend/pkg/config"
	"github.com/blognest/backend/pkg/token"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = detailErrorHandler
}

// detailErrorHandler renders every error as {"detail": <message>}.
func detailErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			detail = msg
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"detail": detail})
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, storage *cloudinary.Client, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.Comment{},
		&models.BlogInteraction{},
		&models.Attachment{},
	)
	if err != nil {
		return err
	}
	log.Info("auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	blogRepo := repositories.NewPostgresBlogRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	interactionRepo := repositories.NewPostgresInteractionRepository(db)
	attachmentRepo := repositories.NewPostgresAttachmentRepository(db)

	// --- Core services ---
	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := services.NewAuthService(userRepo, codec, log)
	interactionService := services.NewInteractionService(db, log)

	authHandler := handlers.NewAuthHandler(authService, storage, cfg.RefreshTokenTTL)

	// --- Unprotected authentication routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterPublicRoutes(authGroup)

	// --- Protected routes (require bearer access token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(authService))

	authHandler.RegisterProtectedRoutes(api.Group("/auth"))

	blogHandler := handlers.NewBlogHandler(blogRepo, interactionRepo, interactionService)
	blogHandler.RegisterBlogRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, blogRepo)
	commentHandler.RegisterCommentRoutes(api)

	adminHandler := handlers.NewAdminHandler(userRepo, log)
	adminHandler.RegisterAdminRoutes(api.Group("/admin"))

	attachmentHandler := handlers.NewAttachmentHandler(attachmentRepo, blogRepo, storage, log)
	attachmentHandler.RegisterAttachmentRoutes(api.Group("/attachments"))

	log.Info("all routes configured")
	return nil
}
