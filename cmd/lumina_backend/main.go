package main

import (
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lumina-tracker/lumina_backend/internal/adapters/googleauth"
	"github.com/lumina-tracker/lumina_backend/internal/adapters/localstore"
	"github.com/lumina-tracker/lumina_backend/internal/adapters/sheets"
	"github.com/lumina-tracker/lumina_backend/internal/core/services"
	"github.com/lumina-tracker/lumina_backend/internal/handlers"
	"github.com/lumina-tracker/lumina_backend/internal/middleware"
	"github.com/lumina-tracker/lumina_backend/internal/platform/config"
)

// @title Lumina Backend API
// @version 1.0
// @description Personal finance tracker backed by a Google Sheets ledger.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Adapters: OAuth session, spreadsheet store, local snapshot fallback
	authService := googleauth.NewService(cfg)
	sheetStore := sheets.NewStore(authService, cfg.SpreadsheetID)
	snapshotStore := localstore.NewSnapshotStore(cfg.LocalDataPath)

	// Service container wires the ledger stores and the session edge
	container := services.NewServiceContainer(sheetStore, snapshotStore, sheetStore, authService)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS for the SPA frontend)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
