package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/config"
	"github.com/noah-isme/aegis-admin-api/internal/database"
	"github.com/noah-isme/aegis-admin-api/internal/handler"
	"github.com/noah-isme/aegis-admin-api/internal/middleware"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
	"github.com/noah-isme/aegis-admin-api/internal/router"
	"github.com/noah-isme/aegis-admin-api/internal/service"
	"github.com/noah-isme/aegis-admin-api/internal/store"
	"github.com/noah-isme/aegis-admin-api/internal/token"
	cloud "github.com/noah-isme/aegis-admin-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// A failed database connection demotes the whole service to the
	// in-memory store instead of refusing to start.
	var db *gorm.DB
	if cfg.StorageMode != string(store.ModeMemory) {
		db, err = database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Warn().Err(err).Msg("postgres unavailable, falling back to in-memory storage")
			db = nil
		} else if err := db.AutoMigrate(
			&models.Account{},
			&models.AuditLog{},
			&models.Notification{},
			&models.Wallpaper{},
			&models.WallpaperCategory{},
		); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	adapter := store.NewAdapter(store.Config{Mode: store.Mode(cfg.StorageMode)}, db, logger)
	logger.Info().Str("mode", string(adapter.Mode())).Msg("storage mode resolved")

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, dashboard caching disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var imageStorage service.ImageStorage
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		imageStorage = uploader
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	accountRepo := repository.NewAccountRepository(adapter)
	auditRepo := repository.NewAuditLogRepository(adapter)
	notificationRepo := repository.NewNotificationRepository(adapter)
	wallpaperRepo := repository.NewWallpaperRepository(adapter)

	auditService := service.NewAuditService(auditRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, validate, logger)
	accountService := service.NewAccountService(accountRepo, auditService, notificationService, validate, logger)
	authService := service.NewAuthService(accountRepo, auditService, tokens, validate, logger)
	dashboardService := service.NewDashboardService(accountRepo, auditService, adapter, redisClient, cfg.DashboardCacheTTL, logger)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 30*time.Second)
	if err := accountService.Bootstrap(bootstrapCtx, service.BootstrapConfig{
		Email:    cfg.SeedAdminEmail,
		Name:     cfg.SeedAdminName,
		Password: cfg.SeedAdminPassword,
	}); err != nil {
		log.Fatalf("failed to bootstrap main admin: %v", err)
	}
	cancelBootstrap()

	sweeper := service.NewNotificationSweeper(notificationService, cfg.NotificationSweepEvery, logger)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start notification sweeper: %v", err)
	}
	defer sweeper.Stop()

	authenticate := middleware.Authenticate(tokens, accountRepo)
	loginLimit := middleware.LoginRateLimit(cfg.LoginRateMax, cfg.LoginRateWindow)

	authHandler := handler.NewAuthHandler(authService, authenticate, loginLimit, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, auditService, logger)

	var wallpaperHandler *handler.WallpaperHandler
	if imageStorage != nil {
		wallpaperService := service.NewWallpaperService(imageStorage, wallpaperRepo, auditService, cfg.WallpaperMaxSizeMB, validate, logger)
		wallpaperHandler = handler.NewWallpaperHandler(wallpaperService, logger)
	} else {
		logger.Warn().Msg("cloudinary not configured, wallpaper routes disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		Adapter:             adapter,
		AuthHandler:         authHandler,
		AccountHandler:      accountHandler,
		NotificationHandler: notificationHandler,
		DashboardHandler:    dashboardHandler,
		WallpaperHandler:    wallpaperHandler,
		Authenticate:        authenticate,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}

	logger.Info().Msg("server stopped")
}
