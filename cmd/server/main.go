package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/docs"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/mail"
	"storefront/internal/media"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Storefront API
// @version 1.0
// @description E-commerce backend: registration, email verification, sessions, business profiles and products.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.MustLoad()

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.WithModule("server")

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	if cfg.Database.Reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Warn("drop tables", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn("redis unavailable, running without cache", zap.Error(err))
	}

	mailer, closeMailer, err := mail.New(cfg.Mail)
	if err != nil {
		log.Fatal("mail transport", zap.Error(err))
	}
	defer closeMailer()

	imageStore, err := media.NewStore(context.Background(), cfg.Media)
	if err != nil {
		log.Fatal("media store", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	businessRepo := repository.NewBusinessRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize auth components
	codec := auth.NewTokenCodec(cfg.Tokens.Secret)
	hasher := auth.NewBcryptHasher(cfg.Tokens.BcryptCost)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	verificationService := service.NewVerificationService(userRepo, codec, mailer, cfg.Tokens.VerificationTTL, cfg.BaseURL)
	authService := service.NewAuthService(userRepo, hasher, codec, cfg.Tokens.SessionTTL, verificationService)
	sessionService := service.NewSessionService(userRepo, codec, tokenStore)
	businessService := service.NewBusinessService(businessRepo, productRepo, cacheClient)
	productService := service.NewProductService(productRepo, businessRepo, cacheClient)
	uploadService := service.NewUploadService(imageStore, businessService, productService)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, sessionService, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, sessionService),
		User:         handler.NewUserHandler(),
		Verification: handler.NewVerificationHandler(verificationService),
		Business:     handler.NewBusinessHandler(businessService),
		Product:      handler.NewProductHandler(productService),
		Upload:       handler.NewUploadHandler(uploadService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", zap.String("url", strings.TrimSuffix(cfg.BaseURL, "/")+"/swagger/index.html"))

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	if err := e.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}
