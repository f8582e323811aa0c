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

	"storefront/docs" // swagger docs
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/handler"
	"storefront/internal/logging"
	"storefront/internal/mail"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

// @title Storefront Account API
// @version 1.0
// @description Signup with emailed verification codes, cookie sessions, a paginated category catalog and per-user interests.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error", false).Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction())

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" && !cfg.IsProduction() {
		log.Warn(ctx, "RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn(ctx, "redis unavailable, verification attempts are not limited", "addr", cfg.RedisAddr, "error", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	interestRepo := repository.NewInterestRepository(gormDB)

	// Initialize auth components
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction(), log)
	attempts := auth.NewAttemptStore(cacheClient, cfg.MaxVerifyAttempts, cfg.VerifyLockout)
	mailer := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)

	// Initialize services
	authService := service.NewAuthService(userRepo, mailer, sessions, attempts, cfg.VerificationCodeTTL, log)
	catalogService := service.NewCatalogService(categoryRepo)
	interestService := service.NewInterestService(userRepo, categoryRepo, interestRepo, log)
	seeder := service.NewCategorySeeder(categoryRepo, nil, log)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, log, router.NewGate(sessions, log), router.Handlers{
		Auth:     handler.NewAuthHandler(authService, sessions, log),
		Session:  handler.NewSessionHandler(log),
		Category: handler.NewCategoryHandler(catalogService, log),
		Interest: handler.NewInterestHandler(interestService, log),
		Seed:     handler.NewSeedHandler(seeder, log),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info(ctx, "swagger documentation available", "url", strings.TrimSuffix(cfg.BaseURL, "/")+"/swagger/index.html")

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening", "port", cfg.ServerPort, "env", cfg.Env)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return e.Shutdown(shutdownCtx)
}
