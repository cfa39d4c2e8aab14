package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"tradejournal/configs"
	"tradejournal/internal/adapter/email"
	"tradejournal/internal/database"
	deliveryhttp "tradejournal/internal/delivery/http"
	"tradejournal/internal/infra"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables")
	}

	cfg := configs.Load()

	logLevel := slog.LevelInfo
	if cfg.Server.Env == "development" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx := context.Background()

	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	playbookRepo := repository.NewPlaybookRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	txManager := repository.NewTxManager(db)

	notifier := email.NewResend(cfg.Email.APIKey, cfg.Email.FromName, cfg.Email.FromAddress, cfg.Email.FrontendURL)

	// Services
	authService := service.NewAuthService(
		userRepo, sessionRepo, tokenRepo, txManager, notifier,
		cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL,
	)
	userService := service.NewUserService(userRepo, sessionRepo, tokenRepo, txManager, notifier)
	accountService := service.NewAccountService(accountRepo)
	playbookService := service.NewPlaybookService(playbookRepo)
	tradeService := service.NewTradeService(tradeRepo, accountRepo, playbookRepo, txManager)

	// Housekeeping jobs
	housekeeper := infra.NewHousekeeper(tokenRepo, sessionRepo)
	if err := housekeeper.Start(); err != nil {
		slog.Error("failed to start housekeeping scheduler", "error", err)
		os.Exit(1)
	}
	defer housekeeper.Stop()

	// HTTP server
	e := echo.New()
	e.HideBanner = true

	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		Config:          cfg,
		Users:           userRepo,
		AuthHandler:     deliveryhttp.NewAuthHandler(authService, cfg.Auth.SecureCookies, cfg.Auth.RefreshTokenTTL),
		UserHandler:     deliveryhttp.NewUserHandler(userService),
		AccountHandler:  deliveryhttp.NewAccountHandler(accountService),
		PlaybookHandler: deliveryhttp.NewPlaybookHandler(playbookService),
		TradeHandler:    deliveryhttp.NewTradeHandler(tradeService),
	})

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
