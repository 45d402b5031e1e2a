package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	calendargpt "github.com/calendargpt/calendargpt"
	"github.com/calendargpt/calendargpt/internal/config"
	"github.com/calendargpt/calendargpt/internal/handler"
	"github.com/calendargpt/calendargpt/internal/middleware"
	"github.com/calendargpt/calendargpt/internal/repository"
	"github.com/calendargpt/calendargpt/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(calendargpt.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	creds := repository.NewCredentialRepo(pool)
	history := repository.NewHistoryRepo(pool)

	// Initialize services
	ai, err := service.NewAIService(cfg)
	if err != nil {
		slog.Error("failed to create AI service", "error", err)
		os.Exit(1)
	}
	googleAuth := service.NewGoogleAuth(creds, cfg)
	calendar := service.NewCalendarService(googleAuth, cfg)
	tasks := service.NewTasksService(googleAuth)
	executor := service.NewExecutor(calendar, tasks)
	extract := service.NewExtractService()

	// Initialize handler
	h := handler.New(handler.Deps{
		Cfg:      cfg,
		AI:       ai,
		Executor: executor,
		Calendar: calendar,
		Tasks:    tasks,
		Extract:  extract,
		Creds:    creds,
		History:  history,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recover(), middleware.Logging())
	h.Register(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	slog.Info("server stopped gracefully")
}
