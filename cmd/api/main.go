package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bloghub/bloghub-go/internal/config"
	"github.com/bloghub/bloghub-go/internal/handler"
	"github.com/bloghub/bloghub-go/internal/middleware"
	"github.com/bloghub/bloghub-go/internal/repository"
	"github.com/bloghub/bloghub-go/internal/service"
)

// Rate budgets, expressed as sustained rate plus burst. The auth budget
// mirrors 5 attempts per 15 minutes per address; the general budget
// 100 requests per 15 minutes.
const (
	authRateRPS   = 5.0 / 900
	authRateBurst = 5
	apiRateRPS    = 100.0 / 900
	apiRateBurst  = 100
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	postService := service.NewPostService(postRepo)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:      handler.NewAuthHandler(authService),
		Posts:     handler.NewPostHandler(postService),
		JWTSecret: cfg.JWTSecret,
		Users:     userRepo,
		AuthLimit: middleware.RateLimit(authRateRPS, authRateBurst),
		APILimit:  middleware.RateLimit(apiRateRPS, apiRateBurst),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
