package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nventon/user-backend/internal/config"
	"github.com/nventon/user-backend/internal/db"
	"github.com/nventon/user-backend/internal/es"
	"github.com/nventon/user-backend/internal/events"
	"github.com/nventon/user-backend/internal/httpserver"
	"github.com/nventon/user-backend/internal/logging"
	"github.com/nventon/user-backend/internal/middleware"
	"github.com/nventon/user-backend/internal/repo"
	"github.com/nventon/user-backend/internal/service"
	"github.com/nventon/user-backend/internal/tokens"
)

const userIndex = "users"

const sweepInterval = time.Hour

func sweepExpiredTokens(r *repo.GormRepo, logger *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := r.DeleteExpiredTokens(ctx, time.Now())
		cancel()
		if err != nil {
			logger.Warn("token_sweep_failed", "error", err)
			continue
		}
		if n > 0 {
			logger.Info("expired_tokens_removed", "count", n)
		}
	}
}

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress)
		defer producer.Close()
	}

	userSvc := &service.UserService{
		Repo:     &repo.GormRepo{DB: database},
		Producer: producer,
		ESIndex:  userIndex,
	}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		userSvc.ES = esClient
	}

	sessionSvc := &service.SessionService{
		Repo:     &repo.GormRepo{DB: database},
		Codec:    &tokens.Codec{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL},
		Producer: producer,
	}

	go sweepExpiredTokens(sessionSvc.Repo, logger)

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: sessionSvc},
		UserHandler: &httpserver.UserHTTP{Svc: userSvc},
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "addr", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
