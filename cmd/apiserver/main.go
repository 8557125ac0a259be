// Command apiserver runs the health-insurance administration REST API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medbridge/insurance-api/internal/config"
	"github.com/medbridge/insurance-api/internal/database"
	"github.com/medbridge/insurance-api/internal/httpapi"
	"github.com/medbridge/insurance-api/internal/httpserver"
	"github.com/medbridge/insurance-api/internal/middleware"
	"github.com/medbridge/insurance-api/internal/services/auth"
	"github.com/medbridge/insurance-api/internal/services/claims"
	"github.com/medbridge/insurance-api/internal/services/policies"
	"github.com/medbridge/insurance-api/internal/services/users"
	"github.com/medbridge/insurance-api/internal/storage/postgres"
	"github.com/medbridge/insurance-api/pkg/logger"
)

const shutdownGrace = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault("apiserver").WithError(err).Fatal("failed to load configuration")
	}

	log := logger.New(cfg.Logging).WithField("service", "insurance-api")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.MigrationsPath); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	store := postgres.New(db)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	authSvc := auth.New(store, tokens, cfg.Auth.BcryptCost, log)
	userSvc := users.New(store, cfg.Auth.BcryptCost, log)
	policySvc := policies.New(store, store, log)
	claimSvc := claims.New(store, store, log)

	handler := httpapi.NewHandler(authSvc, userSvc, policySvc, claimSvc, log)
	authmw := middleware.NewAuthMiddleware(authSvc, log)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	router := httpapi.NewRouter(handler, authmw, limiter)

	srv := httpserver.New(cfg.Server, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("server error")
		}
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}

	log.Info("server stopped")
}
