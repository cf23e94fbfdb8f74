package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dcastano/authcalc-be/internal/api"
	"github.com/dcastano/authcalc-be/internal/auth"
	"github.com/dcastano/authcalc-be/internal/config"
	"github.com/dcastano/authcalc-be/internal/database"
	"github.com/dcastano/authcalc-be/internal/logger"
	"github.com/dcastano/authcalc-be/internal/metrics"
	"github.com/dcastano/authcalc-be/internal/monitoring"
	"github.com/dcastano/authcalc-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Environment)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Set up services
	auditService := services.NewAuditService(db)
	userService, err := services.NewUserService(db, auth.NewHasher(cfg.BcryptCost), auditService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize user service")
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Set up and run the background audit pruner
	pruner, err := monitoring.NewPruner(auditService, cfg.AuditRetentionDays, "@daily")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audit pruner")
	}
	go pruner.Run()

	// Per-IP limit on the auth endpoints: 10 requests burst, refill 1/s
	authLimiter := api.NewRateLimiter(rate.Limit(1), 10)

	// Set up router
	router := api.NewRouter(db, userService, auditService, tokens, collector, registry, authLimiter)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	pruner.Stop()
	authLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
