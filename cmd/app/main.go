// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"interview-prep-subscription/internal/config"
	pg "interview-prep-subscription/internal/infra/db/postgres"
	"interview-prep-subscription/internal/infra/logging"
	"interview-prep-subscription/internal/infra/metrics"
	rzp "interview-prep-subscription/internal/infra/razorpay"
	red "interview-prep-subscription/internal/infra/redis"
	"interview-prep-subscription/internal/infra/web"
	"interview-prep-subscription/internal/plan"
	"interview-prep-subscription/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode")
	flag.Parse()

	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis (optional; only used to serialize confirmations) ----
	var locker red.Locker
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		locker = red.NewLocker(redisClient)
	} else {
		logger.Warn().Msg("redis not configured; concurrent confirmations are not serialized")
	}

	// ---- Plan catalog ----
	catalog, err := plan.NewCatalog(cfg.Plans)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid plan configuration")
	}

	// ---- Gateway ----
	gateway := rzp.NewGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.PublicKeyID, logger)
	if cfg.Razorpay.KeyID != "" {
		logger.Info().Str("key_id", logging.Redact(cfg.Razorpay.KeyID, cfg.Runtime.Dev)).Msg("razorpay gateway configured")
	}

	// ---- Repositories & use cases ----
	payRepo := pg.NewPaymentRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	tm := pg.NewTxManager(pool)

	orderUC := usecase.NewOrderUseCase(payRepo, subRepo, catalog, gateway, logger)
	confirmUC := usecase.NewConfirmUseCase(payRepo, subRepo, catalog, gateway, tm, locker, logger)

	// ---- HTTP server ----
	server := web.NewServer(orderUC, confirmUC, catalog, cfg.Auth.JWTSecret, logger)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}
