// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ikhokha-gateway/internal/config"
	pg "ikhokha-gateway/internal/infra/db/postgres"
	"ikhokha-gateway/internal/infra/logging"
	"ikhokha-gateway/internal/infra/metrics"
	"ikhokha-gateway/internal/infra/payment"
	red "ikhokha-gateway/internal/infra/redis"
	"ikhokha-gateway/internal/infra/web"
	"ikhokha-gateway/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}
	if !cfg.Gateway.Ikhokha.Enabled {
		logger.Warn().Msg("ikhokha gateway is disabled in config; checkout will not offer it")
	}

	metrics.MustRegister()

	// ---- Postgres (order store) ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (per-order reconciliation locks) ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	orderRepo := pg.NewOrderRepo(pool)
	inventoryRepo := pg.NewInventoryRepo(pool)
	cartRepo := pg.NewCartRepo(pool)

	// ---- Processor client ----
	ik := cfg.Gateway.Ikhokha
	processor := payment.NewClient(ik.APIBaseURL, ik.ApplicationID, ik.ApplicationSecret, logger)

	// ---- Use cases ----
	checkoutUC := usecase.NewCheckoutUseCase(orderRepo, processor, ik, cfg.Store, logger)
	callbackUC := usecase.NewCallbackUseCase(orderRepo, inventoryRepo, cartRepo, locker, cfg.Store.Currency, logger)
	refundUC := usecase.NewRefundUseCase(orderRepo, processor, cfg.Store.Currency, cfg.Store.DecimalSeparator, logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Security.SessionSecret, !cfg.Runtime.Dev, "", cfg.Security.SessionTTL)
	gateways := []usecase.Gateway{{
		ID:          usecase.GatewayID,
		Title:       ik.Title,
		Description: ik.Description,
	}}
	srv := web.NewServer(
		checkoutUC, callbackUC, refundUC, orderRepo,
		payment.NewSigner(ik.ApplicationSecret), ik.ApplicationID,
		gateways, cfg.Store.Currency,
		auth, cfg.Security.AdminAPIKey,
		logger,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
