package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nostr-market-payments/config"
	"nostr-market-payments/internal/adapter/gateway"
	httpHandler "nostr-market-payments/internal/adapter/http/handler"
	"nostr-market-payments/internal/adapter/rail"
	pgStorage "nostr-market-payments/internal/adapter/storage/postgres"
	redisStorage "nostr-market-payments/internal/adapter/storage/redis"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/internal/service"
	"nostr-market-payments/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Nostr Market Payments")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	invoiceRepo := pgStorage.NewInvoiceRepo(pool)
	proofRepo := pgStorage.NewProofRepo(pool)
	pendingTokenRepo := pgStorage.NewPendingTokenRepo(pool)
	sellerRepo := pgStorage.NewSellerRepo(pool)
	orderFlagRepo := pgStorage.NewOrderFlagRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	receiptCache := redisStorage.NewReceiptCache(rdb)
	eventDedup := redisStorage.NewEventDedupStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// External collaborators. Stand-ins until a relay/wallet/mint
	// integration is configured for this deployment.
	eventPublisher := gateway.NewNoopPublisher(log)
	eventFetcher := gateway.NewNoopFetcher()
	wallet := gateway.NewNoopWallet()
	mint := gateway.NewNoopMint()
	watcher := gateway.NewNoopWatcher()

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(sellerRepo, hashSvc, tokenSvc)
	registry := service.NewInvoiceRegistry(invoiceRepo, orderFlagRepo, auditRepo, transactor, log)
	receiptPublisher := service.NewReceiptPublisher(wallet, eventPublisher, auditRepo, log)
	reconciler := service.NewProofReconciler(invoiceRepo, registry, receiptCache, auditRepo, receiptPublisher, log)
	ledger := service.NewProofLedger(proofRepo, pendingTokenRepo, mint, encSvc, transactor, cfg.Ledger, log)
	scheduler := service.NewSyncScheduler(invoiceRepo, registry, reconciler, eventFetcher, watcher, eventDedup, cfg.Sync, log)
	reportingSvc := service.NewReportingService(invoiceRepo, auditRepo)

	// Payment rails, keyed by the names the settle endpoint accepts.
	rails := map[string]ports.PaymentRail{
		httpHandler.RailLightning: rail.NewLightningRail(wallet, log),
		httpHandler.RailZap:       rail.NewZapRail(eventFetcher, log),
		httpHandler.RailOnChain:   rail.NewOnChainRail(watcher, cfg.Sync.MinConfirmations, log),
		httpHandler.RailCustodial: rail.NewCustodialRail(wallet, log),
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Crash recovery: resolve sent-but-unconfirmed ecash tokens before
	// taking traffic, so held balances are correct from the first
	// request.
	if err := ledger.RecoverPending(ctx); err != nil {
		log.Error().Err(err).Msg("Pending token recovery incomplete, continuing")
	}

	// Start the background sync poller
	scheduler.Start()

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		Registry:       registry,
		Reconciler:     reconciler,
		Ledger:         ledger,
		Scheduler:      scheduler,
		ReportingSvc:   reportingSvc,
		InvoiceRepo:    invoiceRepo,
		SellerRepo:     sellerRepo,
		TokenSvc:       tokenSvc,
		Rails:          rails,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
