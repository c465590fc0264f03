package handler

import (
	"nostr-market-payments/internal/adapter/http/middleware"
	"nostr-market-payments/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	Registry       ports.InvoiceRegistry
	Reconciler     ports.ProofReconciler
	Ledger         ports.ProofLedger
	Scheduler      ports.SyncScheduler
	ReportingSvc   ports.ReportingService
	InvoiceRepo    ports.InvoiceRepository
	SellerRepo     ports.SellerRepository
	TokenSvc       ports.TokenService
	Rails          map[string]ports.PaymentRail
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	orderHandler := NewOrderHandler(deps.Registry, deps.Scheduler, deps.SellerRepo)
	orders := v1.Group("/orders", jwtAuth)
	{
		orders.POST("", rl("orders"), orderHandler.Create)
		orders.GET("/:id/invoices", rl("orders"), orderHandler.ListInvoices)
		orders.GET("/:id/incomplete", rl("orders"), orderHandler.ListIncomplete)
		orders.GET("/:id/status", rl("orders"), orderHandler.Status)
		orders.POST("/:id/refresh", rl("refresh"), orderHandler.Refresh)
		orders.POST("/:id/cancel", rl("orders"), orderHandler.Cancel)
	}

	invoiceHandler := NewInvoiceHandler(deps.InvoiceRepo, deps.Registry, deps.Reconciler, deps.Rails)
	invoices := v1.Group("/invoices", jwtAuth)
	{
		invoices.POST("/:id/settle", rl("settle"), invoiceHandler.Settle)
		invoices.POST("/:id/skip", rl("settle"), invoiceHandler.Skip)
	}

	walletHandler := NewWalletHandler(deps.Ledger)
	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.POST("/receive", rl("wallet"), walletHandler.Receive)
		wallet.POST("/send", rl("wallet"), walletHandler.Send)
		wallet.GET("/balance", rl("wallet"), walletHandler.Balance)
	}

	dashboardHandler := NewDashboardHandler(deps.ReportingSvc)
	dashboard := v1.Group("/dashboard", jwtAuth)
	{
		dashboard.GET("/stats", rl("dashboard"), dashboardHandler.GetStats)
		dashboard.GET("/orders/:id/audit", rl("dashboard"), dashboardHandler.GetAuditTrail)
	}

	return r
}
