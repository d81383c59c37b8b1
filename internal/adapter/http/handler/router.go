package handler

import (
	"till-reconciliation-engine/internal/adapter/http/middleware"
	redisStore "till-reconciliation-engine/internal/adapter/storage/redis"
	"till-reconciliation-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	ShiftSvc       ports.ShiftService
	LedgerSvc      ports.LedgerService
	ReconSvc       ports.ReconciliationService
	AnalyticsSvc   ports.AnalyticsService
	WalletRepo     ports.WalletRepository
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
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
	shiftHandler := NewShiftHandler(deps.ShiftSvc)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	reconcileHandler := NewReconcileHandler(deps.ReconSvc)

	cajas := v1.Group("/cajas", jwtAuth)
	{
		cajas.POST("/apertura", rl("shifts"), shiftHandler.Open)
		cajas.GET("", rl("shifts"), shiftHandler.List)
		cajas.GET("/:id", rl("shifts"), shiftHandler.Get)
		cajas.POST("/:id/cierre", rl("shifts"), shiftHandler.Close)

		cajas.POST("/:id/movimientos", rl("ledger"), ledgerHandler.RecordMovement)
		cajas.GET("/:id/movimientos", rl("ledger"), ledgerHandler.ListMovements)
		cajas.POST("/:id/premios", rl("ledger"), ledgerHandler.RecordPrize)
		cajas.GET("/:id/premios", rl("ledger"), ledgerHandler.ListPrizes)

		cajas.GET("/:id/descuadre", rl("reports"), reconcileHandler.Reconcile)
		cajas.GET("/:id/ganancia", rl("reports"), reconcileHandler.Profit)
		cajas.GET("/:id/saldos-esperados", rl("reports"), reconcileHandler.ExpectedBalances)
	}

	walletHandler := NewWalletHandler(deps.WalletRepo)
	billeteras := v1.Group("/billeteras", jwtAuth)
	{
		billeteras.POST("", rl("shifts"), walletHandler.Create)
		billeteras.GET("", rl("shifts"), walletHandler.List)
		billeteras.GET("/:id", rl("shifts"), walletHandler.Get)
	}

	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsSvc)
	resumen := v1.Group("/resumen-diario", jwtAuth)
	{
		resumen.GET("", rl("reports"), analyticsHandler.DailySummaries)
	}

	return r
}
