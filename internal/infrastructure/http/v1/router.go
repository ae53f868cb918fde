package v1

import (
	"github.com/gin-gonic/gin"

	"cuentas/internal/domain/auth"
	"cuentas/internal/domain/catalogs/counterparty"
	"cuentas/internal/domain/catalogs/currency"
	"cuentas/internal/domain/catalogs/payment_method"
	"cuentas/internal/domain/documents/ledger_entry"
	"cuentas/internal/domain/reports"
	"cuentas/internal/infrastructure/http/v1/handlers"
	"cuentas/internal/infrastructure/http/v1/middleware"
	"cuentas/internal/infrastructure/storage/postgres"
	"cuentas/pkg/logger"
)

// RouterConfig holds everything the HTTP layer depends on. Services are
// built once at startup and shared across requests.
type RouterConfig struct {
	Logger *logger.Logger
	Pool   *postgres.Pool

	AuthService  *auth.Service
	JWTValidator middleware.JWTValidator

	Currencies     *currency.Service
	Counterparties *counterparty.Service
	PaymentMethods *payment_method.Service
	LedgerEntries  *ledger_entry.Service
	Reports        *reports.Service

	Audit *postgres.AuditService

	// Idempotency, when non-nil, enables replay protection for mutating
	// requests that carry an X-Idempotency-Key header.
	Idempotency *postgres.IdempotencyStore
}

// NewRouter creates and configures the main HTTP router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Order matters: recovery first, then tracing so the logger and error
	// handler see the trace id.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	registerHealthRoutes(router, cfg)

	api := router.Group("/api/v1")

	registerAuthRoutes(api, cfg)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	if cfg.Idempotency != nil {
		protected.Use(middleware.Idempotency(cfg.Idempotency))
	}

	registerCatalogRoutes(protected, cfg)
	registerLedgerRoutes(protected, cfg)
	registerReportRoutes(protected, cfg)
	registerUserRoutes(protected, cfg)

	return router
}

func registerHealthRoutes(router *gin.Engine, cfg RouterConfig) {
	handler := handlers.NewHealthHandler(cfg.Pool)

	health := router.Group("/health")
	{
		health.GET("/live", handler.Live)
		health.GET("/ready", handler.Ready)
		health.GET("/info", handler.Info)
	}
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	handler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.AuthService)

	public := rg.Group("/auth")
	{
		public.POST("/register", handler.Register)
		public.POST("/login", handler.Login)
		public.POST("/refresh", handler.Refresh)
	}

	private := rg.Group("/auth")
	private.Use(middleware.Auth(cfg.JWTValidator))
	{
		private.POST("/logout", handler.Logout)
		private.GET("/me", handler.Me)
	}
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	currencyHandler := handlers.NewCurrencyHandler(baseHandler, cfg.Currencies)
	currencies := catalogs.Group("/currencies")
	RegisterCatalogRoutes(currencies, currencyHandler)
	currencies.PUT("/:id/rate", currencyHandler.UpdateExchangeRate)

	RegisterCatalogRoutes(
		catalogs.Group("/counterparties"),
		handlers.NewCounterpartyHandler(baseHandler, cfg.Counterparties),
	)

	RegisterCatalogRoutes(
		catalogs.Group("/payment-methods"),
		handlers.NewPaymentMethodHandler(baseHandler, cfg.PaymentMethods),
	)
}

// registerLedgerRoutes registers receivable and payable document endpoints.
func registerLedgerRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewLedgerEntryHandler(handlers.NewBaseHandler(), cfg.LedgerEntries, cfg.Audit)

	entries := rg.Group("/ledger-entries")
	{
		entries.GET("", handler.List)
		entries.POST("", handler.Create)
		entries.GET("/by-number/:number", handler.GetByNumber)
		entries.GET("/:id", handler.Get)
		entries.PUT("/:id", handler.Update)
		entries.DELETE("/:id", handler.Delete)
		entries.POST("/:id/void", handler.Void)
		entries.GET("/:id/history", handler.History)

		entries.POST("/:id/payments", handler.AddPayment)
		entries.DELETE("/:id/payments/:paymentId", handler.RemovePayment)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), cfg.Reports)

	reportsGroup := rg.Group("/reports")
	{
		reportsGroup.GET("/aging", handler.Aging)
		reportsGroup.GET("/statement/:counterpartyId", handler.Statement)
	}
}

// registerUserRoutes registers user administration endpoints.
func registerUserRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	handler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.AuthService)

	users := rg.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.GET("", handler.ListUsers)
	}
}
