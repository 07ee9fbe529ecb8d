// Package router assembles the gin engine: the middleware chain, the
// operational endpoints and the versioned API routes.
package router

import (
	"net/http"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/auth"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/config"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/logger"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/telemetry"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/handler"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware that runs for every versioned route only
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/"+r.apiVersion, r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one resource under a prefix
type DomainGroup struct {
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, path, handlers)
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

// Handlers are the HTTP handlers mounted by New
type Handlers struct {
	Analytics    *handler.AnalyticsHandler
	Files        *handler.FileHandler
	Wallet       *handler.WalletHandler
	Admin        *handler.AdminHandler
	Registration *handler.RegistrationHandler
	Users        *handler.UserHandler
	System       *handler.SystemHandler
}

// Options configures the middleware chain
type Options struct {
	HTTP             config.HTTPConfig
	Swagger          config.SwaggerConfig
	Production       bool
	ServiceName      string
	JWT              *auth.JWTService
	Revocations      auth.RevocationList
	MeterProvider    *telemetry.MeterProvider
	TracingEnabled   bool
	ProfilingEnabled bool
	Logger           *zap.Logger

	// Metrics serves /metrics when set
	Metrics http.Handler
	// SwaggerUI serves /swagger/*any when set
	SwaggerUI gin.HandlerFunc
}

// New builds the engine with the full middleware chain and every route
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Ignoring invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(opts.HTTP)),
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: opts.ServiceName,
			Enabled:     opts.TracingEnabled,
		}),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: opts.MeterProvider,
			Enabled:       opts.MeterProvider != nil,
			Logger:        log,
		}),
	)

	engine.GET("/health", h.System.Health)
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	jwtConfig := middleware.DefaultJWTConfig(opts.JWT)
	jwtConfig.Revocations = opts.Revocations
	jwtConfig.Logger = log
	authenticate := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	if opts.SwaggerUI != nil {
		docsAuth := jwtConfig
		docsAuth.SkipPaths = nil
		docsAuth.SkipPathPrefixes = nil
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(
				middleware.SwaggerConfigFrom(opts.Swagger, opts.Production),
				middleware.JWTAuthMiddlewareWithConfig(docsAuth),
			),
			opts.SwaggerUI,
		)
	}

	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = opts.ProfilingEnabled

	api := NewRouter(engine, WithAPIVersion("v1")).Use(
		authenticate,
		middleware.TracingAttributeInjector(),
		middleware.ProfilingWithConfig(profiling),
	)
	if opts.HTTP.RateLimitEnabled {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)))
	}

	api.Register(
		analyticsRoutes(h.Analytics),
		fileRoutes(h.Files),
		walletRoutes(h.Wallet),
		authRoutes(h.Registration),
		userRoutes(h.Users),
		adminRoutes(h.Admin),
		systemRoutes(h.System),
	)
	api.Setup()

	return engine
}

func analyticsRoutes(h *handler.AnalyticsHandler) *DomainGroup {
	return NewDomainGroup("/analytics").
		POST("/views", h.RecordView).
		GET("/daily", h.DailyTotals).
		GET("/monthly", h.MonthlyTotals).
		GET("/monthly/totals", h.MonthlyAggregateTotals).
		GET("/files/:id/daily", h.FileDayAnalytics)
}

func fileRoutes(h *handler.FileHandler) *DomainGroup {
	return NewDomainGroup("/files").
		POST("", h.Register).
		POST("/:id/clone", h.Clone).
		GET("/:id", h.Get)
}

func walletRoutes(h *handler.WalletHandler) *DomainGroup {
	return NewDomainGroup("/wallet").
		GET("", h.GetWallet).
		POST("/withdrawals", h.RequestWithdrawal).
		GET("/withdrawals", h.ListWithdrawals).
		GET("/withdrawals/:id", h.GetWithdrawal)
}

// authRoutes are listed in the JWT middleware skip paths
func authRoutes(h *handler.RegistrationHandler) *DomainGroup {
	return NewDomainGroup("/auth").
		POST("/register/otp", h.RequestOTP).
		POST("/register/verify", h.Verify)
}

func userRoutes(h *handler.UserHandler) *DomainGroup {
	return NewDomainGroup("/users").
		GET("/me", h.Me).
		PUT("/me/billing-details", h.UpdateBillingDetails)
}

func adminRoutes(h *handler.AdminHandler) *DomainGroup {
	return NewDomainGroup("/admin").
		Use(middleware.RequireRole(auth.RoleAdmin)).
		POST("/withdrawals/:id/approve", h.ApproveWithdrawal).
		POST("/withdrawals/:id/cancel", h.CancelWithdrawal).
		POST("/withdrawals/:id/pay", h.PayWithdrawal).
		PATCH("/withdrawals/:id", h.UpdateWithdrawal).
		POST("/wallets/:userId/credit", h.CreditWallet).
		POST("/wallets/:userId/debit", h.DebitWallet).
		POST("/wallets/:userId/transfer", h.TransferWallet)
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}
