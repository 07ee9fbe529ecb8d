package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/auth"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/config"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/handler"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	var order []string
	r := NewRouter(engine, WithAPIVersion("v2")).Use(func(c *gin.Context) {
		order = append(order, "api")
		c.Next()
	})

	r.Register(NewDomainGroup("/test").
		Use(func(c *gin.Context) {
			order = append(order, "group")
			c.Next()
		}).
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }).
		PATCH("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) }))
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"api", "group"}, order)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

const testSecret = "router-test-secret-with-enough-bytes"

func testEngine(t *testing.T, swagger config.SwaggerConfig) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "disk-babu"})
	engine := New(Options{
		Swagger:     swagger,
		ServiceName: "disk-babu-backend",
		JWT:         jwtService,
		Metrics:     promhttp.Handler(),
		SwaggerUI:   func(c *gin.Context) { c.String(http.StatusOK, "docs") },
	}, Handlers{
		Analytics:    handler.NewAnalyticsHandler(nil, nil),
		Files:        handler.NewFileHandler(nil),
		Wallet:       handler.NewWalletHandler(nil, nil),
		Admin:        handler.NewAdminHandler(nil, nil),
		Registration: handler.NewRegistrationHandler(nil),
		Users:        handler.NewUserHandler(nil),
		System:       handler.NewSystemHandler("disk-babu-backend", "test", nil),
	})
	return engine, jwtService
}

func token(t *testing.T, svc *auth.JWTService, roles ...string) string {
	t.Helper()
	tok, err := svc.IssueToken(uuid.New(), time.Hour, roles...)
	require.NoError(t, err)
	return "Bearer " + tok
}

func send(engine *gin.Engine, method, path, authorization, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestNew_RouteTable(t *testing.T) {
	engine, _ := testEngine(t, config.SwaggerConfig{})

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"GET /swagger/*any",
		"POST /api/v1/analytics/views",
		"GET /api/v1/analytics/daily",
		"GET /api/v1/analytics/monthly",
		"GET /api/v1/analytics/monthly/totals",
		"GET /api/v1/analytics/files/:id/daily",
		"POST /api/v1/files",
		"POST /api/v1/files/:id/clone",
		"GET /api/v1/files/:id",
		"GET /api/v1/wallet",
		"POST /api/v1/wallet/withdrawals",
		"GET /api/v1/wallet/withdrawals",
		"GET /api/v1/wallet/withdrawals/:id",
		"POST /api/v1/auth/register/otp",
		"POST /api/v1/auth/register/verify",
		"GET /api/v1/users/me",
		"PUT /api/v1/users/me/billing-details",
		"POST /api/v1/admin/withdrawals/:id/approve",
		"POST /api/v1/admin/withdrawals/:id/cancel",
		"POST /api/v1/admin/withdrawals/:id/pay",
		"PATCH /api/v1/admin/withdrawals/:id",
		"POST /api/v1/admin/wallets/:userId/credit",
		"POST /api/v1/admin/wallets/:userId/debit",
		"POST /api/v1/admin/wallets/:userId/transfer",
		"GET /api/v1/system/info",
		"GET /api/v1/system/ping",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestNew_Authentication(t *testing.T) {
	engine, jwtService := testEngine(t, config.SwaggerConfig{})

	t.Run("operational endpoints are public", func(t *testing.T) {
		rec := send(engine, http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, http.StatusOK, send(engine, http.MethodGet, "/metrics", "", "").Code)
	})

	t.Run("api routes need a token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, send(engine, http.MethodGet, "/api/v1/wallet", "", "").Code)
		assert.Equal(t, http.StatusUnauthorized, send(engine, http.MethodGet, "/api/v1/wallet", "Bearer garbage", "").Code)
	})

	t.Run("registration is public", func(t *testing.T) {
		rec := send(engine, http.MethodPost, "/api/v1/auth/register/otp", "", `{"email":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin routes need the admin role", func(t *testing.T) {
		path := "/api/v1/admin/withdrawals/not-a-uuid/approve"
		assert.Equal(t, http.StatusForbidden, send(engine, http.MethodPost, path, token(t, jwtService), "").Code)
		assert.Equal(t, http.StatusBadRequest, send(engine, http.MethodPost, path, token(t, jwtService, auth.RoleAdmin), "").Code)
	})

	t.Run("authenticated caller reaches the handler", func(t *testing.T) {
		rec := send(engine, http.MethodGet, "/api/v1/files/not-a-uuid", token(t, jwtService), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNew_Swagger(t *testing.T) {
	engine, _ := testEngine(t, config.SwaggerConfig{Enabled: false})
	assert.Equal(t, http.StatusNotFound, send(engine, http.MethodGet, "/swagger/index.html", "", "").Code)

	engine, _ = testEngine(t, config.SwaggerConfig{Enabled: true})
	rec := send(engine, http.MethodGet, "/swagger/index.html", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "docs", rec.Body.String())
}

func TestNew_RateLimit(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: testSecret})
	engine := New(Options{
		HTTP: config.HTTPConfig{RateLimitEnabled: true, RateLimitRequests: 1, RateLimitWindow: time.Minute},
		JWT:  jwtService,
	}, Handlers{
		Files:  handler.NewFileHandler(nil),
		System: handler.NewSystemHandler("disk-babu-backend", "test", nil),
	})

	bearer := token(t, jwtService)
	assert.Equal(t, http.StatusBadRequest, send(engine, http.MethodGet, "/api/v1/files/x", bearer, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(engine, http.MethodGet, "/api/v1/files/x", bearer, "").Code)
	assert.Equal(t, http.StatusOK, send(engine, http.MethodGet, "/health", bearer, "").Code, "health is outside the api group")
}
