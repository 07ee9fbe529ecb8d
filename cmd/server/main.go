package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/analytics"
	identityapp "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/identity"
	walletapp "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/application/wallet"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/auth"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/cache"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/config"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/event"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/logger"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/notify"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/persistence"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/scheduler"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/telemetry"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/handler"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/middleware"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			disk-babu API
//	@version		1.0
//	@description	File view analytics and wallet earnings ledger.

//	@contact.name	API Support
//	@contact.url	https://github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	telemetryCfg := telemetry.FromTelemetryConfig(cfg.Telemetry, version)
	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	}

	// Bootstrap logger, replaced by the bridged one once the log exporter is up
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logsCfg := telemetryCfg
	logsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, logsCfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := telemetry.BridgedLogger(logCfg, loggerProvider)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting disk-babu backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeEndpoint,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to auto-migrate schema", zap.Error(err))
		}
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics := telemetry.DefaultDBMetricsConfig()
	dbMetrics.DBName = cfg.Database.DBName
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		dbMetrics.SlowQueryThreshold = cfg.Telemetry.DBSlowQueryThresh
	}
	if _, err := telemetry.RegisterDBMetrics(db.DB, prometheus.DefaultRegisterer, dbMetrics, log); err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis is optional; without it revocations, idempotency keys and
	// cached aggregations stay local to this instance.
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	var sharedRedis redis.UniversalClient
	if redisClient != nil {
		sharedRedis = redisClient
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
	}
	revocations := auth.NewRevocationList(redisClient)
	idempotency := cache.NewIdempotencyStore(sharedRedis, log)

	// Events
	eventBus := event.NewInMemoryEventBus(log)
	ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter("disk-babu/ledger"), log)
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}
	event.SubscribeIdempotent(eventBus, idempotency, log,
		ledgerMetrics,
		notify.NewWithdrawalNotifier(log),
	)

	// Repositories
	fileRepo := persistence.NewGormFileRepository(db.DB)
	entryRepo := persistence.NewGormDailyAnalyticsRepository(db.DB)
	walletRepo := persistence.NewGormWalletRepository(db.DB)
	walletTxRepo := persistence.NewGormWalletTransactionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	otpRepo := persistence.NewGormOTPRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Services
	rates := analytics.Rates{
		PerView:         cfg.Ledger.RatePerView,
		ReferralPerView: cfg.Ledger.ReferralRatePerView,
		Beneficiary:     analytics.Beneficiary(cfg.Ledger.Beneficiary),
	}
	if err := rates.Validate(); err != nil {
		log.Fatal("Invalid ledger rates", zap.Error(err))
	}
	ledgerService := analyticsapp.NewLedgerService(scope.Ledger(), rates, log,
		analyticsapp.WithLedgerEventPublisher(eventBus))

	aggregationOpts := []analyticsapp.AggregationOption{}
	if cfg.Cache.ClosedPeriodGrace > 0 {
		aggregationOpts = append(aggregationOpts, analyticsapp.WithClosedPeriodGrace(cfg.Cache.ClosedPeriodGrace))
	}
	if aggregationCache := cache.NewAggregationCache(cfg.Cache, sharedRedis, log); aggregationCache != nil {
		aggregationOpts = append(aggregationOpts, analyticsapp.WithAggregationCache(aggregationCache))
	}
	aggregationService := analyticsapp.NewAggregationService(fileRepo, entryRepo, log, aggregationOpts...)
	fileService := analyticsapp.NewFileService(scope.Ledger(), fileRepo, analytics.SystemClock, log)

	walletService := walletapp.NewWalletService(walletRepo, eventBus, log)
	withdrawalService := walletapp.NewWithdrawalService(scope.Wallet(), walletTxRepo, walletapp.WithdrawalConfig{
		MinAmount:   cfg.Ledger.MinWithdrawalAmount,
		MaxAttempts: cfg.Ledger.WithdrawalAttempts,
	}, eventBus, log)

	userService := identityapp.NewUserService(userRepo, log)
	registrationService := identityapp.NewRegistrationService(
		scope.Registration(), userRepo, otpRepo,
		notify.NewLogOTPSender(log, cfg.App.Env != "production"),
		identityapp.RegistrationConfig{OTPLength: cfg.OTP.Length, OTPTTL: cfg.OTP.TTL},
		log,
	)

	// HTTP
	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.New(router.Options{
		HTTP:             cfg.HTTP,
		Swagger:          cfg.Swagger,
		Production:       cfg.App.Env == "production",
		ServiceName:      cfg.Telemetry.ServiceName,
		JWT:              auth.NewJWTService(cfg.JWT),
		Revocations:      revocations,
		MeterProvider:    meterProvider,
		TracingEnabled:   tracerProvider.IsEnabled(),
		ProfilingEnabled: profiler.IsEnabled(),
		Logger:           log,
		Metrics:          promhttp.Handler(),
		SwaggerUI:        ginSwagger.WrapHandler(swaggerFiles.Handler),
	}, router.Handlers{
		Analytics:    handler.NewAnalyticsHandler(ledgerService, aggregationService),
		Files:        handler.NewFileHandler(fileService),
		Wallet:       handler.NewWalletHandler(walletService, withdrawalService),
		Admin:        handler.NewAdminHandler(withdrawalService, walletService),
		Registration: handler.NewRegistrationHandler(registrationService),
		Users:        handler.NewUserHandler(userService),
		System:       handler.NewSystemHandler(cfg.App.Name, version, checks),
	})

	// Background jobs
	var (
		jobs    *scheduler.Scheduler
		trigger *scheduler.CronTrigger
	)
	if cfg.Scheduler.Enabled {
		jobs, trigger = startScheduler(ctx, cfg.Scheduler, walletRepo, otpRepo, ledgerMetrics, log)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		if err := trigger.Stop(shutdownCtx); err != nil {
			log.Warn("Cron trigger did not stop cleanly", zap.Error(err))
		}
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler did not stop cleanly", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// startScheduler registers the maintenance jobs and arms their cron
// triggers. A scheduler that fails to start is logged and skipped; the API
// keeps serving without it.
func startScheduler(
	ctx context.Context,
	cfg config.SchedulerConfig,
	wallets scheduler.WalletLister,
	otps scheduler.ExpiredOTPDeleter,
	metrics scheduler.AuditRecorder,
	log *zap.Logger,
) (*scheduler.Scheduler, *scheduler.CronTrigger) {
	schedCfg := scheduler.DefaultConfig()
	if cfg.JobTimeout > 0 {
		schedCfg.JobTimeout = cfg.JobTimeout
	}
	jobs, err := scheduler.NewScheduler(schedCfg, log)
	if err != nil {
		log.Error("Invalid scheduler configuration", zap.Error(err))
		return nil, nil
	}

	jobs.Register(scheduler.JobConservationAudit,
		scheduler.NewConservationAudit(wallets, cfg.AuditPageSize, metrics, log))
	jobs.Register(scheduler.JobOTPCleanup,
		scheduler.NewOTPCleanup(otps, func() time.Time { return time.Now().UTC() }, log))

	if err := jobs.Start(ctx); err != nil {
		log.Error("Failed to start scheduler", zap.Error(err))
		return nil, nil
	}

	trigger := scheduler.NewCronTrigger(jobs, log)
	schedules := map[string]string{
		scheduler.JobConservationAudit: cfg.ConservationAudit,
		scheduler.JobOTPCleanup:        cfg.OTPCleanup,
	}
	for name, spec := range schedules {
		if spec == "" {
			continue
		}
		if err := trigger.Schedule(spec, name); err != nil {
			log.Error("Invalid cron schedule", zap.String("job", name), zap.String("spec", spec), zap.Error(err))
		}
	}
	trigger.Start()
	log.Info("Scheduler started", zap.Times("next_runs", trigger.Next()))
	return jobs, trigger
}
