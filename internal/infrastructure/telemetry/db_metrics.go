package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig configures query and pool metrics
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
	DBName             string
}

// DefaultDBMetricsConfig returns the default DB metrics settings
func DefaultDBMetricsConfig() DBMetricsConfig {
	return DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 200 * time.Millisecond,
		DBName:             "diskbabu",
	}
}

type metricsStartKey struct{}

// DBMetrics is a gorm plugin exposing query latency and slow query counts
// to prometheus. Pool statistics come from the database/sql collector.
type DBMetrics struct {
	config   DBMetricsConfig
	logger   *zap.Logger
	duration *prometheus.HistogramVec
	slow     *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

// NewDBMetrics creates the collectors and registers them on reg
func NewDBMetrics(reg prometheus.Registerer, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if cfg.SlowQueryThreshold == 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &DBMetrics{
		config: cfg,
		logger: logger,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diskbabu_db_query_duration_seconds",
			Help:    "Database query latency by operation.",
			Buckets: DBDurationBuckets,
		}, []string{"operation"}),
		slow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diskbabu_db_slow_queries_total",
			Help: "Queries slower than the configured threshold by table.",
		}, []string{"table"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diskbabu_db_query_errors_total",
			Help: "Failed queries by operation, excluding not-found and duplicate-key outcomes.",
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{m.duration, m.slow, m.errors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Name implements gorm.Plugin
func (m *DBMetrics) Name() string { return "diskbabu:db_metrics" }

// Initialize implements gorm.Plugin
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	return registerAround(db, "db_metrics", m.before, m.after)
}

func (m *DBMetrics) before(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, metricsStartKey{}, time.Now())
}

func (m *DBMetrics) after(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	start, ok := db.Statement.Context.Value(metricsStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	op := operationOf(db.Statement.SQL.String())

	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	if elapsed > m.config.SlowQueryThreshold {
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		m.slow.WithLabelValues(table).Inc()
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) && !errors.Is(db.Error, gorm.ErrDuplicatedKey) {
		m.errors.WithLabelValues(op).Inc()
	}
}

func operationOf(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE", "SAVEPOINT", "RELEASE", "ROLLBACK"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

// RegisterDBMetrics installs the query plugin on db and registers the
// connection pool collector on reg. It returns nil when disabled.
func RegisterDBMetrics(db *gorm.DB, reg prometheus.Registerer, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	m, err := NewDBMetrics(reg, cfg, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewDBStatsCollector(sqlDB, cfg.DBName)); err != nil {
		return nil, err
	}
	if err := db.Use(m); err != nil {
		return nil, err
	}
	m.logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", m.config.SlowQueryThreshold))
	return m, nil
}
