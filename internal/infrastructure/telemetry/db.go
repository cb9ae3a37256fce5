package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold marks a statement as slow
const DefaultSlowQueryThreshold = 200 * time.Millisecond

const startedAtKey = "telemetry:started_at"

// DBConfig controls database instrumentation
type DBConfig struct {
	TraceEnabled bool
	// DBName is reported as db.name on spans, e.g. "postgres" or "mysql"
	DBName string
	// LogFullSQL keeps bound variables in span statements
	LogFullSQL         bool
	SlowQueryThreshold time.Duration
}

// DBInstrumentation registers otelgorm tracing, slow query marking and
// query/pool metrics on a gorm.DB.
type DBInstrumentation struct {
	config DBConfig
	logger *zap.Logger

	queries      metric.Int64Counter
	duration     metric.Float64Histogram
	slowQueries  metric.Int64Counter
	registration metric.Registration
}

// InstrumentDatabase wires instrumentation into db. meter may be nil to skip metrics.
func InstrumentDatabase(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) (*DBInstrumentation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = DefaultSlowQueryThreshold
	}
	in := &DBInstrumentation{config: cfg, logger: logger}

	if meter != nil {
		if err := in.registerMetrics(db, meter); err != nil {
			return nil, err
		}
	}

	// Registered ahead of otelgorm so span annotation runs before its span ends
	if err := in.registerCallbacks(db); err != nil {
		return nil, err
	}

	if cfg.TraceEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, err
		}
	}

	logger.Info("Database instrumentation registered",
		zap.Bool("tracing", cfg.TraceEnabled),
		zap.Bool("metrics", meter != nil),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return in, nil
}

func (in *DBInstrumentation) registerMetrics(db *gorm.DB, meter metric.Meter) error {
	var err error
	if in.queries, err = meter.Int64Counter("db_query_total",
		metric.WithDescription("Database statements by operation and table"),
		metric.WithUnit("{query}"),
	); err != nil {
		return err
	}
	if in.duration, err = meter.Float64Histogram("db_query_duration_seconds",
		metric.WithDescription("Database statement latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DurationBuckets...),
	); err != nil {
		return err
	}
	if in.slowQueries, err = meter.Int64Counter("db_slow_query_total",
		metric.WithDescription("Statements slower than the configured threshold"),
		metric.WithUnit("{query}"),
	); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	open, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Pool connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	maxOpen, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Configured maximum open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	in.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(open, int64(s.InUse), metric.WithAttributes(attribute.String("state", "in_use")))
		o.ObserveInt64(open, int64(s.Idle), metric.WithAttributes(attribute.String("state", "idle")))
		o.ObserveInt64(maxOpen, int64(s.MaxOpenConnections))
		return nil
	}, open, maxOpen)
	return err
}

func (in *DBInstrumentation) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string) error
		after  func(string) error
	}{
		{"create",
			func(n string) error { return cb.Create().Before("gorm:create").Register(n, markStart) },
			func(n string) error { return cb.Create().After("gorm:create").Before("otel:after:create").Register(n, in.finish("create")) }},
		{"query",
			func(n string) error { return cb.Query().Before("gorm:query").Register(n, markStart) },
			func(n string) error { return cb.Query().After("gorm:query").Before("otel:after:select").Register(n, in.finish("select")) }},
		{"update",
			func(n string) error { return cb.Update().Before("gorm:update").Register(n, markStart) },
			func(n string) error { return cb.Update().After("gorm:update").Before("otel:after:update").Register(n, in.finish("update")) }},
		{"delete",
			func(n string) error { return cb.Delete().Before("gorm:delete").Register(n, markStart) },
			func(n string) error { return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register(n, in.finish("delete")) }},
		{"row",
			func(n string) error { return cb.Row().Before("gorm:row").Register(n, markStart) },
			func(n string) error { return cb.Row().After("gorm:row").Before("otel:after:row").Register(n, in.finish("")) }},
		{"raw",
			func(n string) error { return cb.Raw().Before("gorm:raw").Register(n, markStart) },
			func(n string) error { return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register(n, in.finish("")) }},
	}
	for _, h := range hooks {
		if err := h.before("telemetry:before_" + h.op); err != nil {
			return err
		}
		if err := h.after("telemetry:after_" + h.op); err != nil {
			return err
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startedAtKey, time.Now())
}

// finish records metrics and annotates the active span. An empty operation
// is derived from the statement text.
func (in *DBInstrumentation) finish(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(started)

		op := operation
		if op == "" {
			op = detectOperation(db.Statement.SQL.String())
		}
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		slow := elapsed > in.config.SlowQueryThreshold
		failed := db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)

		if in.queries != nil {
			attrs := metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("table", db.Statement.Table),
				attribute.Bool("error", failed),
			)
			in.queries.Add(ctx, 1, attrs)
			in.duration.Record(ctx, elapsed.Seconds(), attrs)
			if slow {
				in.slowQueries.Add(ctx, 1, attrs)
			}
		}

		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if failed {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
		if slow {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", in.config.SlowQueryThreshold.Milliseconds()),
			))
		}
	}
}

// Close unregisters the pool gauges
func (in *DBInstrumentation) Close() error {
	if in.registration == nil {
		return nil
	}
	return in.registration.Unregister()
}

func detectOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "other"
	}
	switch op := strings.ToLower(fields[0]); op {
	case "select", "insert", "update", "delete":
		return op
	case "with":
		return "select"
	default:
		return "other"
	}
}
