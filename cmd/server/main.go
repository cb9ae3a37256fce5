package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	appcoc "github.com/solarqc/coc-backend/internal/application/coc"
	"github.com/solarqc/coc-backend/internal/infrastructure/cache"
	"github.com/solarqc/coc-backend/internal/infrastructure/cocapi"
	"github.com/solarqc/coc-backend/internal/infrastructure/config"
	"github.com/solarqc/coc-backend/internal/infrastructure/logger"
	"github.com/solarqc/coc-backend/internal/infrastructure/persistence"
	"github.com/solarqc/coc-backend/internal/infrastructure/telemetry"
	"github.com/solarqc/coc-backend/internal/interfaces/http/handler"
	"github.com/solarqc/coc-backend/internal/interfaces/http/middleware"
	"github.com/solarqc/coc-backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/solarqc/coc-backend/docs"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			COC Allocation API
//	@version		1.0
//	@description	Certificate-of-conformance lot ledger, pooled stock and FIFO material allocation for module production.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if cfg.Telemetry.LogsEnabled {
		level, lerr := zapcore.ParseLevel(cfg.Telemetry.LogsLevel)
		if lerr != nil {
			level = zapcore.InfoLevel
		}
		if withOTLP, lerr := logger.New(logCfg, providers.LogCore(level)); lerr == nil {
			log = withOTLP
		} else {
			log.Warn("Failed to attach OTLP log core", zap.Error(lerr))
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting COC backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	meter := providers.Meter.Meter("coc-backend")
	if _, err := telemetry.InstrumentDatabase(db.DB, telemetry.DBConfig{
		TraceEnabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:             db.Driver,
		LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, meter, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}

	allocMetrics, err := telemetry.NewAllocationMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create allocation metrics", zap.Error(err))
	}

	// Repositories
	lotRepo := persistence.NewGormLotRepository(db.DB)
	consumptionRepo := persistence.NewGormConsumptionRepository(db.DB)
	productionRepo := persistence.NewGormProductionRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Services
	allocator := appcoc.NewAllocator(txScope, log)
	allocator.SetMetrics(allocMetrics)

	ledgerService := appcoc.NewLedgerService(lotRepo, consumptionRepo, log)
	stockService := appcoc.NewStockService(lotRepo)
	validationService := appcoc.NewValidationService(lotRepo)

	feed := cocapi.NewClient(cocapi.Config{
		BaseURL:          cfg.COCAPI.BaseURL,
		Timeout:          cfg.COCAPI.Timeout,
		MaxResponseBytes: cfg.COCAPI.MaxResponseBytes,
	}, log)
	syncService := appcoc.NewSyncService(feed, lotRepo, appcoc.SyncConfig{
		FetchTimeout:      cfg.COCAPI.FetchTimeout,
		DefaultWindowDays: cfg.COCAPI.DefaultWindowDays,
	}, log)
	syncService.SetMetrics(allocMetrics)

	productionService := appcoc.NewProductionService(
		txScope,
		lotRepo,
		consumptionRepo,
		productionRepo,
		companyRepo,
		idempotencyStore,
		allocator,
		appcoc.ProductionConfig{
			DefaultCellsPerModule: cfg.Production.DefaultCellsPerModule,
			IdempotencyTTL:        cfg.Production.IdempotencyTTL,
		},
		log,
	)
	productionService.SetMetrics(allocMetrics)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS: middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		},
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		},
		Tracing:   cfg.Telemetry.Enabled,
		Profiling: cfg.Telemetry.ProfilingEnabled,
		Meter:     meter,
	}, router.Handlers{
		COC:        handler.NewCOCHandler(ledgerService, stockService, validationService, syncService, allocator),
		Production: handler.NewProductionHandler(productionService),
		System:     handler.NewSystemHandler(cfg.App.Name, version, db, log),
	}, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}
	if err := idempotencyStore.Close(); err != nil {
		log.Warn("Failed to close idempotency store", zap.Error(err))
	}

	log.Info("Server exited")
}
