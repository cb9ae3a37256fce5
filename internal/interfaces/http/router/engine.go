package router

import (
	"github.com/gin-gonic/gin"
	"github.com/solarqc/coc-backend/internal/infrastructure/logger"
	"github.com/solarqc/coc-backend/internal/interfaces/http/handler"
	"github.com/solarqc/coc-backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig configures the middleware chain
type EngineConfig struct {
	ServiceName    string
	TrustedProxies []string
	MaxBodySize    int64
	CORS           middleware.CORSConfig
	Swagger        middleware.SwaggerConfig
	Tracing        bool
	Profiling      bool
	// Meter enables HTTP metrics when non-nil
	Meter metric.Meter
}

// Handlers groups the HTTP handlers mounted by NewEngine
type Handlers struct {
	COC        *handler.COCHandler
	Production *handler.ProductionHandler
	System     *handler.SystemHandler
}

// NewEngine builds the gin engine with the full middleware chain and routes:
// request ID, logging, recovery, tracing, metrics, profiling labels, CORS,
// security headers and the body limit, in that order.
func NewEngine(cfg EngineConfig, h Handlers, log *zap.Logger) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	skip := []string{"/health", "/api/v1/ping"}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.Tracing,
		SkipPaths:   skip,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = cfg.Profiling
	engine.Use(middleware.Profiling(profiling))
	engine.Use(middleware.CORS(cfg.CORS))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(COCRoutes(h.COC)).
		Register(ProductionRoutes(h.Production))
	api := r.Setup()
	api.GET("/ping", h.System.Ping)

	return engine
}

// COCRoutes mounts the lot ledger and allocation endpoints under /coc
func COCRoutes(h *handler.COCHandler) *DomainGroup {
	g := NewDomainGroup("coc", "/coc")
	g.POST("/sync", h.Sync).
		GET("/list", h.ListLots).
		GET("/stock", h.Stock).
		POST("/validate", h.Validate).
		GET("/companies", h.Companies).
		GET("/materials", h.Materials).
		POST("/consume", h.Consume)

	lots := g.Group("lots", "/lots/:id")
	lots.GET("/consumption", h.LotConsumption).
		POST("/deactivate", h.DeactivateLot)
	return g
}

// ProductionRoutes mounts production entry endpoints under /production
func ProductionRoutes(h *handler.ProductionHandler) *DomainGroup {
	g := NewDomainGroup("production", "/production")
	g.POST("/validate-materials", h.CheckMaterials).
		POST("/records", h.Record).
		GET("/material-summary", h.MaterialSummary)
	return g
}
