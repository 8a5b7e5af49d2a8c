package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketlens/internal/api/health"
	"marketlens/internal/metrics"
	"marketlens/pkg/logger"
)

// RouterConfig carries the presentation-layer knobs.
type RouterConfig struct {
	ServiceName string
	Version     string
	CORSOrigin  string
	Environment string
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig, service AnalysisService, healthHandler *health.Handler, log *logger.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(log), CORS(cfg.CORSOrigin))

	handler := NewHandler(service, log)

	api := router.Group("/api")
	{
		api.GET("/market-data/:symbol", handler.GetMarketData)
		api.GET("/analysis/:symbol", handler.GetAnalysis)
	}

	// Health check endpoints (Kubernetes probes)
	router.GET("/health", gin.WrapF(healthHandler.HandleHealth))
	router.GET("/ready", gin.WrapF(healthHandler.HandleReadiness))
	router.GET("/live", gin.WrapF(healthHandler.HandleLiveness))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Root endpoint (service info)
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"version": cfg.Version,
			"status":  "running",
		})
	})

	return router
}
