package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/docqa-backend/internal/http/handlers"
	httpMW "github.com/yungbote/docqa-backend/internal/http/middleware"
	"github.com/yungbote/docqa-backend/internal/observability"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AskHandler     *httpH.AskHandler
	HealthHandler  *httpH.HealthHandler
	MetricsHandler *httpH.MetricsHandler

	TracingEnabled bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("docqa"))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", cfg.MetricsHandler.Metrics)
	}

	api := r.Group("/api")
	{
		if cfg.AskHandler != nil {
			api.POST("/ask", cfg.AskHandler.Ask)
		}
	}

	return r
}
