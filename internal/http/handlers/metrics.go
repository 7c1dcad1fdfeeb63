package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/observability"
)

type MetricsHandler struct {
	metrics *observability.Metrics
}

func NewMetricsHandler(m *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// GET /metrics
func (h *MetricsHandler) Metrics(c *gin.Context) {
	if h.metrics == nil {
		c.String(http.StatusNotFound, "metrics disabled")
		return
	}
	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.Status(http.StatusOK)
	_ = h.metrics.WritePrometheus(c.Writer)
}
