package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/flagrank/pkg/metrics"
)

// HealthHandler serves the Prometheus exposition of the service registry.
// A successful scrape doubles as the liveness probe.
type HealthHandler struct {
	exposition http.Handler
}

// NewHealthHandler creates a health handler over the global metrics registry.
func NewHealthHandler() *HealthHandler {
	return newHealthHandler(metrics.GetRegistry())
}

func newHealthHandler(reg *prometheus.Registry) *HealthHandler {
	return &HealthHandler{
		exposition: promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}),
	}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.exposition.ServeHTTP(w, r)
}
