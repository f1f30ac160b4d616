package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Route groups used as the "group" label.
const (
	groupAPI    = "api"    // routes under the API base path
	groupOps    = "ops"    // health, metrics and docs
	groupStatic = "static" // index page and NoRoute assets
)

// unmatchedRoute labels requests that matched no registered route.
const unmatchedRoute = "unmatched"

const metricsNamespace = "portfolio"

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route group, method, route and status.",
		},
		[]string{"group", "method", "route", "status"},
	)

	// No status label here; the counter carries it.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route group, method and route.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
		},
		[]string{"group", "method", "route"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_inflight",
			Help:      "HTTP requests currently being served, by route group.",
		},
		[]string{"group"},
	)

	// Sized for JSON replies and the static frontend's assets.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response body size by route group.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B..4MiB
		},
		[]string{"group"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize)
}

// Metrics instruments every request with the portfolio_http_* collectors.
// The route label is the registered Gin path, so raw URLs never become
// series; anything served from NoRoute shares "unmatched". apiBase is the
// prefix that marks the "api" group (e.g. "/api").
func Metrics(apiBase string) gin.HandlerFunc {
	if apiBase != "/" {
		apiBase = strings.TrimRight(apiBase, "/")
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		group := routeGroup(apiBase, route)

		start := time.Now()
		inflight := httpInflight.WithLabelValues(group)
		inflight.Inc()
		defer inflight.Dec()

		c.Next()

		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(group, method, route, status).Inc()
		httpLat.WithLabelValues(group, method, route).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(group).Observe(float64(size))
		}
	}
}

// routeGroup classifies a registered route path. An empty route is NoRoute.
func routeGroup(apiBase, route string) string {
	switch {
	case route == "" || route == "/":
		return groupStatic
	case route == "/metrics" || route == "/health" || strings.HasPrefix(route, "/health/") || strings.HasPrefix(route, "/swagger/"):
		return groupOps
	case apiBase == "" || apiBase == "/" || route == apiBase || strings.HasPrefix(route, apiBase+"/"):
		return groupAPI
	default:
		return groupOps
	}
}
