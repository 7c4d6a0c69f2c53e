package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptvault_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptvault_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// GenerationTotal counts generation proxy calls by type and outcome.
	GenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptvault_generation_requests_total",
			Help: "Total number of generation requests",
		},
		[]string{"type", "status"},
	)
	// SharesTotal counts share workflow actions.
	SharesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptvault_shares_total",
			Help: "Total number of share workflow actions",
		},
		[]string{"action"},
	)
	// BackupsTotal counts backup creations and restores.
	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptvault_backups_total",
			Help: "Total number of backup operations",
		},
		[]string{"operation"},
	)
)

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
