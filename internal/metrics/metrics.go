// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cp_http_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	recordsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cp_records_imported_total",
			Help: "Records added to a collection by document imports",
		},
		[]string{"collection"},
	)

	recordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cp_records_skipped_total",
			Help: "Extracted records dropped as duplicates",
		},
		[]string{"collection"},
	)

	extractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cp_extraction_failures_total",
			Help: "Document extractions that returned an error",
		},
		[]string{"collection"},
	)

	extractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cp_extraction_duration_seconds",
			Help:    "Time spent extracting records from a document",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"collection"},
	)
)

// Middleware records request counts and latency per route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// ObserveImport counts the outcome of one import
func ObserveImport(collection string, imported, skipped int) {
	recordsImported.WithLabelValues(collection).Add(float64(imported))
	recordsSkipped.WithLabelValues(collection).Add(float64(skipped))
}

// ObserveExtraction records the duration of an extraction and whether it failed
func ObserveExtraction(collection string, elapsed time.Duration, err error) {
	extractionDuration.WithLabelValues(collection).Observe(elapsed.Seconds())
	if err != nil {
		extractionFailures.WithLabelValues(collection).Inc()
	}
}
