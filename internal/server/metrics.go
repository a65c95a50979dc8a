package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for Prometheus
var (
	entitiesTotal = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_entities_total",
		Help: "Number of live (not soft-deleted) rows per resource",
	}, []string{"resource"})

	writesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_writes_total",
		Help: "Total number of write operations",
	}, []string{"resource", "operation", "status"})

	requestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_errors_total",
		Help: "Total number of errors",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(entitiesTotal)
	prometheus.MustRegister(writesTotal)
	prometheus.MustRegister(requestDurationSeconds)
	prometheus.MustRegister(errorsTotal)
}

// Write outcomes
const (
	writeOK       = "ok"
	writeInvalid  = "invalid"
	writeNotFound = "not_found"
	writeFailed   = "failed"
)

// RecordWrite records the outcome of a create, update or delete
func RecordWrite(resource, operation, status string) {
	writesTotal.WithLabelValues(resource, operation, status).Inc()
}

// RecordRequest records the duration of an HTTP request
func RecordRequest(method, route, status string, duration time.Duration) {
	requestDurationSeconds.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}

// UpdateEntityCount updates the live row gauge of a resource
func UpdateEntityCount(resource string, count int64) {
	entitiesTotal.WithLabelValues(resource).Set(float64(count))
}
