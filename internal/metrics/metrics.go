package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequestsTotal counts handled requests by route pattern, method and status.
var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "examapi_http_requests_total",
		Help: "Total number of HTTP requests handled",
	},
	[]string{"route", "method", "status"},
)

// HTTPRequestDuration records request latency by route pattern and method.
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "examapi_http_request_duration_seconds",
		Help:    "Latency in seconds of HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// Database metrics
var (
	DBOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examapi_db_operations_total",
			Help: "Database operations by collection, operation and outcome",
		},
		[]string{"collection", "op", "outcome"},
	)

	DBUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "examapi_db_up",
			Help: "1 when the last database ping succeeded, 0 otherwise",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
	prometheus.MustRegister(DBOperations, DBUp)
}

// Outcome maps an error to the outcome label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
